// Package formulacache memoizes formula compilation. Parsing a formula's
// text into an AST is pure with respect to that text, so a sheet that sets
// the same formula text in many cells (a filled-down column, a restored
// workbook) does not re-run the parser for text still resident in the
// cache; text evicted by the LRU policy is parsed again on its next use.
package formulacache

import (
	"container/list"
	"sync"

	"github.com/go-spreadsheet/core/sheet"
	"golang.org/x/crypto/blake2b"
)

// Cache is a thread-safe, fixed-capacity LRU cache mapping formula source
// text to its compiled form. Keys are hashed with blake2b-256 rather than
// held as raw strings, so each key takes a fixed 32 bytes regardless of how
// long the formula text is; the compiled formulas themselves are stored as
// returned by the parser.
type Cache struct {
	mu       sync.RWMutex
	capacity int
	entries  map[[32]byte]*list.Element
	order    *list.List
	parser   sheet.FormulaParser
	hits     int
	misses   int
}

type cacheEntry struct {
	key     [32]byte
	formula sheet.CompiledFormula
}

// New wraps parser with an LRU cache of the given capacity. Parser is
// invoked at most once per distinct formula text currently resident in the
// cache.
func New(capacity int, parser sheet.FormulaParser) *Cache {
	if capacity <= 0 {
		capacity = 1
	}
	return &Cache{
		capacity: capacity,
		entries:  make(map[[32]byte]*list.Element),
		order:    list.New(),
		parser:   parser,
	}
}

// Parser returns a sheet.FormulaParser backed by this cache, suitable for
// passing to sheet.NewSheet.
func (c *Cache) Parser() sheet.FormulaParser {
	return c.get
}

func (c *Cache) get(exprText string) (sheet.CompiledFormula, error) {
	key := blake2b.Sum256([]byte(exprText))

	c.mu.Lock()
	if elem, ok := c.entries[key]; ok {
		c.order.MoveToFront(elem)
		c.hits++
		formula := elem.Value.(*cacheEntry).formula
		c.mu.Unlock()
		return formula, nil
	}
	c.misses++
	c.mu.Unlock()

	formula, err := c.parser(exprText)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if elem, ok := c.entries[key]; ok {
		c.order.MoveToFront(elem)
		return elem.Value.(*cacheEntry).formula, nil
	}
	if c.order.Len() >= c.capacity {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.entries, oldest.Value.(*cacheEntry).key)
		}
	}
	elem := c.order.PushFront(&cacheEntry{key: key, formula: formula})
	c.entries[key] = elem
	return formula, nil
}

// Stats reports cumulative hit and miss counts since construction.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}

// Len returns the number of distinct formula texts currently cached.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.order.Len()
}
