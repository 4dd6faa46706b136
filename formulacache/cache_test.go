package formulacache_test

import (
	"errors"
	"testing"

	"github.com/go-spreadsheet/core/formulacache"
	"github.com/go-spreadsheet/core/position"
	"github.com/go-spreadsheet/core/sheet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFormula string

func (s stubFormula) Evaluate(sheet.Resolver) (float64, *sheet.FormulaError) { return 0, nil }
func (s stubFormula) ExpressionText() string                                { return string(s) }
func (s stubFormula) ReferencedPositions() []position.Position              { return nil }

func countingParser(calls *int) sheet.FormulaParser {
	return func(exprText string) (sheet.CompiledFormula, error) {
		*calls++
		return stubFormula(exprText), nil
	}
}

func TestCache_HitsAvoidReparsing(t *testing.T) {
	var calls int
	c := formulacache.New(8, countingParser(&calls))
	parser := c.Parser()

	_, err := parser("1+1")
	require.NoError(t, err)
	_, err = parser("1+1")
	require.NoError(t, err)
	_, err = parser("2+2")
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
	hits, misses := c.Stats()
	assert.Equal(t, 1, hits)
	assert.Equal(t, 2, misses)
	assert.Equal(t, 2, c.Len())
}

func TestCache_EvictsLeastRecentlyUsed(t *testing.T) {
	var calls int
	c := formulacache.New(2, countingParser(&calls))
	parser := c.Parser()

	_, _ = parser("A")
	_, _ = parser("B")
	_, _ = parser("A") // refresh A's recency
	_, _ = parser("C") // evicts B, the least recently used

	assert.Equal(t, 2, c.Len())

	_, _ = parser("B")
	assert.Equal(t, 4, calls, "B should have been re-parsed after eviction")
}

func TestCache_PropagatesParseErrors(t *testing.T) {
	boom := errors.New("boom")
	c := formulacache.New(4, func(string) (sheet.CompiledFormula, error) {
		return nil, boom
	})
	_, err := c.Parser()("bad")
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, c.Len())
}
