// Package workbook manages a named collection of sheet.Sheet instances,
// the way a spreadsheet application groups worksheets under one document:
// lookup by name is case-insensitive, each sheet carries a stable ID, and
// the whole collection can be cloned or exported concurrently.
package workbook

import (
	"context"
	"fmt"
	"io"

	"github.com/go-spreadsheet/core/position"
	"github.com/go-spreadsheet/core/sheet"
	"github.com/google/uuid"
	"github.com/mohae/deepcopy"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"
)

var foldCase = cases.Fold()

// entry pairs a sheet with the identity the workbook tracks for it.
type entry struct {
	id    uuid.UUID
	name  string
	sheet *sheet.Sheet
}

// Workbook is a named, ordered collection of sheets. A Workbook is not
// safe for concurrent mutation (Add/Remove/Rename); ExportAll is the only
// operation meant to run while readers may be using individual sheets
// concurrently with each other.
type Workbook struct {
	parser sheet.FormulaParser
	byID   map[uuid.UUID]*entry
	byName map[string]uuid.UUID // folded name -> id
	order  []uuid.UUID
}

// New creates an empty Workbook. Every sheet added to it is constructed
// with parser, the same way every Sheet in spec.md §1 is handed one
// external formula parser at construction time.
func New(parser sheet.FormulaParser) *Workbook {
	return &Workbook{
		parser: parser,
		byID:   make(map[uuid.UUID]*entry),
		byName: make(map[string]uuid.UUID),
	}
}

// Add creates a new sheet named name and returns its ID. Names are
// compared case-insensitively (Unicode case folding via x/text/cases);
// adding a name that already exists, under any casing, fails.
func (w *Workbook) Add(name string) (uuid.UUID, error) {
	folded := foldCase.String(name)
	if _, exists := w.byName[folded]; exists {
		return uuid.Nil, fmt.Errorf("workbook: sheet %q already exists", name)
	}

	id := uuid.New()
	w.byID[id] = &entry{id: id, name: name, sheet: sheet.NewSheet(w.parser)}
	w.byName[folded] = id
	w.order = append(w.order, id)
	return id, nil
}

// Remove deletes the sheet with the given ID. Reports false if no such
// sheet exists.
func (w *Workbook) Remove(id uuid.UUID) bool {
	e, ok := w.byID[id]
	if !ok {
		return false
	}
	delete(w.byID, id)
	delete(w.byName, foldCase.String(e.name))
	for i, oid := range w.order {
		if oid == id {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
	return true
}

// Sheet returns the sheet with the given ID.
func (w *Workbook) Sheet(id uuid.UUID) (*sheet.Sheet, bool) {
	e, ok := w.byID[id]
	if !ok {
		return nil, false
	}
	return e.sheet, true
}

// SheetByName returns the sheet registered under name, matched
// case-insensitively.
func (w *Workbook) SheetByName(name string) (*sheet.Sheet, bool) {
	id, ok := w.byName[foldCase.String(name)]
	if !ok {
		return nil, false
	}
	return w.Sheet(id)
}

// Rename changes the name a sheet is looked up by. Fails if newName
// collides with an existing sheet (case-insensitively).
func (w *Workbook) Rename(id uuid.UUID, newName string) error {
	e, ok := w.byID[id]
	if !ok {
		return fmt.Errorf("workbook: no such sheet %s", id)
	}
	folded := foldCase.String(newName)
	if existing, exists := w.byName[folded]; exists && existing != id {
		return fmt.Errorf("workbook: sheet %q already exists", newName)
	}
	delete(w.byName, foldCase.String(e.name))
	e.name = newName
	w.byName[folded] = id
	return nil
}

// Names returns every sheet name, in the order sheets were added.
func (w *Workbook) Names() []string {
	names := make([]string, 0, len(w.order))
	for _, id := range w.order {
		names = append(names, w.byID[id].name)
	}
	return names
}

// Clone duplicates the entire workbook: every sheet's visible cell text is
// deep-copied and replayed into a fresh Sheet, so mutating the clone can
// never alias the original's dependency graph. sheet.Sheet keeps its cell
// graph unexported, so the duplication works off Sheet.Texts's exported
// snapshot rather than reflecting into the Sheet itself.
func (w *Workbook) Clone() (*Workbook, error) {
	clone := New(w.parser)
	for _, id := range w.order {
		e := w.byID[id]
		texts := deepcopy.Copy(e.sheet.Texts()).(map[position.Position]string)

		newSheet := sheet.NewSheet(w.parser)
		for pos, text := range texts {
			if err := newSheet.Set(pos, text); err != nil {
				return nil, fmt.Errorf("workbook: cloning sheet %q: %w", e.name, err)
			}
		}

		clone.byID[id] = &entry{id: id, name: e.name, sheet: newSheet}
		clone.byName[foldCase.String(e.name)] = id
		clone.order = append(clone.order, id)
	}
	return clone, nil
}

// ExportFunc renders one sheet's contents to w, e.g. sheet.Sheet.PrintValues
// or sheet.Sheet.PrintTexts.
type ExportFunc func(s *sheet.Sheet, w io.Writer) error

// ExportAll runs export concurrently across every sheet, writing each
// sheet's output through dest (which must itself be safe to call
// concurrently, or must serialize internally — e.g. by writing to
// per-sheet buffers keyed by name). Every export runs to completion; none is
// cancelled when another fails. The first export error is returned.
func (w *Workbook) ExportAll(ctx context.Context, export ExportFunc, dest func(name string) io.Writer) error {
	g, _ := errgroup.WithContext(ctx)
	for _, id := range w.order {
		e := w.byID[id]
		g.Go(func() error {
			return export(e.sheet, dest(e.name))
		})
	}
	return g.Wait()
}
