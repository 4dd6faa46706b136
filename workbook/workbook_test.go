package workbook_test

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"

	"github.com/go-spreadsheet/core/formula"
	"github.com/go-spreadsheet/core/position"
	"github.com/go-spreadsheet/core/sheet"
	"github.com/go-spreadsheet/core/workbook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustPos(t *testing.T, a1 string) position.Position {
	t.Helper()
	p, err := position.ParseA1(a1)
	require.NoError(t, err)
	return p
}

func TestAdd_RejectsCaseInsensitiveDuplicate(t *testing.T) {
	wb := workbook.New(formula.Parse)
	_, err := wb.Add("Sheet1")
	require.NoError(t, err)

	_, err = wb.Add("sheet1")
	assert.Error(t, err)
}

func TestSheetByName_IsCaseInsensitive(t *testing.T) {
	wb := workbook.New(formula.Parse)
	id, err := wb.Add("Revenue")
	require.NoError(t, err)

	byID, ok := wb.Sheet(id)
	require.True(t, ok)

	byName, ok := wb.SheetByName("REVENUE")
	require.True(t, ok)
	assert.Same(t, byID, byName)
}

func TestRemove(t *testing.T) {
	wb := workbook.New(formula.Parse)
	id, _ := wb.Add("A")
	assert.True(t, wb.Remove(id))
	assert.False(t, wb.Remove(id))

	_, ok := wb.Sheet(id)
	assert.False(t, ok)
}

func TestRename(t *testing.T) {
	wb := workbook.New(formula.Parse)
	id, _ := wb.Add("Old")
	require.NoError(t, wb.Rename(id, "New"))

	_, ok := wb.SheetByName("Old")
	assert.False(t, ok)
	_, ok = wb.SheetByName("New")
	assert.True(t, ok)
}

func TestClone_IsIndependent(t *testing.T) {
	wb := workbook.New(formula.Parse)
	id, _ := wb.Add("Sheet1")
	s, _ := wb.Sheet(id)
	require.NoError(t, s.Set(mustPos(t, "A1"), "=B1+1"))
	require.NoError(t, s.Set(mustPos(t, "B1"), "4"))

	clone, err := wb.Clone()
	require.NoError(t, err)

	cloneSheet, ok := clone.SheetByName("Sheet1")
	require.True(t, ok)

	cv, err := cloneSheet.Get(mustPos(t, "A1"))
	require.NoError(t, err)
	assert.Equal(t, float64(5), cv.Value().Number())

	require.NoError(t, cloneSheet.Set(mustPos(t, "B1"), "100"))

	originalVal, err := s.Get(mustPos(t, "A1"))
	require.NoError(t, err)
	assert.Equal(t, float64(5), originalVal.Value().Number(), "mutating the clone must not affect the original")
}

func TestExportAll_RunsConcurrently(t *testing.T) {
	wb := workbook.New(formula.Parse)
	for _, name := range []string{"A", "B", "C"} {
		id, err := wb.Add(name)
		require.NoError(t, err)
		s, _ := wb.Sheet(id)
		require.NoError(t, s.Set(mustPos(t, "A1"), name))
	}

	var mu sync.Mutex
	buffers := make(map[string]*bytes.Buffer)
	dest := func(name string) io.Writer {
		mu.Lock()
		defer mu.Unlock()
		buf := &bytes.Buffer{}
		buffers[name] = buf
		return buf
	}

	export := func(s *sheet.Sheet, w io.Writer) error { return s.PrintTexts(w) }
	err := wb.ExportAll(context.Background(), export, dest)
	require.NoError(t, err)

	assert.Len(t, buffers, 3)
	for _, name := range []string{"A", "B", "C"} {
		assert.Equal(t, name+"\n", buffers[name].String())
	}
}
