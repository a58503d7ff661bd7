package handlers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/deckcheck/internal/domain/entities"
)

func TestShowHandler_Handle(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "report.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`[{"type":"numerical_conflict","description":"d","slides_involved":[1,2],"confidence":0.8,"severity":"high","details":""}]`), 0o600))
	csvPath := filepath.Join(dir, "report.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("type,description,slides_involved,confidence,severity,details\nnumerical_conflict,d,1;2,0.8,high,\n"), 0o600))

	handler := NewShowHandler()

	fromJSON, err := handler.Handle(t.Context(), jsonPath, "")
	require.NoError(t, err)
	fromCSV, err := handler.Handle(t.Context(), csvPath, "auto")
	require.NoError(t, err)

	require.Len(t, fromJSON, 1)
	assert.Equal(t, fromJSON, fromCSV)
	assert.Equal(t, []int{1, 2}, fromJSON[0].SlidesInvolved)
}

func TestShowHandler_Handle_Errors(t *testing.T) {
	dir := t.TempDir()
	txtPath := filepath.Join(dir, "report.txt")
	require.NoError(t, os.WriteFile(txtPath, []byte("x"), 0o600))
	badJSON := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(badJSON, []byte("{"), 0o600))

	handler := NewShowHandler()

	_, err := handler.Handle(t.Context(), txtPath, "")
	assert.ErrorIs(t, err, entities.ErrUnsupportedFormat)

	_, err = handler.Handle(t.Context(), txtPath, "xml")
	assert.ErrorIs(t, err, entities.ErrUnsupportedFormat)

	_, err = handler.Handle(t.Context(), filepath.Join(dir, "missing.json"), "")
	assert.ErrorIs(t, err, entities.ErrInput)

	_, err = handler.Handle(t.Context(), badJSON, "")
	assert.ErrorIs(t, err, entities.ErrInput)
	assert.Contains(t, err.Error(), badJSON)
}
