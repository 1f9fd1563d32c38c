package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderGrid(t *testing.T) {
	grid := [][]string{
		{"Date / Staff", "Alice", "Bob", "Note"},
		{"Mon, 2025-03-03", "09:00-12:00\n(3.0 h)", "", ""},
		{"Tue, 2025-03-04", "", "08:00-12:30\n(4.5 h)", "delivery"},
		{"Weekly Total", "3.0 h", "4.5 h", ""},
	}

	path := filepath.Join(t.TempDir(), "roster.pdf")
	require.NoError(t, RenderGrid(grid, Options{Title: "Roster 2025-03-03 ~ 2025-03-09"}, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	head := make([]byte, 5)
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	_, err = f.Read(head)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-", string(head))
}

func TestRenderGridEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.pdf")
	assert.Error(t, RenderGrid(nil, Options{}, path))
	assert.Error(t, RenderGrid([][]string{}, Options{}, path))
}
