package util

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCBZKeepsOrder(t *testing.T) {
	dir := t.TempDir()
	var files []string
	for _, n := range []string{"f-9.png", "f-10.png", "f-11.png"} {
		p := filepath.Join(dir, n)
		require.NoError(t, os.WriteFile(p, []byte(n), 0644))
		files = append(files, p)
	}

	out := filepath.Join(dir, "chapter.cbz")
	require.NoError(t, CreateCBZ(files, out))

	zr, err := zip.OpenReader(out)
	require.NoError(t, err)
	defer zr.Close()

	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"1_f-9.png", "2_f-10.png", "3_f-11.png"}, names)
}

func TestCreateCBZMissingInput(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "broken.cbz")

	err := CreateCBZ([]string{filepath.Join(dir, "nope.png")}, out)
	require.Error(t, err)
	assert.NoFileExists(t, out)
}

func TestRemoveHelpers(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty")
	require.NoError(t, os.Mkdir(empty, 0755))
	assert.True(t, RemoveIfEmpty(empty))
	assert.NoDirExists(t, empty)

	f := filepath.Join(dir, "a.png")
	require.NoError(t, os.WriteFile(f, nil, 0644))
	assert.False(t, RemoveIfEmpty(dir))

	require.NoError(t, RemoveFiles([]string{f, filepath.Join(dir, "gone.png")}))
	assert.NoFileExists(t, f)
}

func TestHuman(t *testing.T) {
	assert.Equal(t, "512 B", Human(512))
	assert.Equal(t, "1.50 KB", Human(1536))
	assert.Equal(t, "2.00 MB", Human(2<<20))
	assert.Equal(t, "1.00 GB", Human(1<<30))
}

func TestPlural(t *testing.T) {
	assert.Equal(t, "1 frame", Plural(1, "frame"))
	assert.Equal(t, "0 images", Plural(0, "image"))
}
