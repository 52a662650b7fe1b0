package cmd

import (
	"archive/zip"
	"bytes"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return buf.String(), err
}

func isolateConfig(t *testing.T) {
	t.Helper()
	t.Setenv("APPDATA", "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
}

// writePages creates one page per entry of heights: a red band of that
// height, 30 white rows, then a 150 row red band.
func writePages(t *testing.T, dir string, heights ...int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))

	for i, h := range heights {
		total := h + 30 + 150
		img := imaging.New(24, total, color.White)
		paint := func(from, to int) {
			for y := from; y < to; y++ {
				for x := 0; x < 24; x++ {
					img.SetNRGBA(x, y, color.NRGBA{200, 40, 40, 255})
				}
			}
		}
		paint(0, h)
		paint(h+30, total)
		require.NoError(t, imaging.Save(img, filepath.Join(dir, fmt.Sprintf("page_%d.png", i+1))))
	}
}

func TestSplitCommand(t *testing.T) {
	isolateConfig(t)
	root := t.TempDir()
	in := filepath.Join(root, "Chapter 1")
	out := filepath.Join(root, "frames")
	writePages(t, in, 120, 40, 200)

	stdout, err := run(t, "split", "--ignore-config", "--input", in, "--output", out, "--prefix", "p", "--quiet", "--workers", "2", "--cbz")
	require.NoError(t, err, stdout)

	// page 2 has a 40 row band that is too short to write
	for i := 1; i <= 5; i++ {
		assert.FileExists(t, filepath.Join(out, fmt.Sprintf("p-%d.png", i)))
	}
	assert.NoFileExists(t, filepath.Join(out, "p-6.png"))

	assert.Contains(t, stdout, "Full config:\n -input: "+in+"\n -output: "+out+"\n")
	assert.Contains(t, stdout, "Skipped:  1 frame below minimum height")
	assert.Contains(t, stdout, "5 frames extracted from 3 images.")

	zr, err := zip.OpenReader(filepath.Join(out, "chapter_1.cbz"))
	require.NoError(t, err)
	defer zr.Close()
	assert.Len(t, zr.File, 5)
	assert.Equal(t, "5_p-5.png", zr.File[4].Name)
}

func TestSplitCommandSelectsPages(t *testing.T) {
	isolateConfig(t)
	root := t.TempDir()
	in := filepath.Join(root, "in")
	out := filepath.Join(root, "out")
	writePages(t, in, 120, 120, 120)

	_, err := run(t, "split", in, "--output", out, "--quiet", "--range", "2-3", "--cbz", "--keep-frames=false")
	require.NoError(t, err)

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "in.cbz", entries[0].Name())

	zr, err := zip.OpenReader(filepath.Join(out, "in.cbz"))
	require.NoError(t, err)
	defer zr.Close()
	assert.Len(t, zr.File, 4)
}

func TestSplitCommandDryRun(t *testing.T) {
	isolateConfig(t)
	root := t.TempDir()
	in := filepath.Join(root, "in")
	out := filepath.Join(root, "out")
	writePages(t, in, 40)

	stdout, err := run(t, "split", "--input", in, "--output", out, "--dry-run", "--min-height", "100")
	require.NoError(t, err)

	assert.Contains(t, stdout, "Dry-run: 1 pages selected.")
	assert.Contains(t, stdout, "page_1.png  [2 frames]")
	assert.Contains(t, stdout, "[0,39] 40px  (too short, skipped)")
	assert.Contains(t, stdout, "[70,219] 150px\n")
	assert.NoDirExists(t, out)
}

func TestSplitCommandErrors(t *testing.T) {
	isolateConfig(t)

	_, err := run(t, "split")
	assert.ErrorContains(t, err, "missing --input")

	empty := t.TempDir()
	_, err = run(t, "split", "--input", empty)
	assert.ErrorContains(t, err, "no images found")

	_, err = run(t, "split", "--input", empty, "--background", "#12")
	assert.Error(t, err)

	_, err = run(t, "split", "--input", filepath.Join(empty, "missing.png"))
	assert.Error(t, err)
}

func TestConfigCommands(t *testing.T) {
	isolateConfig(t)

	stdout, err := run(t, "config", "init", "--yes")
	require.NoError(t, err)
	assert.Contains(t, stdout, "now active")

	stdout, err = run(t, "config", "new", "webtoon", "--switch")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Switched to: webtoon")

	stdout, err = run(t, "config", "list")
	require.NoError(t, err)
	assert.Regexp(t, `webtoon\s+\S+webtoon\.yaml\s+yes`, stdout)

	stdout, err = run(t, "config", "rename", "webtoon", "manhwa")
	require.NoError(t, err)
	assert.Contains(t, stdout, `Renamed config "webtoon" to "manhwa"`)

	stdout, err = run(t, "config")
	require.NoError(t, err)
	assert.Contains(t, stdout, "manhwa.yaml")
	assert.Contains(t, stdout, " -min_frame_height: 100")

	_, err = run(t, "config", "rename", "manhwa")
	assert.Error(t, err)

	_, err = run(t, "config", "remove", "manhwa", "--force")
	require.NoError(t, err)

	stdout, err = run(t, "config", "switch", "Default")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Switched to: Default")

	stdout, err = run(t, "config", "reset")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Reset active config")
}

func TestVersionCommand(t *testing.T) {
	stdout, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "panelcut version: dev\n", stdout)
}

func TestSplitExt(t *testing.T) {
	assert.Equal(t, []string{"webp", "jpg", "png"}, splitExt("WEBP| jpg,png "))
	assert.Empty(t, splitExt(" | "))
}
