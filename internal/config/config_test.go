package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brogergvhs/panelcut/internal/segment"
)

func isolate(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	t.Setenv("APPDATA", "")
	t.Setenv("XDG_CONFIG_HOME", root)
	return filepath.Join(root, "panelcut")
}

func intPtr(v int) *int { return &v }

func TestLoadMergedWithoutProfile(t *testing.T) {
	isolate(t)

	cfg, used, err := LoadMerged(Options{})
	require.NoError(t, err)
	assert.Contains(t, used, "default config in memory")
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, segment.DefaultOptions(), cfg.Segment())
}

func TestLoadMergedProfileAndFlags(t *testing.T) {
	root := isolate(t)

	path, err := InitDefaultConfig()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "configs", "Default.yaml"), path)

	yml := "output: out\nmin_gap_size: 0\ncolor_threshold: 10\nbackground_colors: ['#fafafa', [0, 0, 0]]\n"
	require.NoError(t, os.WriteFile(path, []byte(yml), 0644))

	cfg, used, err := LoadMerged(Options{})
	require.NoError(t, err)
	assert.Equal(t, path, used)
	assert.Equal(t, "out", cfg.Output)
	assert.Equal(t, 0, cfg.MinGapSize)
	assert.Equal(t, 10, cfg.ColorThreshold)
	assert.Equal(t, 100, cfg.MinFrameHeight)
	assert.Equal(t, []segment.RGB{{R: 250, G: 250, B: 250}, segment.Black}, cfg.BackgroundColors)
	assert.True(t, cfg.KeepFrames)

	keep := false
	cfg, _, err = LoadMerged(Options{
		Output:         "cli",
		MinFrameHeight: intPtr(0),
		MinGapSize:     intPtr(5),
		FilenamePrefix: "ch7",
		CBZ:            true,
		KeepFrames:     &keep,
	})
	require.NoError(t, err)
	assert.Equal(t, "cli", cfg.Output)
	assert.Equal(t, 0, cfg.MinFrameHeight)
	assert.Equal(t, 5, cfg.MinGapSize)
	assert.Equal(t, "ch7", cfg.FilenamePrefix)
	assert.True(t, cfg.CBZ)
	assert.False(t, cfg.KeepFrames)

	cfg, used, err = LoadMerged(Options{IgnoreConfig: true})
	require.NoError(t, err)
	assert.Equal(t, "(ignored config)", used)
	assert.Equal(t, "frames", cfg.Output)
}

func TestLoadMergedRejectsInvalidValues(t *testing.T) {
	isolate(t)

	_, _, err := LoadMerged(Options{ColorThreshold: intPtr(-1)})
	assert.Error(t, err)

	path, err := InitDefaultConfig()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, []byte("background_colors: ['#12']\n"), 0644))
	_, _, err = LoadMerged(Options{})
	assert.Error(t, err)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "c.yaml")

	cfg := DefaultConfig()
	cfg.BackgroundColors = []segment.RGB{{R: 1, G: 2, B: 3}}
	cfg.Workers = 4
	require.NoError(t, SaveYAML(cfg, path))

	got, err := loadYAML(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestProfiles(t *testing.T) {
	isolate(t)

	_, err := ActiveConfigPath()
	assert.ErrorIs(t, err, ErrNoConfig)

	_, err = InitDefaultConfig()
	require.NoError(t, err)
	_, err = InitDefaultConfig()
	assert.ErrorIs(t, err, os.ErrExist)

	webtoon, err := CreateConfig("webtoon")
	require.NoError(t, err)
	_, err = CreateConfig("webtoon")
	assert.Error(t, err)
	_, err = CreateConfig("../escape")
	assert.Error(t, err)

	require.NoError(t, SwitchConfig("webtoon"))
	active, err := ActiveConfigPath()
	require.NoError(t, err)
	assert.Equal(t, webtoon, active)
	assert.Error(t, SwitchConfig("missing"))

	list, err := ListConfigs()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Default", list[0].Label)
	assert.True(t, list[1].Active)

	assert.Error(t, RenameConfig(DefaultLabel, "other"))
	assert.Error(t, RenameConfig("webtoon", DefaultLabel))
	assert.Error(t, RenameConfig("missing", "other"))
	assert.Error(t, RenameConfig("webtoon", "../escape"))

	require.NoError(t, RenameConfig("webtoon", "manhwa"))
	assert.NoFileExists(t, webtoon)
	manhwa, err := PathForLabel("manhwa")
	require.NoError(t, err)
	assert.FileExists(t, manhwa)

	label, err := CurrentLabel()
	require.NoError(t, err)
	assert.Equal(t, "manhwa", label)

	_, err = RemoveConfig(DefaultLabel)
	assert.Error(t, err)

	switched, err := RemoveConfig("manhwa")
	require.NoError(t, err)
	assert.True(t, switched)
	assert.NoFileExists(t, manhwa)

	label, err = CurrentLabel()
	require.NoError(t, err)
	assert.Equal(t, DefaultLabel, label)
}
