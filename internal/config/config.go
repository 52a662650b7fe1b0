package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/brogergvhs/panelcut/internal/segment"
)

type Config struct {
	Input      string   `yaml:"input"`
	Output     string   `yaml:"output"`
	Workers    int      `yaml:"workers"`
	Debug      bool     `yaml:"debug"`
	AllowExt   []string `yaml:"allow_ext"`
	SkipBroken bool     `yaml:"skip_broken"`

	DefaultRange string `yaml:"default_range"`
	DefaultList  string `yaml:"default_list"`

	MinFrameHeight   int           `yaml:"min_frame_height"`
	MinGapSize       int           `yaml:"min_gap_size"`
	BackgroundColors []segment.RGB `yaml:"background_colors,flow"`
	ColorThreshold   int           `yaml:"color_threshold"`
	FilenamePrefix   string        `yaml:"filename_prefix"`

	CBZ        bool `yaml:"cbz"`
	KeepFrames bool `yaml:"keep_frames"`
}

// Options carries CLI values. Zero values mean "not given", except for the
// pointer fields, where nil does.
type Options struct {
	IgnoreConfig bool
	Debug        bool
	Input        string
	Output       string
	Workers      int
	SkipBroken   bool
	DefaultRange string
	DefaultList  string

	MinFrameHeight   *int
	MinGapSize       *int
	ColorThreshold   *int
	BackgroundColors []segment.RGB
	FilenamePrefix   string

	CBZ        bool
	KeepFrames *bool
}

func DefaultConfig() *Config {
	seg := segment.DefaultOptions()

	return &Config{
		Input:            "",
		Output:           "frames",
		Workers:          1,
		Debug:            false,
		AllowExt:         []string{"jpg", "jpeg", "png", "webp"},
		SkipBroken:       false,
		DefaultRange:     "",
		DefaultList:      "",
		MinFrameHeight:   seg.MinFrameHeight,
		MinGapSize:       seg.MinGapSize,
		BackgroundColors: seg.BackgroundColors,
		ColorThreshold:   seg.ColorThreshold,
		FilenamePrefix:   seg.FilenamePrefix,
		CBZ:              false,
		KeepFrames:       true,
	}
}

func (c *Config) Segment() segment.Options {
	return segment.Options{
		MinFrameHeight:   c.MinFrameHeight,
		MinGapSize:       c.MinGapSize,
		BackgroundColors: c.BackgroundColors,
		ColorThreshold:   c.ColorThreshold,
		FilenamePrefix:   c.FilenamePrefix,
	}
}

func SaveYAML(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// loadYAML decodes over the defaults, so keys missing from the file keep
// their default and explicit zeros are kept.
func loadYAML(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	c := DefaultConfig()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, err
	}

	return c, nil
}

func LoadMerged(opts Options) (*Config, string, error) {
	if opts.IgnoreConfig {
		cfg := DefaultConfig()
		mergeConfig(cfg, opts)
		return cfg, "(ignored config)", normalize(cfg)
	}

	activePath, err := ActiveConfigPath()
	if errors.Is(err, ErrNoConfig) || activePath == "" {
		cfg := DefaultConfig()
		mergeConfig(cfg, opts)
		return cfg, "(default config in memory)\nRun `panelcut config init` to create an actual config\n", normalize(cfg)
	}
	if err != nil {
		return nil, "", err
	}

	cfg, err := loadYAML(activePath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load config %s: %w", activePath, err)
	}

	mergeConfig(cfg, opts)
	return cfg, activePath, normalize(cfg)
}

func mergeConfig(c *Config, o Options) {
	if o.Input != "" {
		c.Input = o.Input
	}
	if o.Output != "" {
		c.Output = o.Output
	}
	if o.Workers != 0 {
		c.Workers = o.Workers
	}
	if o.Debug {
		c.Debug = true
	}
	if o.SkipBroken {
		c.SkipBroken = true
	}
	if o.DefaultRange != "" {
		c.DefaultRange = o.DefaultRange
	}
	if o.DefaultList != "" {
		c.DefaultList = o.DefaultList
	}
	if o.MinFrameHeight != nil {
		c.MinFrameHeight = *o.MinFrameHeight
	}
	if o.MinGapSize != nil {
		c.MinGapSize = *o.MinGapSize
	}
	if o.ColorThreshold != nil {
		c.ColorThreshold = *o.ColorThreshold
	}
	if len(o.BackgroundColors) > 0 {
		c.BackgroundColors = o.BackgroundColors
	}
	if o.FilenamePrefix != "" {
		c.FilenamePrefix = o.FilenamePrefix
	}
	if o.CBZ {
		c.CBZ = true
	}
	if o.KeepFrames != nil {
		c.KeepFrames = *o.KeepFrames
	}
}

func normalize(c *Config) error {
	if c.Output == "" {
		c.Output = "frames"
	}
	if c.Workers < 1 {
		c.Workers = 1
	}
	if c.FilenamePrefix == "" {
		c.FilenamePrefix = segment.DefaultFilenamePrefix
	}
	if len(c.BackgroundColors) == 0 {
		c.BackgroundColors = []segment.RGB{segment.Black, segment.White}
	}

	return c.Segment().Validate()
}

// Print writes the effective settings, one per line.
func (c *Config) Print(w io.Writer) {
	if c.Input != "" {
		fmt.Fprintf(w, " -input: %s\n", c.Input)
	}
	fmt.Fprintf(w, " -output: %s\n", c.Output)
	fmt.Fprintf(w, " -workers: %d\n", c.Workers)
	fmt.Fprintf(w, " -min_frame_height: %d\n", c.MinFrameHeight)
	fmt.Fprintf(w, " -min_gap_size: %d\n", c.MinGapSize)
	fmt.Fprintf(w, " -color_threshold: %d\n", c.ColorThreshold)
	fmt.Fprintf(w, " -background_colors: %s\n", joinColors(c.BackgroundColors))
	fmt.Fprintf(w, " -filename_prefix: %s\n", c.FilenamePrefix)
	if c.Debug {
		fmt.Fprintf(w, " -debug: %t\n", c.Debug)
	}
	if c.DefaultRange != "" {
		fmt.Fprintf(w, " -range: %s\n", c.DefaultRange)
	}
	if c.DefaultList != "" {
		fmt.Fprintf(w, " -list: %s\n", c.DefaultList)
	}
	if c.SkipBroken {
		fmt.Fprintf(w, " -skip_broken: %t\n", c.SkipBroken)
	}
	if c.CBZ {
		fmt.Fprintf(w, " -cbz: %t\n", c.CBZ)
		fmt.Fprintf(w, " -keep_frames: %t\n", c.KeepFrames)
	}
	if len(c.AllowExt) > 0 {
		fmt.Fprintf(w, " -allow_ext: %s\n", strings.Join(c.AllowExt, ", "))
	}
}

func joinColors(colors []segment.RGB) string {
	s := make([]string, len(colors))
	for i, c := range colors {
		s[i] = c.String()
	}
	return strings.Join(s, ", ")
}
