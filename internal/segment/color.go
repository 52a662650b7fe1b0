package segment

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type RGB struct {
	R, G, B uint8
}

var (
	Black = RGB{0, 0, 0}
	White = RGB{255, 255, 255}
)

func (c RGB) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Matches reports whether every channel differs from c by at most tol.
func (c RGB) Matches(r, g, b uint8, tol int) bool {
	return absDiff(r, c.R) <= tol &&
		absDiff(g, c.G) <= tol &&
		absDiff(b, c.B) <= tol
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

// ParseRGB accepts "#rrggbb", "rrggbb" or "r,g,b".
func ParseRGB(s string) (RGB, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ",") {
		parts := strings.Split(s, ",")
		if len(parts) != 3 {
			return RGB{}, fmt.Errorf("invalid colour %q: want r,g,b", s)
		}
		var ch [3]uint8
		for i, p := range parts {
			v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
			if err != nil {
				return RGB{}, fmt.Errorf("invalid colour %q: %w", s, err)
			}
			ch[i] = uint8(v)
		}
		return RGB{ch[0], ch[1], ch[2]}, nil
	}

	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return RGB{}, fmt.Errorf("invalid colour %q: want #rrggbb", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}

	return RGB{uint8(v >> 16), uint8(v >> 8), uint8(v)}, nil
}

// ParseRGBList reads entries separated by '|', ';' or spaces. Hex entries
// may also be comma separated ("#000000,#ffffff"); "r,g,b" entries may not.
func ParseRGBList(s string) ([]RGB, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == '|' || r == ';' || r == ' '
	})

	var entries []string
	for _, f := range fields {
		if strings.Contains(f, "#") {
			entries = append(entries, strings.Split(f, ",")...)
			continue
		}
		entries = append(entries, f)
	}

	out := make([]RGB, 0, len(entries))
	for _, e := range entries {
		if strings.TrimSpace(e) == "" {
			continue
		}
		c, err := ParseRGB(e)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}

	return out, nil
}

func (c RGB) MarshalYAML() (any, error) {
	return c.String(), nil
}

func (c *RGB) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		parsed, err := ParseRGB(node.Value)
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	case yaml.SequenceNode:
		var ch []int
		if err := node.Decode(&ch); err != nil {
			return err
		}
		if len(ch) != 3 {
			return fmt.Errorf("line %d: colour needs 3 channels, got %d", node.Line, len(ch))
		}
		for _, v := range ch {
			if v < 0 || v > 255 {
				return fmt.Errorf("line %d: channel %d out of range", node.Line, v)
			}
		}
		*c = RGB{uint8(ch[0]), uint8(ch[1]), uint8(ch[2])}
		return nil
	default:
		return fmt.Errorf("line %d: unsupported colour value", node.Line)
	}
}

type Palette struct {
	Colors    []RGB
	Tolerance int
}

func (p Palette) Match(r, g, b uint8) bool {
	for _, c := range p.Colors {
		if c.Matches(r, g, b, p.Tolerance) {
			return true
		}
	}
	return false
}
