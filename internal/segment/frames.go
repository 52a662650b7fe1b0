package segment

import "fmt"

// FrameRange is a vertical slice of the page, both ends inclusive.
type FrameRange struct {
	StartY int `yaml:"start_y" json:"start_y"`
	EndY   int `yaml:"end_y" json:"end_y"`
}

func (f FrameRange) Height() int {
	return f.EndY - f.StartY + 1
}

func (f FrameRange) String() string {
	return fmt.Sprintf("[%d,%d]", f.StartY, f.EndY)
}

// DeriveFrames turns the significant regions of a page of the given height
// into frame ranges, top to bottom.
//
// Only frames between two regions are held to minFrameHeight here. The
// leading and trailing frames are always emitted; the exporter applies the
// height check to every frame again before writing.
func DeriveFrames(significant []Region, height, minFrameHeight int) []FrameRange {
	if height <= 0 {
		return nil
	}
	if len(significant) == 0 {
		return []FrameRange{{StartY: 0, EndY: height - 1}}
	}

	frames := make([]FrameRange, 0, len(significant)+1)

	first := significant[0]
	if first.Start > 0 {
		frames = append(frames, FrameRange{StartY: 0, EndY: first.Start - 1})
	}

	for i := 1; i < len(significant); i++ {
		prev, cur := significant[i-1], significant[i]
		if cur.Start-prev.End-1 >= minFrameHeight {
			frames = append(frames, FrameRange{StartY: prev.End + 1, EndY: cur.Start - 1})
		}
	}

	last := significant[len(significant)-1]
	if last.End < height-1 {
		frames = append(frames, FrameRange{StartY: last.End + 1, EndY: height - 1})
	}

	return frames
}
