package segment

import "fmt"

// Region is a run of consecutive separation rows, both ends inclusive.
type Region struct {
	Start int
	End   int
}

func (r Region) Size() int {
	return r.End - r.Start + 1
}

func (r Region) String() string {
	return fmt.Sprintf("[%d-%d]", r.Start, r.End)
}

// GroupRegions merges strictly consecutive row indices. rows must be
// ascending.
func GroupRegions(rows []int) []Region {
	if len(rows) == 0 {
		return nil
	}

	regions := make([]Region, 0, 8)
	cur := Region{Start: rows[0], End: rows[0]}

	for _, y := range rows[1:] {
		if y == cur.End+1 {
			cur.End = y
			continue
		}
		regions = append(regions, cur)
		cur = Region{Start: y, End: y}
	}

	return append(regions, cur)
}

// SignificantRegions drops regions shorter than minGap rows.
func SignificantRegions(regions []Region, minGap int) []Region {
	out := make([]Region, 0, len(regions))
	for _, r := range regions {
		if r.Size() >= minGap {
			out = append(out, r)
		}
	}
	return out
}
