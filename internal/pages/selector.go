package pages

import (
	"fmt"
	"strconv"
	"strings"
)

// Select applies a 1-based "a-b" range or an "i,j,k" list. Range wins when
// both are given; with neither, all pages are returned.
func Select(all []Page, rng, list string) ([]Page, error) {
	if rng != "" {
		out := FilterRange(all, rng)
		if out == nil {
			return nil, fmt.Errorf("invalid page range %q for %d pages", rng, len(all))
		}
		return out, nil
	}
	if list != "" {
		out := FilterList(all, list)
		if len(out) == 0 {
			return nil, fmt.Errorf("page list %q selects nothing from %d pages", list, len(all))
		}
		return out, nil
	}

	return all, nil
}

func FilterRange(all []Page, rng string) []Page {
	parts := strings.Split(rng, "-")
	if len(parts) != 2 {
		return nil
	}
	start, err1 := atoi(parts[0])
	end, err2 := atoi(parts[1])
	if err1 != nil || err2 != nil {
		return nil
	}
	if start <= 0 || end <= 0 || start > end || end > len(all) {
		return nil
	}
	return all[start-1 : end]
}

func FilterList(all []Page, list string) []Page {
	out := []Page{}
	for n := range strings.SplitSeq(list, ",") {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		idx, err := atoi(n)
		if err != nil {
			continue
		}
		if idx > 0 && idx <= len(all) {
			out = append(out, all[idx-1])
		}
	}
	return out
}

func atoi(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}
