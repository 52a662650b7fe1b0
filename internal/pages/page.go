package pages

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

var reDigits = regexp.MustCompile(`\d+`)

type Page struct {
	Path  string
	Name  string
	Index int // 1-based position after ordering
}

// Discover lists the files of dir whose extension is in allowExt, in
// natural order (page_2 before page_10).
func Discover(dir string, allowExt []string) ([]Page, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot read input folder: %w", err)
	}

	allowed := normalizeExtList(allowExt)
	var names []string

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if hasAllowedExt(e.Name(), allowed) {
			names = append(names, e.Name())
		}
	}

	SortNumeric(names)

	out := make([]Page, len(names))
	for i, n := range names {
		out[i] = Page{Path: filepath.Join(dir, n), Name: n, Index: i + 1}
	}

	return out, nil
}

// FromPaths keeps the given order; files are not checked for existence.
func FromPaths(paths []string) []Page {
	out := make([]Page, len(paths))
	for i, p := range paths {
		out[i] = Page{Path: p, Name: filepath.Base(p), Index: i + 1}
	}
	return out
}

// SortNumeric orders names by the numbers they contain, compared in
// sequence. Names without digits go last, ties fall back to the name.
func SortNumeric(names []string) {
	sort.SliceStable(names, func(i, j int) bool {
		ni, nj := numbers(names[i]), numbers(names[j])
		if (len(ni) == 0) != (len(nj) == 0) {
			return len(ni) > 0
		}
		for k := 0; k < len(ni) && k < len(nj); k++ {
			if ni[k] != nj[k] {
				return ni[k] < nj[k]
			}
		}
		if len(ni) != len(nj) {
			return len(ni) < len(nj)
		}
		return names[i] < names[j]
	})
}

func numbers(name string) []int {
	var out []int
	for _, m := range reDigits.FindAllString(name, -1) {
		if n, err := strconv.Atoi(m); err == nil {
			out = append(out, n)
		}
	}
	return out
}

func normalizeExtList(list []string) []string {
	out := []string{}
	for _, ext := range list {
		ext = strings.ToLower(strings.TrimSpace(ext))
		ext = strings.TrimPrefix(ext, ".")
		if ext != "" {
			out = append(out, ext)
		}
	}

	return out
}

func hasAllowedExt(name string, allowed []string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	for _, a := range allowed {
		if ext == a {
			return true
		}
	}
	return false
}

// Sanitize turns a folder or file name into a lowercase, underscore
// separated label.
func Sanitize(s string) string {
	s = strings.ToLower(s)

	repl := strings.NewReplacer(
		"•", "_",
		"-", "_",
		"—", "_",
		"–", "_",
		"/", "_",
		"\\", "_",
		".", "_",
		" ", "_",
		"(", "",
		")", "",
	)
	s = repl.Replace(s)

	clean := make([]rune, 0, len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			clean = append(clean, r)
		}
	}

	s = reUnderscore.ReplaceAllString(string(clean), "_")
	return strings.Trim(s, "_")
}

var reUnderscore = regexp.MustCompile(`_+`)
