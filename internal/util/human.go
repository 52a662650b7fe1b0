package util

import "fmt"

var units = []string{"KB", "MB", "GB", "TB"}

func Human(n int64) string {
	if n < 1<<10 {
		return fmt.Sprintf("%d B", n)
	}

	v := float64(n) / (1 << 10)
	i := 0
	for v >= 1<<10 && i < len(units)-1 {
		v /= 1 << 10
		i++
	}

	return fmt.Sprintf("%.2f %s", v, units[i])
}

// Plural returns "1 frame" or "3 frames".
func Plural(n int64, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
