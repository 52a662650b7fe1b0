package segment

// SeparationRows returns, in ascending order, the rows whose every pixel
// matches a palette colour.
func SeparationRows(r *Raster, p Palette) []int {
	var rows []int

	for y := 0; y < r.Height(); y++ {
		if isSeparationRow(r.row(y), p) {
			rows = append(rows, y)
		}
	}

	return rows
}

func isSeparationRow(pix []uint8, p Palette) bool {
	for i := 0; i+3 < len(pix); i += 4 {
		if !p.Match(pix[i], pix[i+1], pix[i+2]) {
			return false
		}
	}
	return true
}
