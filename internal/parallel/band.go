package parallel

// BandsPerWorker is how many bands ForEachBand deals to each worker.
// More bands than workers lets work stealing even out bands that hold
// most of the geometry.
const BandsPerWorker = 4

// MinBandRows is the smallest band height SplitRows produces, except for
// a frame shorter than it.
const MinBandRows = 8

// Band is a half-open range of rows [Y0, Y1).
type Band struct {
	Index  int
	Y0, Y1 int
}

// Rows returns the number of rows in the band.
func (b Band) Rows() int { return b.Y1 - b.Y0 }

// Contains reports whether row y belongs to the band.
func (b Band) Contains(y int) bool { return y >= b.Y0 && y < b.Y1 }

// SplitRows divides height rows into at most n contiguous bands of
// near-equal size that together cover [0, height) exactly once.
func SplitRows(height, n int) []Band {
	if height <= 0 {
		return nil
	}
	n = max(n, 1)
	if maxBands := (height + MinBandRows - 1) / MinBandRows; n > maxBands {
		n = maxBands
	}

	bands := make([]Band, n)
	base, extra := height/n, height%n
	y := 0
	for i := range bands {
		rows := base
		if i < extra {
			rows++
		}
		bands[i] = Band{Index: i, Y0: y, Y1: y + rows}
		y += rows
	}
	return bands
}
