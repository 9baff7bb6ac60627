package parallel

// minBandRows keeps bands large enough that closure overhead stays small
// next to per-pixel math.
const minBandRows = 4

// Band is a half-open range of rows [Start, End).
type Band struct {
	Start, End int
}

// Bands splits rows [0, height) into contiguous bands, about four per worker
// so one slow band does not leave the other workers idle.
func Bands(height, workers int) []Band {
	if height <= 0 {
		return nil
	}
	if workers < 1 {
		workers = 1
	}
	size := height / (workers * 4)
	if size < minBandRows {
		size = minBandRows
	}
	bands := make([]Band, 0, (height+size-1)/size)
	for y := 0; y < height; y += size {
		bands = append(bands, Band{Start: y, End: min(y+size, height)})
	}
	return bands
}

// ForEachRow calls fn for every row in [0, height).
//
// With a nil pool, or a pool with a single worker, rows run in order on the
// calling goroutine. Otherwise bands run concurrently and fn must only write
// state owned by its row.
func ForEachRow(pool *WorkerPool, height int, fn func(y int)) {
	if pool == nil || pool.Workers() == 1 {
		for y := range height {
			fn(y)
		}
		return
	}

	bands := Bands(height, pool.Workers())
	work := make([]func(), len(bands))
	for i, b := range bands {
		work[i] = func() {
			for y := b.Start; y < b.End; y++ {
				fn(y)
			}
		}
	}
	pool.ExecuteAll(work)
}
