package dataprep

import "github.com/maliblgn/imdb-movie-classifier/pkg/data"

// FilterPositiveRuntime drops films whose runtime is not positive. It returns
// the kept films and, for each, its index in raw.
func FilterPositiveRuntime(raw []data.Film) ([]data.Film, []int) {
	kept := make([]data.Film, 0, len(raw))
	idx := make([]int, 0, len(raw))
	for i, f := range raw {
		if f.RuntimeMinutes > 0 {
			kept = append(kept, f)
			idx = append(idx, i)
		}
	}
	return kept, idx
}
