package dataprep

import (
	"math"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/maliblgn/imdb-movie-classifier/pkg/data"
)

// Column names exposed by Table, matching the CSV and derived headers.
const (
	ColAverageRating  = "averageRating"
	ColRuntimeMinutes = "runtimeMinutes"
	ColNumVotes       = "numVotes"
	ColNumVotesLog    = "numVotes_log"
	ColStartYear      = "startYear"
	ColHighRating     = "high_rating"
	ColGenres         = "genres"
	ColPrimaryGenre   = "primary_genre"
)

// Film is a raw film plus its derived columns.
type Film struct {
	data.Film
	HighRating   int
	NumVotesLog  float64
	PrimaryGenre string
}

// Table is the derived film table. It is not modified after Derive returns.
type Table struct {
	Films     []Film
	Threshold float64
}

// Derive labels, filters and extends the raw films:
//   - high_rating = 1 iff averageRating >= threshold
//   - rows with runtimeMinutes <= 0 are dropped
//   - numVotes_log = log(1 + numVotes)
//   - primary_genre = genres up to the first comma
func Derive(raw []data.Film, threshold float64) *Table {
	labels := HighRatingLabels(raw, threshold)
	kept, idx := FilterPositiveRuntime(raw)

	votes := make([]float64, len(kept))
	for i, f := range kept {
		votes[i] = f.NumVotes
	}
	logVotes := LogTransform(votes)

	films := make([]Film, len(kept))
	for i, f := range kept {
		films[i] = Film{
			Film:         f,
			HighRating:   labels[idx[i]],
			NumVotesLog:  logVotes[i],
			PrimaryGenre: PrimaryGenre(f.Genres),
		}
	}
	return &Table{Films: films, Threshold: threshold}
}

// HighRatingLabels returns 1 for every film rated at or above threshold, else 0.
func HighRatingLabels(raw []data.Film, threshold float64) []int {
	out := make([]int, len(raw))
	for i, f := range raw {
		if f.AverageRating >= threshold {
			out[i] = 1
		}
	}
	return out
}

// PrimaryGenre returns the first comma-separated token of genres.
func PrimaryGenre(genres string) string {
	if i := strings.IndexByte(genres, ','); i >= 0 {
		return genres[:i]
	}
	return genres
}

// LogTransform applies log(x+1) to each value.
func LogTransform(X []float64) []float64 {
	out := make([]float64, len(X))
	for i, v := range X {
		out[i] = math.Log1p(v)
	}
	return out
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Films) }

// Labels returns the high_rating column.
func (t *Table) Labels() []int {
	out := make([]int, len(t.Films))
	for i, f := range t.Films {
		out[i] = f.HighRating
	}
	return out
}

// Column returns a numeric column by name.
func (t *Table) Column(name string) ([]float64, error) {
	var get func(Film) float64
	switch name {
	case ColAverageRating:
		get = func(f Film) float64 { return f.AverageRating }
	case ColRuntimeMinutes:
		get = func(f Film) float64 { return f.RuntimeMinutes }
	case ColNumVotes:
		get = func(f Film) float64 { return f.NumVotes }
	case ColNumVotesLog:
		get = func(f Film) float64 { return f.NumVotesLog }
	case ColStartYear:
		get = func(f Film) float64 { return f.StartYear }
	case ColHighRating:
		get = func(f Film) float64 { return float64(f.HighRating) }
	default:
		return nil, eris.Errorf("dataprep: unknown numeric column %q", name)
	}
	out := make([]float64, len(t.Films))
	for i, f := range t.Films {
		out[i] = get(f)
	}
	return out, nil
}

// Categorical returns a string column by name.
func (t *Table) Categorical(name string) ([]string, error) {
	var get func(Film) string
	switch name {
	case ColGenres:
		get = func(f Film) string { return f.Genres }
	case ColPrimaryGenre:
		get = func(f Film) string { return f.PrimaryGenre }
	default:
		return nil, eris.Errorf("dataprep: unknown categorical column %q", name)
	}
	out := make([]string, len(t.Films))
	for i, f := range t.Films {
		out[i] = get(f)
	}
	return out, nil
}
