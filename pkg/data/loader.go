package data

import (
	"bufio"
	"encoding/csv"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/maliblgn/imdb-movie-classifier/pkg/config"
)

// Film is one raw row of the ratings CSV.
// Numeric columns are decoded as float64 so both "90" and "90.0" load.
type Film struct {
	AverageRating  float64 `csv:"averageRating"`
	RuntimeMinutes float64 `csv:"runtimeMinutes"`
	NumVotes       float64 `csv:"numVotes"`
	StartYear      float64 `csv:"startYear"`
	Genres         string  `csv:"genres"`
}

// ResolvePath returns the CSV location. An explicit data.path wins; otherwise
// data.file_name is searched next to the running executable, then in the
// working directory.
func ResolvePath(cfg config.DataConfig) (string, error) {
	if cfg.Path != "" {
		if _, err := os.Stat(cfg.Path); err != nil {
			return "", eris.Wrapf(err, "data: stat %s", cfg.Path)
		}
		return cfg.Path, nil
	}

	name := cfg.FileName
	if name == "" {
		name = config.DefaultDataFile
	}

	var candidates []string
	if exe, err := os.Executable(); err == nil {
		candidates = append(candidates, filepath.Join(filepath.Dir(exe), name))
	}
	if wd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(wd, name))
	}

	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c, nil
		}
	}
	return "", eris.Wrapf(fs.ErrNotExist, "data: %s not found in %v", name, candidates)
}

// Load reads every film from the CSV at path, preserving row order.
func Load(path string) ([]Film, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "data: open csv")
	}
	defer file.Close()

	films, err := Decode(bufio.NewReader(file))
	if err != nil {
		return nil, eris.Wrapf(err, "data: decode %s", path)
	}
	zap.L().Debug("data: loaded films", zap.String("path", path), zap.Int("rows", len(films)))
	return films, nil
}

// Decode parses a header-led CSV stream into films. Unknown columns are
// ignored; a missing required column or an unparsable value is an error.
func Decode(r io.Reader) ([]Film, error) {
	dec, err := csvutil.NewDecoder(csv.NewReader(r))
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, eris.New("data: empty csv")
		}
		return nil, eris.Wrap(err, "data: read header")
	}
	dec.DisallowMissingColumns = true

	var films []Film
	for {
		var f Film
		err := dec.Decode(&f)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrapf(err, "data: row %d", len(films)+1)
		}
		films = append(films, f)
	}
	return films, nil
}

// Sample represents a single data point.
type Sample struct {
	X []float64
	Y float64
}

// Batch represents a collection of data points.
type Batch struct {
	X [][]float64
	Y []float64
}

// Batcher reads from a Sample channel and emits mini-batches of batchSize.
// The final batch may be smaller. Close the returned done chan to stop early.
func Batcher(in <-chan Sample, batchSize int, out chan<- Batch) (done chan struct{}) {
	done = make(chan struct{})

	go func() {
		defer close(out)

		var X [][]float64
		var Y []float64

		for {
			select {
			case <-done:
				return

			case s, ok := <-in:
				if !ok {
					if len(Y) > 0 {
						select {
						case out <- Batch{X: X, Y: Y}:
						case <-done:
						}
					}
					return
				}

				X = append(X, s.X)
				Y = append(Y, s.Y)

				if len(Y) == batchSize {
					select {
					case out <- Batch{X: X, Y: Y}:
					case <-done:
						return
					}
					X = nil
					Y = nil
				}
			}
		}
	}()

	return done
}
