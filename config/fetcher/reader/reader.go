// Package reader provides a DataFetcher that reads configuration from an io.Reader,
// such as standard input or an embedded resource.
package reader

import (
	"errors"
	"fmt"
	"io"
)

// ErrNilReader is returned when the constructor is given a nil io.Reader.
var ErrNilReader = errors.New("reader must not be nil")

// Fetcher implements config.DataFetcher over data drained from a stream.
type Fetcher struct {
	data []byte
}

// NewFetcher returns a constructor that reads r to EOF in one blocking call and
// caches the result. The reader is not closed.
func NewFetcher(r io.Reader) func() (*Fetcher, error) {
	return func() (*Fetcher, error) {
		if r == nil {
			return nil, ErrNilReader
		}

		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading stream: %w", err)
		}

		return &Fetcher{data: data}, nil
	}
}

// Fetch returns a copy of the data read at construction time.
func (f *Fetcher) Fetch() ([]byte, error) {
	result := make([]byte, len(f.data))
	copy(result, f.data)

	return result, nil
}
