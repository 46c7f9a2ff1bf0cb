// Package reader implements the loop that moves bytes from one captured
// stream into the shared chunk store.
package reader

import (
	"errors"
	"log/slog"

	"vexec/internal/chunkstore"
	"vexec/internal/stream"
)

// Reader drains a single stream. It has no state shared with other readers
// except the store.
type Reader struct {
	stream stream.Stream
	source chunkstore.Source
	store  *chunkstore.Store
	log    *slog.Logger

	err   error
	reads int
}

// New creates a Reader that tags every chunk it produces with source.
// A nil logger means slog.Default().
func New(s stream.Stream, source chunkstore.Source, store *chunkstore.Store, log *slog.Logger) *Reader {
	if log == nil {
		log = slog.Default()
	}
	return &Reader{
		stream: s,
		source: source,
		store:  store,
		log:    log.With("stream", source.String()),
	}
}

// Run reads until end of stream or an unrecoverable error. Errors are
// logged and kept in Err; they never stop the other reader.
func (r *Reader) Run() {
	for {
		n, err := r.store.ReadFrom(r.source, r.stream.Read)
		switch {
		case n > 0:
			r.reads++
			continue
		case errors.Is(err, stream.ErrWouldBlock):
			if err := r.stream.Wait(); err != nil {
				r.fail(err)
				return
			}
			continue
		case err != nil:
			r.fail(err)
			return
		default:
			r.log.Debug("Stream reached EOF", "chunks", r.reads)
			return
		}
	}
}

func (r *Reader) fail(err error) {
	r.err = err
	r.log.Error("Failed to read stream", "error", err, "chunks", r.reads)
}

// Source returns the tag this reader applies to its chunks.
func (r *Reader) Source() chunkstore.Source {
	return r.source
}

// Err returns the error that terminated the reader, or nil on EOF.
// Only meaningful after the reader has been joined.
func (r *Reader) Err() error {
	return r.err
}

// Chunks returns the number of chunks this reader appended.
// Only meaningful after the reader has been joined.
func (r *Reader) Chunks() int {
	return r.reads
}
