// Package chunkstore holds the ordered sequence of labelled output chunks
// that the stream readers produce and the renderer consumes.
//
// The store's mutex is the only synchronization point between the two
// readers. ReadFrom performs the whole read-then-append step while holding
// it, so the order in which the lock is granted to successful reads is the
// order of the sequence. When both streams have data at the same time that
// order is decided by the scheduler, so it approximates, but does not
// guarantee, the order in which the child wrote. Chunks from the same source
// are always kept in FIFO order.
package chunkstore

import (
	"fmt"
	"sync"
)

// DefaultCapacity is the default number of bytes attempted per read.
// It is deliberately small so that output from the two streams interleaves
// at a fine grain.
const DefaultCapacity = 8

// Store is the ordered, append-only chunk sequence shared by the readers.
type Store struct {
	mu       sync.Mutex
	capacity int
	chunks   []Chunk

	// scratch receives every read attempt. It is only touched under mu,
	// so a chunk is allocated only when a read returned data.
	scratch []byte
}

// New creates an empty store whose reads are bounded by capacity bytes.
func New(capacity int) (*Store, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("invalid chunk capacity: %d", capacity)
	}
	return &Store{capacity: capacity, scratch: make([]byte, capacity)}, nil
}

// Append copies data into a new chunk at the tail of the sequence.
// Data longer than the store capacity is rejected.
func (s *Store) Append(data []byte, source Source) error {
	if len(data) > s.capacity {
		return fmt.Errorf("chunk of %d bytes exceeds capacity %d", len(data), s.capacity)
	}
	buf := make([]byte, len(data), s.capacity)
	copy(buf, data)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = append(s.chunks, Chunk{Source: source, Data: buf})
	return nil
}

// ReadFrom runs one read attempt under the store lock. read is handed a
// buffer of the store's capacity that it must not retain; if it reports
// n > 0 the first n bytes are copied into a chunk tagged with source before
// the lock is released. The values returned by read are passed through
// unchanged.
func (s *Store) ReadFrom(source Source, read func(p []byte) (int, error)) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := read(s.scratch)
	if n > 0 {
		buf := make([]byte, n, s.capacity)
		copy(buf, s.scratch[:n])
		s.chunks = append(s.chunks, Chunk{Source: source, Data: buf})
	}
	return n, err
}

// Len returns the number of chunks currently held.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.chunks)
}

// Drain returns every chunk in append order and leaves the store empty.
//
// Drain must only be called once no reader can append any more, i.e. after
// all readers have been joined. It takes the lock, but that only protects
// the slice header: a reader still running would append to the fresh,
// empty store and its output would never be rendered.
func (s *Store) Drain() []Chunk {
	s.mu.Lock()
	defer s.mu.Unlock()
	chunks := s.chunks
	s.chunks = nil
	return chunks
}
