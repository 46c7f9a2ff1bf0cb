package chunkstore

// Source identifies which captured stream a Chunk was read from.
type Source uint8

const (
	// SourceNone is the zero value. No stored chunk carries it.
	SourceNone Source = iota
	Stdout
	Stderr
)

func (s Source) String() string {
	switch s {
	case Stdout:
		return "stdout"
	case Stderr:
		return "stderr"
	default:
		return "none"
	}
}

// Chunk is the unit of output produced by one successful read of a stream.
// It is never modified after it has been appended to a Store.
type Chunk struct {
	Source Source
	// Data holds exactly the bytes returned by the read. cap(Data) is the
	// capacity the read was attempted with.
	Data []byte
}

// Len returns the number of valid bytes in the chunk.
func (c Chunk) Len() int {
	return len(c.Data)
}
