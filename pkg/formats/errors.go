package formats

import (
	"errors"
	"fmt"
)

// VOX format errors.
var (
	ErrUnreadableFile        = errors.New("unreadable VOX file")
	ErrInvalidVOXMagic       = errors.New("invalid VOX magic: expected 'VOX '")
	ErrUnsupportedVOXVersion = errors.New("unsupported VOX version")
	ErrInvalidMainChunk      = errors.New("invalid VOX MAIN chunk")
	ErrInvalidRGBASize       = errors.New("invalid VOX RGBA chunk size")
	ErrInvalidChunkSize      = errors.New("invalid VOX chunk size")
	ErrInvalidModelSize      = errors.New("invalid VOX model size")
	ErrTruncatedVOXData      = errors.New("truncated VOX data")
	ErrPaletteIndex          = errors.New("palette index out of range")
)

// StructuralError reports a VOX stream that cannot be trusted at all.
// It unwraps to one of the Err* sentinels above.
type StructuralError struct {
	Op     string // What the decoder was doing
	Offset int    // Byte offset where decoding stopped
	Err    error
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("vox: %s at offset %d: %v", e.Op, e.Offset, e.Err)
}

func (e *StructuralError) Unwrap() error {
	return e.Err
}

// IsStructural reports whether err is (or wraps) a *StructuralError.
func IsStructural(err error) bool {
	var se *StructuralError
	return errors.As(err, &se)
}

// WarningKind classifies a recoverable decoding issue.
type WarningKind int

const (
	WarnUnknownChunk     WarningKind = iota + 1 // Chunk tag the decoder does not interpret
	WarnPackCount                               // PACK declares more than one model
	WarnVoxelOutOfBounds                        // Voxel record outside the SIZE box
)

// String returns a short name for the warning kind.
func (k WarningKind) String() string {
	switch k {
	case WarnUnknownChunk:
		return "unknown_chunk"
	case WarnPackCount:
		return "pack_count"
	case WarnVoxelOutOfBounds:
		return "voxel_out_of_bounds"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// Warning is a content-level oddity. The load continues past it.
type Warning struct {
	Kind    WarningKind
	Offset  int // Byte offset of the offending chunk, -1 when not tied to the stream
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Kind, w.Message)
}
