// Package formats provides parsers for voxel model file formats.
// VOX (MagicaVoxel model) format decoder.
package formats

import (
	"fmt"
)

const (
	voxMagic = "VOX "

	// VOXVersion is the only file version the decoder accepts.
	VOXVersion = 200

	// MaxModelDimension bounds each SIZE axis so a corrupt header
	// cannot request an arbitrarily large grid.
	MaxModelDimension = 1024

	rgbaChunkSize   = PaletteSize * 4
	chunkHeaderSize = 12
)

// Chunk tags understood by the decoder.
const (
	ChunkMain = "MAIN"
	ChunkSize = "SIZE"
	ChunkPack = "PACK"
	ChunkRGBA = "RGBA"
	ChunkXYZI = "XYZI"
)

// Voxel is a single XYZI record. Coordinates are 0-based.
type Voxel struct {
	X, Y, Z    uint8
	ColorIndex uint8
}

// ChunkHeader describes one sub-chunk of MAIN as it appeared in the file.
type ChunkHeader struct {
	Tag          string
	ContentSize  int32
	ChildrenSize int32
	Offset       int // Offset of the tag within the file
}

// VOX represents a decoded VOX file.
type VOX struct {
	Version    int32
	Size       [3]int32 // X, Y, Z from the last SIZE chunk
	PackCount  int32    // Declared model count (1 when no PACK chunk is present)
	Palette    Palette
	HasPalette bool
	Voxels     []Voxel
	Chunks     []ChunkHeader
	Warnings   []Warning
}

// ParseVOX decodes a VOX file from raw bytes.
func ParseVOX(data []byte) (*VOX, error) {
	return DecodeVOX(NewByteCursor(data))
}

// ParseVOXFile decodes a VOX file from disk.
func ParseVOXFile(path string) (*VOX, error) {
	c, err := OpenByteCursor(path)
	if err != nil {
		return nil, err
	}
	return DecodeVOX(c)
}

// DecodeVOX walks the header, the MAIN envelope and every sub-chunk.
// Structural problems abort with a *StructuralError; content oddities
// are collected in VOX.Warnings.
func DecodeVOX(c *ByteCursor) (*VOX, error) {
	magic, err := c.ReadString(4)
	if err != nil {
		return nil, structural(c.Offset(), "reading magic", err)
	}
	if magic != voxMagic {
		return nil, structural(0, "checking magic", fmt.Errorf("%w: got %q", ErrInvalidVOXMagic, magic))
	}

	version, err := c.ReadInt32()
	if err != nil {
		return nil, structural(c.Offset(), "reading version", err)
	}
	if version != VOXVersion {
		return nil, structural(4, "checking version", fmt.Errorf("%w: %d", ErrUnsupportedVOXVersion, version))
	}

	mainTag, err := c.ReadString(4)
	if err != nil {
		return nil, structural(c.Offset(), "reading MAIN tag", err)
	}
	if mainTag != ChunkMain {
		return nil, structural(8, "checking MAIN tag", fmt.Errorf("%w: tag %q", ErrInvalidMainChunk, mainTag))
	}
	mainContent, err := c.ReadInt32()
	if err != nil {
		return nil, structural(c.Offset(), "reading MAIN content size", err)
	}
	mainChildren, err := c.ReadInt32()
	if err != nil {
		return nil, structural(c.Offset(), "reading MAIN children size", err)
	}
	if mainContent != 0 {
		return nil, structural(12, "checking MAIN content size", fmt.Errorf("%w: content size %d", ErrInvalidMainChunk, mainContent))
	}
	if mainChildren < 0 {
		return nil, structural(16, "checking MAIN children size", fmt.Errorf("%w: %d", ErrInvalidChunkSize, mainChildren))
	}

	vox := &VOX{Version: version, PackCount: 1}

	start := c.Offset()
	for c.Offset()-start < int(mainChildren) {
		if err := vox.readChunk(c); err != nil {
			return nil, err
		}
	}

	return vox, nil
}

// readChunk reads one sub-chunk header and its content.
// Known tags are decoded from their declared content bytes only,
// so trailing content never desynchronises the walk.
func (v *VOX) readChunk(c *ByteCursor) error {
	at := c.Offset()

	tag, err := c.ReadString(4)
	if err != nil {
		return structural(c.Offset(), "reading chunk tag", err)
	}
	contentSize, err := c.ReadInt32()
	if err != nil {
		return structural(c.Offset(), "reading chunk content size", err)
	}
	childrenSize, err := c.ReadInt32()
	if err != nil {
		return structural(c.Offset(), "reading chunk children size", err)
	}
	if contentSize < 0 || childrenSize < 0 {
		return structural(at, "checking "+tag+" chunk", fmt.Errorf("%w: content %d, children %d", ErrInvalidChunkSize, contentSize, childrenSize))
	}

	v.Chunks = append(v.Chunks, ChunkHeader{
		Tag:          tag,
		ContentSize:  contentSize,
		ChildrenSize: childrenSize,
		Offset:       at,
	})

	// RGBA is validated before its bytes are consumed so the palette is never touched.
	if tag == ChunkRGBA && contentSize != rgbaChunkSize {
		return structural(at, "checking RGBA chunk", fmt.Errorf("%w: %d bytes, expected %d", ErrInvalidRGBASize, contentSize, rgbaChunkSize))
	}

	contentAt := c.Offset()
	content, err := c.ReadBytes(int(contentSize))
	if err != nil {
		return structural(contentAt, "reading "+tag+" content", err)
	}
	cc := NewByteCursor(content)

	switch tag {
	case ChunkSize:
		err = v.parseSize(cc)
	case ChunkPack:
		err = v.parsePack(cc, at)
	case ChunkRGBA:
		err = v.parseRGBA(cc)
	case ChunkXYZI:
		err = v.parseXYZI(cc)
	default:
		v.warn(WarnUnknownChunk, at, fmt.Sprintf("skipping unknown chunk %q (%d + %d bytes)", tag, contentSize, childrenSize))
	}
	if err != nil {
		return structural(contentAt+cc.Offset(), "parsing "+tag+" chunk", err)
	}
	return nil
}

// parseSize reads three int32 model dimensions.
func (v *VOX) parseSize(c *ByteCursor) error {
	var size [3]int32
	for i := range size {
		n, err := c.ReadInt32()
		if err != nil {
			return err
		}
		if n < 0 || n > MaxModelDimension {
			return fmt.Errorf("%w: axis %d = %d", ErrInvalidModelSize, i, n)
		}
		size[i] = n
	}
	v.Size = size
	return nil
}

// parsePack reads the declared model count. Only single-model files are supported.
func (v *VOX) parsePack(c *ByteCursor, at int) error {
	n, err := c.ReadInt32()
	if err != nil {
		return err
	}
	v.PackCount = n
	if n != 1 {
		v.warn(WarnPackCount, at, fmt.Sprintf("model count is %d, not 1; only the last model's size is used", n))
	}
	return nil
}

// parseRGBA reads 256 RGBA quadruples into palette indices 0..255.
func (v *VOX) parseRGBA(c *ByteCursor) error {
	raw, err := c.ReadBytes(rgbaChunkSize)
	if err != nil {
		return err
	}
	var p Palette
	for i := range p {
		p[i].R = raw[i*4]
		p[i].G = raw[i*4+1]
		p[i].B = raw[i*4+2]
		p[i].A = raw[i*4+3]
	}
	v.Palette = p
	v.HasPalette = true
	return nil
}

// parseXYZI reads a voxel count followed by that many (x, y, z, index) records.
func (v *VOX) parseXYZI(c *ByteCursor) error {
	n, err := c.ReadInt32()
	if err != nil {
		return err
	}
	if n < 0 {
		return fmt.Errorf("%w: voxel count %d", ErrInvalidChunkSize, n)
	}
	raw, err := c.ReadBytes(int(n) * 4)
	if err != nil {
		return err
	}
	for i := 0; i < int(n); i++ {
		v.Voxels = append(v.Voxels, Voxel{
			X:          raw[i*4],
			Y:          raw[i*4+1],
			Z:          raw[i*4+2],
			ColorIndex: raw[i*4+3],
		})
	}
	return nil
}

func (v *VOX) warn(kind WarningKind, offset int, msg string) {
	v.Warnings = append(v.Warnings, Warning{Kind: kind, Offset: offset, Message: msg})
}

func structural(offset int, op string, err error) error {
	return &StructuralError{Op: op, Offset: offset, Err: err}
}

// CountChunks returns how many sub-chunks of each tag the file contained.
func (v *VOX) CountChunks() map[string]int {
	counts := make(map[string]int)
	for _, ch := range v.Chunks {
		counts[ch.Tag]++
	}
	return counts
}
