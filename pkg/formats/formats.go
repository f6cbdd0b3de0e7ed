// Package formats provides parsers for voxel model file formats.
package formats

// Note: VOX (MagicaVoxel model) decoding is implemented in vox.go
// Note: the binary cursor shared by the decoders lives in reader.go
