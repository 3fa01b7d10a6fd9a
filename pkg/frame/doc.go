// Package frame encodes and decodes the bulk transfer of a Record.
package frame

// A frame is the ASCII start marker, N little-endian float32 inputs,
// N little-endian float32 angles and the ASCII end marker.
//
// There is no length field and no checksum: N is a constant agreed
// out-of-band between host and device builds.
