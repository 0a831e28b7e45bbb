// Package zbp decodes the 96×96 RGBA preview image embedded in ZBrush
// .ZBP preset files.
//
// The preview lives in a block-compressed section located by an 8-byte
// magic marker past the fixed file header. Decoding runs in four stages:
//   - Locate the magic marker (FindMagic)
//   - Parse the version-dependent compression header (ParseHeader)
//   - Expand each block's run-length stream into a planar buffer (DecodeRLE)
//   - Interleave the planes into packed RGBA pixels (Assemble)
//
// Extract ties the stages together into one pure function over the raw
// file bytes. Compression versions 4, 5 and 6+ are supported; the layouts
// differ in block count, size-field width, and reserved padding.
package zbp
