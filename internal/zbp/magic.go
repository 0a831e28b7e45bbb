package zbp

import "bytes"

// The preview section is anchored by this marker somewhere past the
// 200-byte fixed file header.
var magic = []byte{0x00, 0x90, 0x00, 0x00, 0x04, 0x00, 0x80, 0x01}

// headerSkip is the guaranteed header region; bytes before this offset are
// never considered when scanning, even if they happen to contain the
// marker pattern.
const headerSkip = 200

// FindMagic returns the absolute offset of the first occurrence of the
// preview marker at or after offset 200. It returns ErrMagicNotFound when
// the marker is absent or the input is shorter than 208 bytes.
func FindMagic(data []byte) (int, error) {
	if len(data) < headerSkip+len(magic) {
		return 0, ErrMagicNotFound
	}
	i := bytes.Index(data[headerSkip:], magic)
	if i < 0 {
		return 0, ErrMagicNotFound
	}
	return headerSkip + i, nil
}
