package zbp

// DecodeRLE expands one block's run-length stream into a freshly allocated
// buffer of at most maxLen bytes.
//
// The stream is a sequence of runs, each introduced by a control byte c:
//
//	c == 0      end of block; any remaining input is ignored
//	1 ≤ c ≤ 127 repeat run: the next byte is appended c times
//	c ≥ 128     literal run: the next 256-c bytes are copied verbatim
//
// Input exhausted mid-run, or output growing past maxLen, fails with
// ErrCorruptBlock.
func DecodeRLE(in []byte, maxLen int) ([]byte, error) {
	out := make([]byte, 0, maxLen)
	pos := 0

	for pos < len(in) {
		c := in[pos]
		pos++

		if c == 0 {
			return out, nil
		}

		if c <= 127 {
			n := int(c)
			if pos >= len(in) || len(out)+n > maxLen {
				return nil, ErrCorruptBlock
			}
			v := in[pos]
			pos++
			for i := 0; i < n; i++ {
				out = append(out, v)
			}
			continue
		}

		n := 256 - int(c)
		if pos+n > len(in) || len(out)+n > maxLen {
			return nil, ErrCorruptBlock
		}
		out = append(out, in[pos:pos+n]...)
		pos += n
	}

	return out, nil
}
