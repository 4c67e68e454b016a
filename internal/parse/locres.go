package parse

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf16"
)

// FormatUnrealLocres identifies the Unreal-style binary localization
// resource: a magic/version header, an offset to a shared string array, and a
// namespace→key→string-index table.
const FormatUnrealLocres = "unreal-locres"

// locresMagic is the 16-byte table signature. Content with any other prefix
// is rejected before any offset is trusted.
var locresMagic = []byte{
	0x0E, 0x14, 0x74, 0x75, 0x67, 0x4A, 0x03, 0xFC,
	0x4A, 0x15, 0x90, 0x9D, 0xC3, 0x37, 0x7F, 0x1B,
}

const (
	locresVersionCompact   = 1
	locresVersionOptimized = 2

	locresHeaderSize = 16 + 1 + 8
)

func init() {
	Register(locresAdapter{})
}

type locresAdapter struct{}

func (locresAdapter) FormatID() string { return FormatUnrealLocres }

func (locresAdapter) Parse(data []byte) ([]Line, error) {
	if len(data) < locresHeaderSize {
		return nil, malformed("unreal-locres", "header", fmt.Errorf("content too short: %d bytes", len(data)))
	}
	if !bytes.Equal(data[:16], locresMagic) {
		return nil, malformed("unreal-locres", "header", fmt.Errorf("unrecognized magic bytes"))
	}
	version := data[16]
	if version != locresVersionCompact && version != locresVersionOptimized {
		return nil, malformed("unreal-locres", "header", fmt.Errorf("unsupported version %d", version))
	}

	stringsOffset := binary.LittleEndian.Uint64(data[17:25])
	if stringsOffset < locresHeaderSize || stringsOffset > uint64(len(data)) {
		return nil, malformed("unreal-locres", "header", fmt.Errorf("string array offset %d outside content of %d bytes", stringsOffset, len(data)))
	}

	strs, err := readLocresStringArray(data, int(stringsOffset))
	if err != nil {
		return nil, err
	}

	r := &locresReader{data: data[:stringsOffset], pos: locresHeaderSize}
	return readLocresTable(r, version, strs)
}

func readLocresStringArray(data []byte, offset int) ([]string, error) {
	r := &locresReader{data: data, pos: offset}
	count, err := r.int32("string count")
	if err != nil {
		return nil, err
	}
	if count < 0 {
		return nil, malformed("unreal-locres", "string array", fmt.Errorf("negative string count %d", count))
	}
	strs := make([]string, 0, count)
	for i := int32(0); i < count; i++ {
		s, err := r.string(fmt.Sprintf("string %d", i))
		if err != nil {
			return nil, err
		}
		strs = append(strs, s)
	}
	return strs, nil
}

func readLocresTable(r *locresReader, version byte, strs []string) ([]Line, error) {
	var declaredEntries int64 = -1
	if version >= locresVersionOptimized {
		v, err := r.uint32("entry count")
		if err != nil {
			return nil, err
		}
		declaredEntries = int64(v)
	}

	namespaceCount, err := r.int32("namespace count")
	if err != nil {
		return nil, err
	}
	if namespaceCount < 0 {
		return nil, malformed("unreal-locres", "table", fmt.Errorf("negative namespace count %d", namespaceCount))
	}

	var lines []Line
	for ns := int32(0); ns < namespaceCount; ns++ {
		namespace, err := r.string("namespace name")
		if err != nil {
			return nil, err
		}
		keyCount, err := r.int32("key count")
		if err != nil {
			return nil, err
		}
		if keyCount < 0 {
			return nil, malformed("unreal-locres", namespace, fmt.Errorf("negative key count %d", keyCount))
		}
		for k := int32(0); k < keyCount; k++ {
			key, err := r.string("key name")
			if err != nil {
				return nil, err
			}
			// Source string hash: carried for change detection by the
			// exporting engine, unused here.
			if _, err := r.uint32("source hash"); err != nil {
				return nil, err
			}
			index, err := r.int32("string index")
			if err != nil {
				return nil, err
			}
			if index < 0 || int(index) >= len(strs) {
				return nil, malformed("unreal-locres", namespace+"/"+key,
					fmt.Errorf("string index %d outside array of %d", index, len(strs)))
			}

			flat := key
			if namespace != "" {
				flat = namespace + "/" + key
			}
			lines = append(lines, Line{Key: flat, Text: strs[index]})
		}
	}

	if declaredEntries >= 0 && declaredEntries != int64(len(lines)) {
		return nil, malformed("unreal-locres", "table",
			fmt.Errorf("header declares %d entries, table holds %d", declaredEntries, len(lines)))
	}
	return lines, nil
}

// locresReader walks a byte slice with bounds checking on every read so a
// corrupt offset can never index out of range.
type locresReader struct {
	data []byte
	pos  int
}

func (r *locresReader) take(n int, what string) ([]byte, error) {
	if n < 0 || r.pos+n > len(r.data) {
		return nil, malformed("unreal-locres", what,
			fmt.Errorf("need %d bytes at offset %d, only %d available", n, r.pos, len(r.data)-r.pos))
	}
	out := r.data[r.pos : r.pos+n]
	r.pos += n
	return out, nil
}

func (r *locresReader) int32(what string) (int32, error) {
	raw, err := r.take(4, what)
	if err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(raw)), nil
}

func (r *locresReader) uint32(what string) (uint32, error) {
	raw, err := r.take(4, what)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(raw), nil
}

// string reads a length-prefixed string. A non-negative length counts UTF-8
// bytes; a negative length counts UTF-16LE code units, mirroring how Unreal
// exports wide text.
func (r *locresReader) string(what string) (string, error) {
	length, err := r.int32(what)
	if err != nil {
		return "", err
	}
	if length >= 0 {
		raw, err := r.take(int(length), what)
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}
	if length == math.MinInt32 {
		return "", malformed("unreal-locres", what, fmt.Errorf("invalid string length"))
	}
	units := int(-length)
	raw, err := r.take(units*2, what)
	if err != nil {
		return "", err
	}
	wide := make([]uint16, units)
	for i := range wide {
		wide[i] = binary.LittleEndian.Uint16(raw[i*2 : i*2+2])
	}
	return string(utf16.Decode(wide)), nil
}
