package csvfile

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// decode converts raw file bytes to UTF-8, honoring BOMs and falling back to
// Latin-1 when the bytes are not valid UTF-8.
func decode(data []byte) ([]byte, error) {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return data[len(bomUTF8):], nil
	case bytes.HasPrefix(data, bomUTF16LE):
		return transformBytes(data[2:], unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder())
	case bytes.HasPrefix(data, bomUTF16BE):
		return transformBytes(data[2:], unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder())
	case utf8.Valid(data):
		return data, nil
	default:
		return transformBytes(data, charmap.ISO8859_1.NewDecoder())
	}
}

func transformBytes(data []byte, t transform.Transformer) ([]byte, error) {
	decoded, _, err := transform.Bytes(t, data)
	if err != nil {
		return nil, fmt.Errorf("decode csv: %w", err)
	}
	return decoded, nil
}
