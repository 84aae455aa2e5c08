// Package encoding normalizes text input to UTF-8 before parsing. Model
// output files arrive from a mix of Windows and export tooling, so the
// reader strips BOMs and transcodes legacy single-byte encodings.
package encoding

import (
	"bytes"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// NewUTF8Reader wraps r so downstream readers always see UTF-8: a UTF-8
// BOM is stripped, valid UTF-8 passes through untouched, and anything else
// is transcoded using charset detection with a Windows-1252 fallback.
func NewUTF8Reader(r io.Reader) (io.Reader, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return bytes.NewReader(data), nil
	}
	enc := detect(data)
	if enc == nil {
		enc = charmap.Windows1252
	}
	return transform.NewReader(bytes.NewReader(data), enc.NewDecoder()), nil
}

func detect(data []byte) encoding.Encoding {
	result, err := chardet.NewTextDetector().DetectBest(data)
	if err != nil {
		return nil
	}
	switch result.Charset {
	case "windows-1252", "ISO-8859-1":
		return charmap.Windows1252
	case "ISO-8859-15":
		return charmap.ISO8859_15
	case "UTF-16LE":
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)
	case "UTF-16BE":
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM)
	default:
		return nil
	}
}
