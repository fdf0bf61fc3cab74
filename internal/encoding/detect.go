package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	xenc "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Charset names the encoding an input was decoded from.
type Charset string

const (
	UTF8        Charset = "UTF-8"
	UTF16LE     Charset = "UTF-16LE"
	UTF16BE     Charset = "UTF-16BE"
	Windows1252 Charset = "windows-1252"
	ISO8859_15  Charset = "ISO-8859-15"
)

const sniffLen = 4096

var boms = []struct {
	prefix  []byte
	charset Charset
}{
	{[]byte{0xEF, 0xBB, 0xBF}, UTF8},
	{[]byte{0xFF, 0xFE}, UTF16LE},
	{[]byte{0xFE, 0xFF}, UTF16BE},
}

// Detected charset names reported by chardet that we know how to decode.
var decoders = map[string]Charset{
	"UTF-8":        UTF8,
	"ISO-8859-1":   Windows1252,
	"windows-1252": Windows1252,
	"ISO-8859-15":  ISO8859_15,
}

// Decode sniffs the charset of r and returns a reader producing UTF-8.
//
// A BOM decides first; the UTF-8 BOM is dropped. Valid UTF-8 passes through.
// Otherwise chardet guesses, and anything it cannot place is read as
// Windows-1252, which is what spreadsheet exports on Spanish-locale systems use.
func Decode(r io.Reader) (io.Reader, Charset, error) {
	br := bufio.NewReaderSize(r, sniffLen)

	buf, err := br.Peek(sniffLen)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, "", fmt.Errorf("peek: %w", err)
	}

	for _, b := range boms {
		if !bytes.HasPrefix(buf, b.prefix) {
			continue
		}

		if b.charset == UTF8 {
			_, _ = br.Discard(len(b.prefix))
			return br, UTF8, nil
		}

		return transform.NewReader(br, decoderFor(b.charset)), b.charset, nil
	}

	if validUTF8(buf, len(buf) == sniffLen) {
		return br, UTF8, nil
	}

	charset := Windows1252

	if res, err := chardet.NewTextDetector().DetectBest(buf); err == nil {
		if cs, ok := decoders[res.Charset]; ok {
			charset = cs
		}
	}

	if charset == UTF8 {
		return br, UTF8, nil
	}

	return transform.NewReader(br, decoderFor(charset)), charset, nil
}

// NewUTF8Reader is Decode without the charset.
func NewUTF8Reader(r io.Reader) (io.Reader, error) {
	out, _, err := Decode(r)
	return out, err
}

// validUTF8 tolerates a rune cut in half at the end of a truncated sniff buffer.
func validUTF8(buf []byte, truncated bool) bool {
	if !truncated {
		return utf8.Valid(buf)
	}

	for i := 0; i < utf8.UTFMax && len(buf) > 0; i++ {
		if utf8.Valid(buf) {
			return true
		}

		buf = buf[:len(buf)-1]
	}

	return false
}

func decoderFor(cs Charset) *xenc.Decoder {
	switch cs {
	case UTF16LE:
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
	case UTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()
	case ISO8859_15:
		return charmap.ISO8859_15.NewDecoder()
	}

	return charmap.Windows1252.NewDecoder()
}
