package parser

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// Charset identifies the character encoding of a SOSI file.
//
// SOSI declares its encoding in the header with ..TEGNSETT. Files produced
// before UTF-8 became common use one of several 8-bit or 7-bit Norwegian
// encodings, so decoding is selected per file.
type Charset int

const (
	// CharsetISO8859_10 is Latin-6 (Nordic), the default when nothing is declared
	CharsetISO8859_10 Charset = iota
	CharsetISO8859_1
	CharsetUTF8
	CharsetWindows1252
	// CharsetDOSN8 is the Norwegian DOS code page 865
	CharsetDOSN8
	// CharsetND7 is 7-bit Norwegian where [\]{|} stand for ÆØÅæøå
	CharsetND7
)

// String returns the name used for the charset in ..TEGNSETT.
func (c Charset) String() string {
	switch c {
	case CharsetISO8859_10:
		return "ISO8859-10"
	case CharsetISO8859_1:
		return "ISO8859-1"
	case CharsetUTF8:
		return "UTF-8"
	case CharsetWindows1252:
		return "ANSI"
	case CharsetDOSN8:
		return "DOSN8"
	case CharsetND7:
		return "ND7"
	default:
		return "Unknown"
	}
}

// headerScanSize bounds how much of the source is inspected for a BOM or a
// ..TEGNSETT declaration. It is also the size of the read buffer.
const headerScanSize = 64 * 1024

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// charsetFromName maps a ..TEGNSETT value to a Charset
func charsetFromName(name string) (Charset, bool) {
	switch strings.ToUpper(strings.Trim(name, `"' `)) {
	case "UTF-8", "UTF8":
		return CharsetUTF8, true
	case "ISO8859-10", "ISO-8859-10", "ISO8859_10":
		return CharsetISO8859_10, true
	case "ISO8859-1", "ISO-8859-1", "ISO8859_1":
		return CharsetISO8859_1, true
	case "ANSI", "WINDOWS-1252", "CP1252":
		return CharsetWindows1252, true
	case "DOSN8":
		return CharsetDOSN8, true
	case "ND7", "DECN7":
		return CharsetND7, true
	}
	return CharsetISO8859_10, false
}

// detectCharset inspects the start of br without consuming it, except for a
// UTF-8 byte-order mark which is discarded. It returns the charset, whether a
// BOM was stripped, and any read error other than a short source.
func detectCharset(br *bufio.Reader) (Charset, bool, error) {
	head, err := br.Peek(headerScanSize)
	if err != nil && err != io.EOF && !errors.Is(err, bufio.ErrBufferFull) {
		return CharsetISO8859_10, false, fmt.Errorf("failed to read header: %w", err)
	}

	if bytes.HasPrefix(head, utf8BOM) {
		if _, err := br.Discard(len(utf8BOM)); err != nil {
			return CharsetUTF8, false, fmt.Errorf("failed to read header: %w", err)
		}
		return CharsetUTF8, true, nil
	}

	if name, ok := scanCharsetDeclaration(head); ok {
		cs, _ := charsetFromName(name)
		return cs, false, nil
	}
	return CharsetISO8859_10, false, nil
}

// scanCharsetDeclaration looks for ..TEGNSETT inside the leading .HODE group.
// Scanning stops at the first level-1 statement that is not .HODE.
func scanCharsetDeclaration(head []byte) (string, bool) {
	for len(head) > 0 {
		var line []byte
		if i := bytes.IndexByte(head, '\n'); i >= 0 {
			line, head = head[:i], head[i+1:]
		} else {
			line, head = head, nil
		}
		line = bytes.TrimSpace(line)
		if len(line) < 2 || line[0] != '.' {
			continue
		}
		if line[1] != '.' {
			if !bytes.HasPrefix(line, []byte(".HODE")) {
				return "", false
			}
			continue
		}
		fields := bytes.Fields(bytes.TrimLeft(line, "."))
		if len(fields) >= 2 && string(fields[0]) == "TEGNSETT" {
			return string(fields[1]), true
		}
	}
	return "", false
}

// nd7Replacer maps the 7-bit Norwegian code points to their letters.
var nd7Replacer = strings.NewReplacer(
	"[", "Æ", `\`, "Ø", "]", "Å",
	"{", "æ", "|", "ø", "}", "å",
)

// lineDecoder turns raw line bytes into text for a fixed charset. Under UTF-8,
// lines that are not valid UTF-8 are decoded as ISO8859-10 instead. Under the
// 8-bit charsets a non-ASCII line that is valid UTF-8 is kept as UTF-8, since
// files are often re-encoded without updating ..TEGNSETT.
type lineDecoder struct {
	charset  Charset
	decoder  *encoding.Decoder
	fallback *encoding.Decoder
}

func newLineDecoder(cs Charset) *lineDecoder {
	d := &lineDecoder{
		charset:  cs,
		fallback: charmap.ISO8859_10.NewDecoder(),
	}
	switch cs {
	case CharsetISO8859_10:
		d.decoder = charmap.ISO8859_10.NewDecoder()
	case CharsetISO8859_1:
		d.decoder = charmap.ISO8859_1.NewDecoder()
	case CharsetWindows1252:
		d.decoder = charmap.Windows1252.NewDecoder()
	case CharsetDOSN8:
		d.decoder = charmap.CodePage865.NewDecoder()
	}
	return d
}

func (d *lineDecoder) decode(line []byte) string {
	if isASCII(line) {
		if d.charset == CharsetND7 {
			return nd7Replacer.Replace(string(line))
		}
		return string(line)
	}

	if utf8.Valid(line) {
		return string(line)
	}

	switch d.charset {
	case CharsetUTF8, CharsetND7:
		// Bytes above 0x7F are not ND7 either; treat the line as Latin-6.
		return d.decodeWith(d.fallback, line)
	default:
		return d.decodeWith(d.decoder, line)
	}
}

func (d *lineDecoder) decodeWith(dec *encoding.Decoder, line []byte) string {
	out, err := dec.Bytes(line)
	if err != nil {
		return strings.ToValidUTF8(string(line), string(utf8.RuneError))
	}
	return string(out)
}

// misdecodedKey reports whether a keyword carries the marks of text decoded
// with the wrong charset: replacement runes, control characters, or the
// "Ã"/"Â" lead-ins that UTF-8 Nordic letters turn into under Latin decoding.
func misdecodedKey(key string) bool {
	for _, r := range key {
		if r == utf8.RuneError || r == 'Ã' || r == 'Â' || unicode.IsControl(r) {
			return true
		}
	}
	return false
}

func isASCII(b []byte) bool {
	for _, c := range b {
		if c >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
