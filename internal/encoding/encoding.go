// Package encoding implements spec.md §4.1's deterministic encoding and
// line-ending detection from a byte prefix, plus lossy re-encoding for
// the replace/read/write paths (spec.md §6: "re-encoding errors are
// replaced (lossy), never raised").
package encoding

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Kind identifies a detected or requested text encoding.
type Kind string

const (
	UTF8       Kind = "utf-8"
	UTF16LE    Kind = "utf-16le"
	UTF16BE    Kind = "utf-16be"
	Latin1     Kind = "latin-1"
	detectSize      = 1024
)

// LineEnding identifies the dominant line terminator of a file.
type LineEnding string

const (
	LF   LineEnding = "\n"
	CRLF LineEnding = "\r\n"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// DetectEncoding inspects up to the first 1 KiB of a file and
// deterministically returns the encoding it infers: a BOM wins outright;
// absent a BOM, valid UTF-8 wins; absent that, a check for UTF-16
// byte-parity patterns; otherwise Latin-1 as the universal fallback.
func DetectEncoding(prefix []byte) Kind {
	if len(prefix) > detectSize {
		prefix = prefix[:detectSize]
	}

	switch {
	case bytes.HasPrefix(prefix, bomUTF8):
		return UTF8
	case bytes.HasPrefix(prefix, bomUTF16LE):
		return UTF16LE
	case bytes.HasPrefix(prefix, bomUTF16BE):
		return UTF16BE
	}

	if utf8.Valid(prefix) {
		return UTF8
	}

	if looksUTF16(prefix, false) {
		return UTF16LE
	}
	if looksUTF16(prefix, true) {
		return UTF16BE
	}

	return Latin1
}

// looksUTF16 heuristically detects UTF-16 without a BOM by checking that
// a majority of bytes at the "high" position of each code unit are zero
// (true for ASCII-heavy source text encoded as UTF-16).
func looksUTF16(b []byte, bigEndian bool) bool {
	if len(b) < 4 || len(b)%2 != 0 {
		return false
	}
	zeroHigh := 0
	pairs := len(b) / 2
	for i := 0; i+1 < len(b); i += 2 {
		hi, lo := b[i], b[i+1]
		if bigEndian {
			hi, lo = lo, hi
		}
		_ = lo
		if hi == 0 {
			zeroHigh++
		}
	}
	return pairs > 0 && float64(zeroHigh)/float64(pairs) > 0.7
}

// DetectLineEnding finds the dominant line terminator: the first
// occurrence of "\r\n" beats a bare "\n" per spec.md §4.5 step 6.
func DetectLineEnding(b []byte) LineEnding {
	idx := bytes.IndexByte(b, '\n')
	if idx > 0 && b[idx-1] == '\r' {
		return CRLF
	}
	return LF
}

// decoderFor returns the x/text decoder for a Kind, or nil for UTF-8
// (which needs no transformation).
func decoderFor(k Kind) *encoding.Decoder {
	switch k {
	case UTF16LE:
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
	case UTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder()
	case Latin1:
		return charmap.ISO8859_1.NewDecoder()
	default:
		return nil
	}
}

// Decode converts raw file bytes in encoding k to a Go UTF-8 string.
// Decode errors are never surfaced. For UTF-16 and Latin-1, undecodable
// sequences are replaced with the Unicode replacement character; UTF-8
// input is returned as a string unchanged, so any invalid bytes in it
// pass through as they are.
func Decode(b []byte, k Kind) string {
	dec := decoderFor(k)
	if dec == nil {
		return string(b)
	}
	out, err := dec.Bytes(b)
	if err != nil {
		// best-effort: x/text decoders already substitute invalid
		// sequences via their default ReplaceNFC-style transformer; on
		// hard failure fall back to a naive pass so we never raise.
		return string(bytes.ToValidUTF8(b, []byte("�")))
	}
	return string(out)
}

// Encode converts a UTF-8 string back to encoding k for writing to disk.
// Runes that k cannot represent are replaced with k's substitute
// character instead of failing the conversion.
func Encode(s string, k Kind) []byte {
	enc := encoderFor(k)
	if enc == nil {
		return []byte(s)
	}
	out, err := encoding.ReplaceUnsupported(enc).Bytes([]byte(s))
	if err != nil {
		return []byte(s)
	}
	return out
}

func encoderFor(k Kind) *encoding.Encoder {
	switch k {
	case UTF16LE:
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder()
	case UTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewEncoder()
	case Latin1:
		return charmap.ISO8859_1.NewEncoder()
	default:
		return nil
	}
}

// NormalizeLineEndings rewrites s to use the given line ending kind,
// first collapsing any existing CRLF/LF mix to bare LF.
func NormalizeLineEndings(s string, le LineEnding) string {
	normalized := bytes.ReplaceAll([]byte(s), []byte("\r\n"), []byte("\n"))
	if le == LF {
		return string(normalized)
	}
	return string(bytes.ReplaceAll(normalized, []byte("\n"), []byte("\r\n")))
}
