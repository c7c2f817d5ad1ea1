package api

import (
	"strings"

	"github.com/rahul1-bot/flux-mcp/internal/apierr"
	"github.com/rahul1-bot/flux-mcp/internal/encoding"
)

// parseEncodingKind translates a caller-supplied encoding name (the
// read_file/write_file request field, never a detected value — internal/
// encoding's own Kind constants are produced by DetectEncoding, not by
// parsing caller strings) into an encoding.Kind. An empty string means
// "caller did not specify one"; it is the caller's job to fall back to
// detection or to the utf-8 default, matching spec.md §6's "either the
// caller-specified encoding or the detected one" rule.
func parseEncodingKind(name string) (encoding.Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return "", false
	case "utf-8", "utf8":
		return encoding.UTF8, true
	case "utf-16le", "utf16le":
		return encoding.UTF16LE, true
	case "utf-16be", "utf16be":
		return encoding.UTF16BE, true
	case "latin-1", "latin1", "iso-8859-1", "iso8859-1":
		return encoding.Latin1, true
	default:
		return "", false
	}
}

func requireEncodingKind(name string) (encoding.Kind, error) {
	k, ok := parseEncodingKind(name)
	if !ok {
		return "", apierr.New(apierr.FormatError, "unrecognized encoding: "+name)
	}
	return k, nil
}
