package api

import (
	"os"

	"github.com/rahul1-bot/flux-mcp/internal/apierr"
	"github.com/rahul1-bot/flux-mcp/internal/encoding"
)

// ReadFileRequest is spec.md §6's read_file operation: path, an optional
// caller-specified encoding, and an optional 0-indexed inclusive line
// range. A nil StartLine/EndLine reads the whole file.
type ReadFileRequest struct {
	Path      string `json:"path"`
	Encoding  string `json:"encoding,omitempty"`
	StartLine *int   `json:"start_line,omitempty"`
	EndLine   *int   `json:"end_line,omitempty"`
}

// ReadFile returns path's content decoded to a UTF-8 Go string. Mirrors
// the original engine's read_file: a whole-file read of a file at or
// above the configured large-file threshold goes through the mmap-backed
// mapfile.Store; a whole-file read below the threshold uses os.ReadFile;
// any partial-line read, whatever the file's size, goes through
// mapfile.Store.ReadLinesSync, which maps the file and builds its line
// index.
func (s *Service) ReadFile(req ReadFileRequest) (string, error) {
	info, err := os.Stat(req.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", apierr.Wrap(apierr.NotFound, "file not found: "+req.Path, err)
		}
		return "", apierr.Wrap(apierr.IOFailure, "stat failed: "+req.Path, err)
	}

	wholeFile := req.StartLine == nil && req.EndLine == nil
	useMmap := wholeFile && info.Size() >= s.opts.LargeFileThreshold

	var raw []byte
	if useMmap {
		raw, err = s.files.ReadWhole(req.Path)
	} else if wholeFile {
		raw, err = os.ReadFile(req.Path)
	} else {
		start, end := 0, -1
		if req.StartLine != nil {
			start = *req.StartLine
		}
		if req.EndLine != nil {
			end = *req.EndLine
		} else {
			end = start
		}
		raw, err = s.files.ReadLinesSync(req.Path, start, end)
	}
	if err != nil {
		return "", wrapIOError(req.Path, err)
	}

	kind, ok := parseEncodingKind(req.Encoding)
	if !ok {
		if req.Encoding != "" {
			return "", apierr.New(apierr.FormatError, "unrecognized encoding: "+req.Encoding)
		}
		kind = encoding.DetectEncoding(raw)
	}

	return encoding.Decode(raw, kind), nil
}

// wrapIOError passes apierr.Error values through unchanged (the mapfile
// store already wraps os.IsNotExist/IOFailure with the right Kind) and
// wraps anything else — a bare os.ReadFile failure on the plain-read
// path — as IOFailure.
func wrapIOError(path string, err error) error {
	if _, ok := apierr.As(err); ok {
		return err
	}
	return apierr.Wrap(apierr.IOFailure, "read failed: "+path, err)
}
