// Package mapfile implements spec.md §4.1's mapped-file store: memory-map
// large files read-only, lazily build a sorted line-start index on first
// demand, and serve read_whole/read_lines against the mapping. Reads are
// offered in a blocking form and in a pool-bounded form (ReadWholeAsync,
// ReadLinesAsync) that first takes a slot of the store's worker
// semaphore, honouring ctx while it waits, and then runs the read on
// the calling goroutine.
package mapfile

import (
	"os"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/rahul1-bot/flux-mcp/internal/apierr"
)

// Handle is a borrowed view over one memory-mapped file. Clients must not
// retain a Handle past the owning Store's Release/Close call.
type Handle struct {
	mu     sync.Mutex
	path   string
	data   []byte // nil for an empty file
	size   int64
	file   *os.File
	region mmapRegion

	indexed bool
	offsets []int // offsets[i] = byte offset of the start of line i
}

// Size returns the total mapped size.
func (h *Handle) Size() int64 { return h.size }

// LineCount returns the number of lines, building the index on first call.
func (h *Handle) LineCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ensureIndexLocked()
	return len(h.offsets)
}

// ensureIndexLocked builds the line-start offset index in a single
// left-to-right scan: offset 0, then every byte position immediately
// after a '\n'. Invariant (spec.md §3): offsets[0] == 0 and every
// offsets[i] <= size.
func (h *Handle) ensureIndexLocked() {
	if h.indexed {
		return
	}
	offsets := []int{0}
	for i, b := range h.data {
		if b == '\n' {
			offsets = append(offsets, i+1)
		}
	}
	h.offsets = offsets
	h.indexed = true
}

// ReadWhole returns the entire mapped file as a byte slice copy.
func (h *Handle) ReadWhole() []byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]byte, len(h.data))
	copy(out, h.data)
	return out
}

// ReadLines returns bytes[offsets[s] .. end) for the inclusive line
// range [s, e], clamped to [0, line_count), matching spec.md §4.1
// exactly: when e+1 is within range the end is offsets[e+1], otherwise
// the file's total size (the terminator-less final line).
func (h *Handle) ReadLines(start, end int) []byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ensureIndexLocked()

	n := len(h.offsets)
	if n == 0 {
		return nil
	}
	if start < 0 {
		start = 0
	}
	if end >= n {
		end = n - 1
	}
	if end < start {
		return nil
	}

	from := h.offsets[start]
	var to int
	if end+1 < n {
		to = h.offsets[end+1]
	} else {
		to = int(h.size)
	}

	out := make([]byte, to-from)
	copy(out, h.data[from:to])
	return out
}

// Store owns every open mapping, guarded by its own mutex covering
// creation and index attachment (spec.md §5).
type Store struct {
	mu       sync.Mutex
	handles  map[string]*Handle
	sem      *semaphore.Weighted
	PoolSize int64
}

// NewStore creates a mapped-file store whose non-blocking operations are
// dispatched onto a worker pool bounded by poolSize concurrent tasks.
func NewStore(poolSize int64) *Store {
	if poolSize < 1 {
		poolSize = 1
	}
	return &Store{
		handles:  make(map[string]*Handle),
		sem:      semaphore.NewWeighted(poolSize),
		PoolSize: poolSize,
	}
}

// Open maps path read-only. Empty files yield a Handle with an empty
// mapping that still satisfies the full interface, per spec.md §4.1.
func (s *Store) Open(path string) (*Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if h, ok := s.handles[path]; ok {
		return h, nil
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apierr.Wrap(apierr.NotFound, "file not found: "+path, err)
		}
		return nil, apierr.Wrap(apierr.IOFailure, "open failed: "+path, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, apierr.Wrap(apierr.IOFailure, "stat failed: "+path, err)
	}

	h := &Handle{path: path, size: info.Size(), file: f}

	if info.Size() == 0 {
		h.data = nil
	} else {
		region, data, mmapErr := mmapFile(f, info.Size())
		if mmapErr != nil {
			f.Close()
			return nil, apierr.Wrap(apierr.IOFailure, "mmap failed: "+path, mmapErr)
		}
		h.region = region
		h.data = data
	}

	s.handles[path] = h
	return h, nil
}

// Release unmaps and closes path's handle, if open.
func (s *Store) Release(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.handles[path]
	if !ok {
		return nil
	}
	delete(s.handles, path)

	var err error
	if h.data != nil {
		err = munmapRegion(h.region)
	}
	if cerr := h.file.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

// Close releases every mapping the store owns (called on shutdown).
func (s *Store) Close() error {
	s.mu.Lock()
	paths := make([]string, 0, len(s.handles))
	for p := range s.handles {
		paths = append(paths, p)
	}
	s.mu.Unlock()

	var firstErr error
	for _, p := range paths {
		if err := s.Release(p); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// ReadWhole is the blocking read_whole(path) operation.
func (s *Store) ReadWhole(path string) ([]byte, error) {
	h, err := s.Open(path)
	if err != nil {
		return nil, err
	}
	return h.ReadWhole(), nil
}

// ReadLinesSync is the blocking form of read_lines(path, start, end).
func (s *Store) ReadLinesSync(path string, start, end int) ([]byte, error) {
	h, err := s.Open(path)
	if err != nil {
		return nil, err
	}
	return h.ReadLines(start, end), nil
}
