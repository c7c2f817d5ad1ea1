// Package txn implements spec.md §4.3's transaction manager: begin,
// per-file acquire with an advisory exclusive non-blocking OS lock,
// stage-to-temp-file, commit-by-rename, and rollback-by-restoring the
// pre-image. Grounded on the atomic-rename and lock-acquisition pattern
// in termfx-morfx's core/atomicwriter.go, reworked to use a real OS-level
// advisory lock (golang.org/x/sys/unix.Flock) instead of the teacher's
// marker-file convention, and to spec.md's in-memory pre-image model
// instead of the teacher's on-disk JSON transaction log.
package txn

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sys/unix"

	"github.com/rahul1-bot/flux-mcp/internal/apierr"
)

// State is the lifecycle state of a transaction.
type State string

const (
	Open       State = "open"
	Committed  State = "committed"
	RolledBack State = "rolled_back"
)

// fileState tracks one acquired file within a transaction.
type fileState struct {
	path     string
	fd       *os.File
	locked   bool
	existed  bool
	preImage []byte
	tempPath string
	tempFile *os.File
	staged   bool
}

// Transaction groups every file acquired under one id until commit or
// rollback. At most one transaction may hold a given file at a time,
// enforced by the Manager's global lock table rather than by Transaction
// itself (spec.md §4.3's concurrency contract).
type Transaction struct {
	mu    sync.Mutex
	id    string
	state State
	files map[string]*fileState
}

// ID returns the transaction's identifier.
func (t *Transaction) ID() string { return t.id }

// State returns the transaction's current lifecycle state.
func (t *Transaction) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Manager owns every open transaction and the global file-lock table
// used to enforce "at most one transaction may hold a given file at a
// time" across transactions.
type Manager struct {
	mu           sync.Mutex
	transactions map[string]*Transaction
	heldBy       map[string]string // path -> transaction id currently holding it
}

// NewManager creates an empty transaction manager.
func NewManager() *Manager {
	return &Manager{
		transactions: make(map[string]*Transaction),
		heldBy:       make(map[string]string),
	}
}

// Begin starts a new transaction and returns its id.
func (m *Manager) Begin() string {
	id := newTransactionID()
	m.mu.Lock()
	m.transactions[id] = &Transaction{id: id, state: Open, files: make(map[string]*fileState)}
	m.mu.Unlock()
	return id
}

func (m *Manager) lookup(id string) (*Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.transactions[id]
	if !ok {
		return nil, apierr.New(apierr.UnknownTransaction, "unknown transaction: "+id)
	}
	return t, nil
}

// Acquire creates the parent directory and file if either is absent,
// opens the file read/write, takes an advisory exclusive non-blocking
// lock, captures the pre-image, and prepares a dotted unique temp file
// in the same directory for the eventual staged write.
func (m *Manager) Acquire(id, path string) error {
	t, err := m.lookup(id)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != Open {
		return apierr.New(apierr.TransactionFinished, "transaction is not open: "+id)
	}
	if _, already := t.files[path]; already {
		return nil
	}

	m.mu.Lock()
	if holder, held := m.heldBy[path]; held && holder != id {
		m.mu.Unlock()
		return apierr.New(apierr.TransactionConflict, "file already held by another transaction: "+path)
	}
	m.heldBy[path] = id
	m.mu.Unlock()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.releaseHold(path, id)
		return apierr.Wrap(apierr.IOFailure, "failed to create parent directory: "+dir, err)
	}

	_, statErr := os.Stat(path)
	existed := statErr == nil

	fd, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		m.releaseHold(path, id)
		return apierr.Wrap(apierr.IOFailure, "failed to open "+path, err)
	}

	if err := unix.Flock(int(fd.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		fd.Close()
		m.releaseHold(path, id)
		return apierr.Wrap(apierr.TransactionConflict, "failed to acquire advisory lock on "+path, err)
	}

	preImage, err := os.ReadFile(path)
	if err != nil {
		unix.Flock(int(fd.Fd()), unix.LOCK_UN)
		fd.Close()
		m.releaseHold(path, id)
		return apierr.Wrap(apierr.IOFailure, "failed to read pre-image of "+path, err)
	}

	tempPath, tempFile, err := createStagingTemp(dir, filepath.Base(path))
	if err != nil {
		unix.Flock(int(fd.Fd()), unix.LOCK_UN)
		fd.Close()
		m.releaseHold(path, id)
		return apierr.Wrap(apierr.IOFailure, "failed to create staging temp file", err)
	}

	t.files[path] = &fileState{
		path:     path,
		fd:       fd,
		locked:   true,
		existed:  existed,
		preImage: preImage,
		tempPath: tempPath,
		tempFile: tempFile,
	}
	return nil
}

func (m *Manager) releaseHold(path, id string) {
	m.mu.Lock()
	if m.heldBy[path] == id {
		delete(m.heldBy, path)
	}
	m.mu.Unlock()
}

// PreImage returns the bytes captured for path when it was acquired,
// letting a caller resolve and splice against exactly the content the
// transaction locked, rather than re-reading the file and risking a
// second, possibly inconsistent, read.
func (m *Manager) PreImage(id, path string) ([]byte, error) {
	t, err := m.lookup(id)
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	fs, ok := t.files[path]
	if !ok {
		return nil, apierr.New(apierr.NotFound, "file was not acquired in this transaction: "+path)
	}
	return fs.preImage, nil
}

// Stage writes bytes to path's staged temp file, flushes, and fsyncs.
func (m *Manager) Stage(id, path string, content []byte) error {
	t, err := m.lookup(id)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != Open {
		return apierr.New(apierr.TransactionFinished, "transaction is not open: "+id)
	}
	fs, ok := t.files[path]
	if !ok {
		return apierr.New(apierr.NotFound, "file was not acquired in this transaction: "+path)
	}

	if _, err := fs.tempFile.WriteAt(content, 0); err != nil {
		return apierr.Wrap(apierr.IOFailure, "failed to stage write for "+path, err)
	}
	if err := fs.tempFile.Truncate(int64(len(content))); err != nil {
		return apierr.Wrap(apierr.IOFailure, "failed to truncate staged file for "+path, err)
	}
	if err := fs.tempFile.Sync(); err != nil {
		return apierr.Wrap(apierr.IOFailure, "failed to fsync staged file for "+path, err)
	}
	fs.staged = true
	return nil
}

// Commit renames every staged temp file over its target, releases every
// lock, and marks the transaction committed. Per-file rename order is
// unspecified but deterministic for a given file set (sorted by path).
func (m *Manager) Commit(id string) error {
	t, err := m.lookup(id)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != Open {
		return apierr.New(apierr.TransactionFinished, "transaction already finished: "+id)
	}

	paths := sortedKeys(t.files)
	for _, p := range paths {
		fs := t.files[p]
		if fs.staged {
			if err := os.Rename(fs.tempPath, fs.path); err != nil {
				return apierr.Wrap(apierr.IOFailure, "commit rename failed for "+fs.path, err)
			}
		} else {
			os.Remove(fs.tempPath)
		}
	}

	m.releaseAll(t)
	t.state = Committed
	return nil
}

// Rollback restores every acquired file's pre-image (or removes it if it
// did not previously exist), discards staged temp files, releases every
// lock, and marks the transaction rolled back.
func (m *Manager) Rollback(id string) error {
	t, err := m.lookup(id)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != Open {
		return apierr.New(apierr.TransactionFinished, "transaction already finished: "+id)
	}

	var firstErr error
	for _, p := range sortedKeys(t.files) {
		fs := t.files[p]
		os.Remove(fs.tempPath)
		if fs.existed {
			if err := os.WriteFile(fs.path, fs.preImage, 0o644); err != nil && firstErr == nil {
				firstErr = apierr.Wrap(apierr.IOFailure, "rollback write failed for "+fs.path, err)
			}
		} else {
			if err := os.Remove(fs.path); err != nil && !os.IsNotExist(err) && firstErr == nil {
				firstErr = apierr.Wrap(apierr.IOFailure, "rollback removal failed for "+fs.path, err)
			}
		}
	}

	m.releaseAll(t)
	t.state = RolledBack
	return firstErr
}

// releaseAll unlocks and closes every file descriptor held by t and
// frees its entries in the manager's global hold table. Caller holds
// t.mu.
func (m *Manager) releaseAll(t *Transaction) {
	for p, fs := range t.files {
		if fs.locked {
			unix.Flock(int(fs.fd.Fd()), unix.LOCK_UN)
		}
		fs.fd.Close()
		fs.tempFile.Close()
		m.releaseHold(p, t.id)
	}
}

// createStagingTemp creates a dotted, unique temp file in dir so the
// eventual rename onto base stays within the same filesystem.
func createStagingTemp(dir, base string) (string, *os.File, error) {
	nonce, err := randomHexString(8)
	if err != nil {
		return "", nil, err
	}
	name := fmt.Sprintf(".%s.%s.tmp", base, nonce)
	path := filepath.Join(dir, name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_EXCL, 0o644)
	if err != nil {
		return "", nil, err
	}
	return path, f, nil
}

func newTransactionID() string {
	s, err := randomHexString(16)
	if err != nil {
		return "txn-fallback"
	}
	return "txn-" + s
}

func randomHexString(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func sortedKeys(m map[string]*fileState) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j-1] > keys[j]; j-- {
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}
	return keys
}
