// Package checkpoint implements spec.md §6's long-term checkpoint/undo
// store: "create_checkpoint(tx, path, name) captures the pre-image
// bytes durably before staging, and subsequent lookup by (path, name)
// returns those bytes." The schema is opaque to internal/replace,
// which only sees the narrow replace.CheckpointStore interface.
//
// Grounded on termfx-morfx's db/sqlite.go (gorm.Open/AutoMigrate shape,
// SQLite dialector selection) and models/models.go (single-model gorm
// tag style, TableName overrides), narrowed from the teacher's
// stage/apply/session workflow to one Checkpoint model since spec.md
// has no concept of a staged-but-uncommitted database row — staging
// lives entirely in internal/txn.
package checkpoint

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rahul1-bot/flux-mcp/internal/apierr"
)

// Checkpoint is one durable pre-image capture, keyed for lookup by the
// (path, name) pair spec.md §6 specifies.
type Checkpoint struct {
	ID        string `gorm:"primaryKey;type:varchar(40)"`
	Path      string `gorm:"type:text;index:idx_checkpoint_lookup,priority:1"`
	Name      string `gorm:"type:varchar(255);index:idx_checkpoint_lookup,priority:2"`
	PreImage  []byte `gorm:"type:blob"`
	Digest    string `gorm:"type:varchar(64)"` // sha256 hex of PreImage
	TxnID     string `gorm:"type:varchar(64)"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Checkpoint) TableName() string { return "checkpoints" }

// Store is a checkpoint table backed by a pure-Go SQLite file, chosen
// (like the rest of the pack) over the teacher's cgo mattn/go-sqlite3
// driver so this package never requires a C toolchain to build.
type Store struct {
	db *gorm.DB
}

// Connect opens (creating if necessary) a SQLite-backed checkpoint
// store at dsn and runs its migration. Unlike the teacher's db.Connect,
// there is no libsql/Turso branch: spec.md's checkpoint contract never
// calls for remote sync, only local durability.
func Connect(dsn string, debug bool) (*Store, error) {
	if dir := filepath.Dir(dsn); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("checkpoint: failed to create database directory: %w", err)
		}
	}

	config := &gorm.Config{}
	if debug {
		config.Logger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(sqlite.Open(dsn), config)
	if err != nil {
		return nil, fmt.Errorf("checkpoint: failed to connect: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("checkpoint: migration failed: %w", err)
	}

	return &Store{db: db}, nil
}

// Migrate runs the checkpoint table's auto-migration.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Checkpoint{})
}

// CreateCheckpoint implements replace.CheckpointStore: it captures
// preImage durably under (path, name), computing a sha256 digest for
// later auditing. Satisfies the interface structurally — this package
// never imports internal/replace.
func (s *Store) CreateCheckpoint(path, name string, preImage []byte) error {
	return s.CreateCheckpointTx("", path, name, preImage)
}

// CreateCheckpointTx is the full form spec.md §4.3 names,
// create_checkpoint(tx, path, name), with txnID recorded for
// traceability even though lookup never needs it.
func (s *Store) CreateCheckpointTx(txnID, path, name string, preImage []byte) error {
	digest := sha256.Sum256(preImage)
	row := Checkpoint{
		ID:       uuid.NewString(),
		Path:     path,
		Name:     name,
		PreImage: preImage,
		Digest:   hex.EncodeToString(digest[:]),
		TxnID:    txnID,
	}
	if err := s.db.Create(&row).Error; err != nil {
		return fmt.Errorf("checkpoint: create failed: %w", err)
	}
	return nil
}

// Lookup returns the most recently captured pre-image for (path, name).
func (s *Store) Lookup(path, name string) ([]byte, error) {
	var row Checkpoint
	err := s.db.Where("path = ? AND name = ?", path, name).Order("created_at DESC").First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierr.New(apierr.NotFound, fmt.Sprintf("no checkpoint named %q for %s", name, path))
	}
	if err != nil {
		return nil, fmt.Errorf("checkpoint: lookup failed: %w", err)
	}
	return row.PreImage, nil
}

// VerifyDigest reports whether content's sha256 matches the digest
// recorded for (path, name), useful for detecting a checkpoint row
// that was tampered with or truncated on disk.
func (s *Store) VerifyDigest(path, name string, content []byte) (bool, error) {
	var row Checkpoint
	err := s.db.Where("path = ? AND name = ?", path, name).Order("created_at DESC").First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, apierr.New(apierr.NotFound, fmt.Sprintf("no checkpoint named %q for %s", name, path))
	}
	if err != nil {
		return false, fmt.Errorf("checkpoint: lookup failed: %w", err)
	}
	digest := sha256.Sum256(content)
	return hex.EncodeToString(digest[:]) == row.Digest, nil
}
