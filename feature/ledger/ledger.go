package ledger

import (
	"context"
	"fmt"
	"time"

	"storage-gateway/core/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultRecentLimit is used when Recent is called with a non-positive limit.
const DefaultRecentLimit = 50

// Entry is one audited gateway call.
type Entry struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	RayID      string    `gorm:"size:64;index" json:"rayId,omitempty"`
	Operation  string    `gorm:"size:16;index" json:"operation"`
	Bucket     string    `gorm:"size:63" json:"bucket,omitempty"`
	Key        string    `gorm:"column:object_key;size:1024" json:"key,omitempty"`
	Success    bool      `json:"success"`
	ErrorCode  string    `gorm:"size:64" json:"errorCode,omitempty"`
	SizeBytes  int64     `json:"sizeBytes"`
	DurationMs int64     `json:"durationMs"`
	CreatedAt  time.Time `gorm:"index" json:"createdAt"`
}

// TableName pins the table name independent of GORM's pluralisation.
func (Entry) TableName() string {
	return "gateway_audit"
}

var requiredColumns = []string{"id", "ray_id", "operation", "bucket", "object_key", "success", "error_code", "size_bytes", "duration_ms", "created_at"}

// Store persists audit entries.
type Store struct {
	db *gorm.DB
}

// NewStore creates a new audit store.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates or updates the audit table and verifies its columns.
func (s *Store) Migrate(ctx context.Context) error {
	db := s.db.WithContext(ctx)
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return fmt.Errorf("migrate audit table: %w", err)
	}
	missing, err := database.MissingColumns(db, Entry{}.TableName(), requiredColumns)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return fmt.Errorf("audit table is missing columns %v", missing)
	}
	return nil
}

// Record stores e, assigning an id and timestamp when unset.
func (s *Store) Record(ctx context.Context, e Entry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	if err := s.db.WithContext(ctx).Create(&e).Error; err != nil {
		return fmt.Errorf("record audit entry: %w", err)
	}
	return nil
}

// Recent returns the newest entries first, optionally filtered by operation.
func (s *Store) Recent(ctx context.Context, limit int, operation string) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	q := s.db.WithContext(ctx).Order("created_at DESC").Limit(limit)
	if operation != "" {
		q = q.Where("operation = ?", operation)
	}

	var entries []Entry
	if err := q.Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("query audit entries: %w", err)
	}
	return entries, nil
}
