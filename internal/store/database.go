package store

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Blob is the GORM model for one stored key
type Blob struct {
	Key       string    `gorm:"primaryKey" json:"key"`
	Value     []byte    `gorm:"type:bytea;not null" json:"value"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// DatabaseStore persists blobs as rows in Postgres via GORM. It exists
// for deployments that want the document to outlive the host the
// service runs on; semantics are identical to the other backends.
type DatabaseStore struct {
	db *gorm.DB
}

// NewDatabaseStore creates a database-backed store and runs its migration
func NewDatabaseStore(db *gorm.DB) (*DatabaseStore, error) {
	if err := db.AutoMigrate(&Blob{}); err != nil {
		return nil, errors.Wrap(err, "failed to migrate blob table")
	}
	return &DatabaseStore{db: db}, nil
}

// Load retrieves a blob by key
func (s *DatabaseStore) Load(ctx context.Context, key string) ([]byte, error) {
	var blob Blob
	err := s.db.WithContext(ctx).First(&blob, "key = ?", key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to load blob")
	}
	return blob.Value, nil
}

// Save stores a blob under key, replacing any previous value
func (s *DatabaseStore) Save(ctx context.Context, key string, data []byte) error {
	blob := Blob{Key: key, Value: data}
	err := s.db.WithContext(ctx).Save(&blob).Error
	if err != nil {
		return errors.Wrap(err, "failed to save blob")
	}
	return nil
}

// Delete removes a blob. Deleting an absent key is not an error.
func (s *DatabaseStore) Delete(ctx context.Context, key string) error {
	err := s.db.WithContext(ctx).Delete(&Blob{}, "key = ?", key).Error
	if err != nil {
		return errors.Wrap(err, "failed to delete blob")
	}
	return nil
}

// Close closes the underlying connection
func (s *DatabaseStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get underlying DB connection")
	}
	return sqlDB.Close()
}
