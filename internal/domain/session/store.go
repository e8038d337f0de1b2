// internal/domain/session/store.go
package session

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound indicates no session record exists for the device
var ErrNotFound = errors.New("session: record not found")

// Store persists per-device session records
type Store interface {
	Get(ctx context.Context, deviceID string) (*Record, error)
	Save(ctx context.Context, record *Record) error
	Delete(ctx context.Context, deviceID string) error
}

// GormStore is the Postgres-backed session store
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new gorm-backed session store
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Get retrieves the session record for a device
func (s *GormStore) Get(ctx context.Context, deviceID string) (*Record, error) {
	var record Record
	err := s.db.WithContext(ctx).Where("device_id = ?", deviceID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Save upserts the session record for a device
func (s *GormStore) Save(ctx context.Context, record *Record) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "device_id"}},
		UpdateAll: true,
	}).Create(record).Error
}

// Delete removes the session record for a device
func (s *GormStore) Delete(ctx context.Context, deviceID string) error {
	return s.db.WithContext(ctx).Where("device_id = ?", deviceID).Delete(&Record{}).Error
}
