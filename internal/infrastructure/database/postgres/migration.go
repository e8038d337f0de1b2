// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"log"

	"github.com/your-org/storefront-gateway/internal/domain/session"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db *gorm.DB
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB) *Migration {
	return &Migration{
		db: db,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	log.Println("🔄 Running database auto-migrations...")

	models := []interface{}{
		&session.Record{},
	}

	for _, model := range models {
		log.Printf("Migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	log.Println("✅ Database auto-migrations completed successfully")
	return nil
}

// CreateIndexes creates additional indexes for better performance
func (m *Migration) CreateIndexes() error {
	log.Println("🔄 Creating additional database indexes...")

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_device_sessions_user_id ON device_sessions(user_id)",
		"CREATE INDEX IF NOT EXISTS idx_device_sessions_token_expiry ON device_sessions(token_expiry)",
		"CREATE INDEX IF NOT EXISTS idx_device_sessions_updated_at ON device_sessions(updated_at DESC)",
	}

	for _, index := range indexes {
		if err := m.db.Exec(index).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	log.Println("✅ Database indexes created successfully")
	return nil
}

// CleanupExpiredSessions removes session records whose auth token expired
// and that have not been touched since. Kept as a maintenance hook for a
// scheduled job.
func (m *Migration) CleanupExpiredSessions() error {
	result := m.db.Exec("DELETE FROM device_sessions WHERE token_expiry IS NOT NULL AND token_expiry < NOW() AND guest_token = ''")
	if result.Error != nil {
		return fmt.Errorf("failed to cleanup expired sessions: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		log.Printf("🧹 Removed %d expired session records", result.RowsAffected)
	}
	return nil
}
