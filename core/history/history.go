package history

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Run is one audit row per reconciliation run. Only aggregate counts are
// stored; record data never leaves the run that produced it.
type Run struct {
	// ID is the run's UUID.
	ID string `gorm:"primaryKey;size:36" json:"id"`

	// Mode is the comparison mode: "keyed" or "presence".
	Mode string `gorm:"size:16" json:"mode"`

	// TotalKeys is the number of distinct keys seen (keyed mode), or rows
	// checked (presence mode).
	TotalKeys int `json:"total_keys"`

	// Mismatched counts mismatch report rows.
	Mismatched int `json:"mismatched"`

	// MissingFromText counts keys present only in the tabular source.
	MissingFromText int `json:"missing_from_text"`

	// MissingFromTabular counts keys present only in the text source.
	MissingFromTabular int `json:"missing_from_tabular"`

	// CreatedAt is when the run completed.
	CreatedAt time.Time `json:"created_at"`
}

// TableName fixes the audit table name.
func (Run) TableName() string {
	return "reconciliation_runs"
}

// Connect establishes a connection to the MySQL run-history database.
// History is optional, so callers should degrade gracefully on error.
func Connect(cfg Config) (*gorm.DB, error) {
	// Special characters in the password must be URL encoded for the DSN.
	userInfo := url.UserPassword(cfg.User, cfg.Password).String()

	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}

	dsn := fmt.Sprintf("%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local&timeout=%ds&readTimeout=%ds&writeTimeout=%ds",
		userInfo, cfg.Host, cfg.Port, cfg.Name, timeout, timeout, timeout)

	// Suppress GORM logging; the application logger reports failures.
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	db, err := gorm.Open(mysql.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to history database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeout)*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping history database: %w", err)
	}

	return db, nil
}

// Migrate creates the audit table if it does not exist.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Run{})
}

// Record inserts one completed run into the audit table.
func Record(ctx context.Context, db *gorm.DB, run *Run) error {
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}
	if err := db.WithContext(ctx).Create(run).Error; err != nil {
		return fmt.Errorf("failed to record run %s: %w", run.ID, err)
	}
	return nil
}
