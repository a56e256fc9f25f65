package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

type kvItem struct {
	Key       string `gorm:"column:item_key;primaryKey"`
	Value     string `gorm:"column:value;not null"`
	UpdatedAt time.Time
}

func (kvItem) TableName() string {
	return "kv_items"
}

// SQLiteStorage - storage.KV в локальном файле SQLite (через gorm)
type SQLiteStorage struct {
	db *gorm.DB
}

// New opens (or creates) the database at path; ":memory:" is allowed.
func New(path string) (*SQLiteStorage, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sqlite handle: %w", err)
	}
	// one connection: sqlite has a single writer and :memory: is per connection
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&kvItem{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate sqlite: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

func (s *SQLiteStorage) GetItem(ctx context.Context, key string) (string, bool, error) {
	var item kvItem
	err := s.db.WithContext(ctx).Where("item_key = ?", key).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get item: %w", err)
	}
	return item.Value, true, nil
}

func (s *SQLiteStorage) SetItem(ctx context.Context, key string, value string) error {
	item := kvItem{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "item_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&item).Error
	if err != nil {
		return fmt.Errorf("failed to set item: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) RemoveItem(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Where("item_key = ?", key).Delete(&kvItem{}).Error; err != nil {
		return fmt.Errorf("failed to remove item: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
