package cart

import (
	"context"
	"errors"
	"time"

	"github.com/yeremiapane/foodhub/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore keeps carts in the cart_snapshots table.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Get(ctx context.Context, key string) ([]byte, error) {
	var snap models.CartSnapshot
	err := s.db.WithContext(ctx).Where("storage_key = ?", key).First(&snap).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(snap.Data), nil
}

func (s *GormStore) Set(ctx context.Context, key string, data []byte) error {
	snap := models.CartSnapshot{
		StorageKey: key,
		Data:       string(data),
		UpdatedAt:  time.Now(),
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "storage_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&snap).Error
}
