package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/petermazzocco/go-photo-gallery/models"
	"gorm.io/gorm"
)

type PhotoStore struct {
	db *gorm.DB
}

func NewPhotoStore(db *gorm.DB) *PhotoStore {
	return &PhotoStore{db: db}
}

func (s *PhotoStore) Insert(ctx context.Context, userID uint, url, name string) (*models.Photo, error) {
	photo := &models.Photo{
		UUID:   uuid.New().String(),
		UserID: userID,
		URL:    url,
		Name:   name,
	}
	err := withConn(ctx, s.db, "insert photo", func(tx *gorm.DB) error {
		if err := tx.Create(photo).Error; err != nil {
			return classify("insert photo", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return photo, nil
}

// ListByUser returns the user's photos in insertion order. A user without
// photos gets an empty slice.
func (s *PhotoStore) ListByUser(ctx context.Context, userID uint) ([]models.Photo, error) {
	photos := []models.Photo{}
	err := withConn(ctx, s.db, "list photos", func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Order("id").Find(&photos).Error; err != nil {
			return classify("list photos", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return photos, nil
}
