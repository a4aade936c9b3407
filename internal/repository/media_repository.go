package repository

import (
	"exam_campus_backend/internal/model"

	"gorm.io/gorm"
)

type MediaRepository struct {
	DB *gorm.DB
}

func NewMediaRepository(db *gorm.DB) *MediaRepository {
	return &MediaRepository{DB: db}
}

func (r *MediaRepository) Create(asset *model.MediaAsset) error {
	return r.DB.Create(asset).Error
}

func (r *MediaRepository) FindByID(id string) (*model.MediaAsset, error) {
	var asset model.MediaAsset
	err := r.DB.First(&asset, "id = ?", id).Error
	return &asset, err
}

func (r *MediaRepository) Delete(id string) error {
	return r.DB.Delete(&model.MediaAsset{}, "id = ?", id).Error
}

func (r *MediaRepository) ListByUploader(uploaderID uint) ([]model.MediaAsset, error) {
	var assets []model.MediaAsset
	err := r.DB.Where("uploader_id = ?", uploaderID).Order("created_at DESC").Find(&assets).Error
	return assets, err
}
