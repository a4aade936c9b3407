package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"exam_campus_backend/internal/config"
	"exam_campus_backend/internal/model"
	"exam_campus_backend/internal/repository"
	"exam_campus_backend/internal/util"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// StorageProvider 定义通用存储接口
type StorageProvider interface {
	Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, filename string) error
	GetURL(filename string) string
}

// LocalStorageProvider 本地存储实现
type LocalStorageProvider struct {
	Config *config.StorageConfig
}

func (p *LocalStorageProvider) Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	dst := filepath.Join(p.Config.LocalPath, filename)
	dir := filepath.Dir(dst)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", err
		}
	}

	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer out.Close()

	_, err = io.Copy(out, reader)
	if err != nil {
		return "", err
	}

	return p.GetURL(filename), nil
}

func (p *LocalStorageProvider) Delete(ctx context.Context, filename string) error {
	dst := filepath.Join(p.Config.LocalPath, filename)
	return os.Remove(dst)
}

func (p *LocalStorageProvider) GetURL(filename string) string {
	return "/uploads/" + filename
}

// MinioStorageProvider MinIO存储实现
type MinioStorageProvider struct {
	Config *config.StorageConfig
	Client *minio.Client
}

func NewMinioStorageProvider(cfg *config.StorageConfig) (*MinioStorageProvider, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
		Secure: false,
	})
	if err != nil {
		return nil, err
	}
	return &MinioStorageProvider{Config: cfg, Client: client}, nil
}

func (p *MinioStorageProvider) Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	_, err := p.Client.PutObject(ctx, p.Config.MinioBucket, filename, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return p.GetURL(filename), nil
}

func (p *MinioStorageProvider) Delete(ctx context.Context, filename string) error {
	return p.Client.RemoveObject(ctx, p.Config.MinioBucket, filename, minio.RemoveObjectOptions{})
}

func (p *MinioStorageProvider) GetURL(filename string) string {
	return "/" + p.Config.MinioBucket + "/" + filename
}

// StorageService stores question and explanation media and records each
// upload as a MediaAsset row.
type StorageService struct {
	Provider  StorageProvider
	MediaRepo *repository.MediaRepository
}

func NewStorageService(cfg *config.Config, mediaRepo *repository.MediaRepository) (*StorageService, error) {
	var provider StorageProvider
	switch cfg.Storage.Type {
	case "minio":
		p, err := NewMinioStorageProvider(&cfg.Storage)
		if err != nil {
			return nil, err
		}
		provider = p
	default:
		provider = &LocalStorageProvider{Config: &cfg.Storage}
	}
	return &StorageService{Provider: provider, MediaRepo: mediaRepo}, nil
}

// Upload pushes the file to the configured backend under a collision-free
// name and persists the asset metadata.
func (s *StorageService) Upload(ctx context.Context, originalName string, reader io.Reader, size int64, contentType string, uploaderID uint) (*model.MediaAsset, error) {
	ext := filepath.Ext(originalName)
	base := strings.TrimSuffix(filepath.Base(originalName), ext)
	filename := fmt.Sprintf("%s/%s_%d%s", time.Now().Format("2006/01"), base, time.Now().UnixNano(), ext)

	url, err := s.Provider.Upload(ctx, filename, reader, size, contentType)
	if err != nil {
		return nil, err
	}

	asset := &model.MediaAsset{
		FileName:    filename,
		URL:         url,
		ContentType: contentType,
		Size:        size,
		UploaderID:  uploaderID,
	}
	if err := s.MediaRepo.Create(asset); err != nil {
		return nil, err
	}
	return asset, nil
}

// Delete removes the stored object and its metadata row.
func (s *StorageService) Delete(ctx context.Context, assetID string, uploaderID uint) error {
	asset, err := s.MediaRepo.FindByID(assetID)
	if err != nil {
		return err
	}
	if asset.UploaderID != uploaderID {
		return util.ErrPermissionDenied
	}
	if err := s.Provider.Delete(ctx, asset.FileName); err != nil {
		return err
	}
	return s.MediaRepo.Delete(assetID)
}
