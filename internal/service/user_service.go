package service

import (
	"exam_campus_backend/internal/model"
	"exam_campus_backend/internal/repository"
	"exam_campus_backend/internal/util"

	"gorm.io/gorm"
)

type UserService struct {
	UserRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{UserRepo: userRepo}
}

func (s *UserService) GetByID(id uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(id)
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrUserNotFound
	}
	return user, err
}

func (s *UserService) List(page, pageSize int, role string) ([]model.User, int64, error) {
	return s.UserRepo.List(page, pageSize, role)
}

// SetDisabled locks or unlocks an account; a disabled user cannot log in.
func (s *UserService) SetDisabled(id uint, disabled bool) error {
	if _, err := s.GetByID(id); err != nil {
		return err
	}
	return s.UserRepo.SetDisabled(id, disabled)
}

type ProfileUpdateRequest struct {
	Name     string `json:"name"`
	Language string `json:"language"`
	Avatar   string `json:"avatar"`
}

func (s *UserService) UpdateProfile(id uint, req ProfileUpdateRequest) (*model.User, error) {
	user, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Language != "" {
		user.Language = req.Language
	}
	if req.Avatar != "" {
		user.Avatar = req.Avatar
	}
	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}
