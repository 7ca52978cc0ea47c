package service

import (
	"context"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/storage"
)

type UserService struct {
	userRepo repository.UserRepository
	images   *storage.ImageStore
}

type UpdateProfileInput struct {
	UserID       uint
	Bio          string
	Location     string
	Website      string
	BirthDate    *time.Time
	AvatarPath   string
	RemoveAvatar bool
}

func NewUserService(userRepo repository.UserRepository, images *storage.ImageStore) *UserService {
	return &UserService{
		userRepo: userRepo,
		images:   images,
	}
}

func (s *UserService) GetUser(ctx context.Context, userID uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		s.images.Remove(in.AvatarPath)
		return nil, err
	}

	bio := strings.TrimSpace(in.Bio)
	if utf8.RuneCountInString(bio) > 1000 {
		s.images.Remove(in.AvatarPath)
		return nil, models.NewValidationError("Bio too long (max 1000 characters)")
	}
	website := strings.TrimSpace(in.Website)
	if website != "" {
		parsed, err := url.Parse(website)
		if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
			s.images.Remove(in.AvatarPath)
			return nil, models.NewValidationError("Website must be a valid http or https URL")
		}
	}

	profile := user.Profile
	if profile == nil {
		profile = &models.Profile{UserID: user.ID}
		user.Profile = profile
	}

	profile.Bio = bio
	profile.Location = strings.TrimSpace(in.Location)
	profile.Website = website
	profile.BirthDate = in.BirthDate

	oldAvatar := profile.Avatar
	if in.AvatarPath != "" {
		profile.Avatar = in.AvatarPath
	} else if in.RemoveAvatar {
		profile.Avatar = ""
	}

	if err := s.userRepo.SaveProfile(ctx, profile); err != nil {
		s.images.Remove(in.AvatarPath)
		return nil, models.NewInternalError(err)
	}

	if oldAvatar != "" && profile.Avatar != oldAvatar {
		s.images.Remove(oldAvatar)
	}

	return user, nil
}
