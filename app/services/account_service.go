package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"

	"github.com/shashiranjanraj/backoffice/app/forms"
	"github.com/shashiranjanraj/backoffice/app/models"
	"github.com/shashiranjanraj/backoffice/app/repositories"
	"github.com/shashiranjanraj/backoffice/pkg/logger"
	"github.com/shashiranjanraj/backoffice/pkg/storage"
)

// ProfileDir is where profile pictures are stored.
const ProfileDir = "profiles"

// MsgBadImage is the field error for uploads that are not images.
const MsgBadImage = "Upload a valid image. The file you uploaded was either not an image or a corrupted image."

// AccountService backs the customer self-service profile page.
type AccountService struct {
	customers *repositories.CustomerRepository
	disk      storage.Disk
}

func NewAccountService(customers *repositories.CustomerRepository, disk storage.Disk) *AccountService {
	return &AccountService{customers: customers, disk: disk}
}

func (s *AccountService) Profile(ctx context.Context, customerID uint) (*models.Customer, error) {
	return s.customers.ByID(ctx, customerID)
}

// PictureURL is the public URL of an uploaded profile picture. It is "" for
// the default picture, which templates serve from the static assets.
func (s *AccountService) PictureURL(name string) string {
	if name == "" || name == models.DefaultProfilePic {
		return ""
	}
	return s.disk.URL(name)
}

// Update saves the profile fields and, when pic is non-nil, a new picture.
// The previous uploaded picture is removed once the row is saved.
func (s *AccountService) Update(ctx context.Context, c *models.Customer, in forms.Customer, pic *multipart.FileHeader) (map[string]string, error) {
	previous := c.ProfilePic
	picture := previous
	if pic != nil {
		name, err := storage.SaveUpload(ctx, s.disk, ProfileDir, pic)
		if errors.Is(err, storage.ErrUnsupportedType) {
			return map[string]string{"profile_pic": MsgBadImage}, nil
		}
		if err != nil {
			return nil, fmt.Errorf("account: store picture: %w", err)
		}
		picture = name
	}

	// c is only touched once the upload is accepted, so a rejected form
	// re-renders the stored profile.
	c.Name, c.Phone, c.Email, c.ProfilePic = in.Name, in.Phone, in.Email, picture

	if err := s.customers.UpdateProfile(ctx, c); err != nil {
		if c.ProfilePic != previous {
			_ = s.disk.Delete(ctx, c.ProfilePic)
		}
		return nil, fmt.Errorf("account: %w", err)
	}

	if c.ProfilePic != previous && previous != "" && previous != models.DefaultProfilePic {
		if err := s.disk.Delete(ctx, previous); err != nil {
			logger.WithCtx(ctx).Warn("old profile picture not removed", "name", previous, "error", err)
		}
	}
	return nil, nil
}
