package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/backoffice/app/models"
	"github.com/shashiranjanraj/backoffice/pkg/auth"
)

// UserRepository handles database operations for User and Group.
type UserRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// ByID looks up a user by primary key.
func (r *UserRepository) ByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).Preload("Group").First(&u, id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

// ByUsername looks up a user by exact username.
func (r *UserRepository) ByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).Preload("Group").Where("username = ?", username).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

// ByEmail returns every user registered with email (case-insensitive).
func (r *UserRepository) ByEmail(ctx context.Context, email string) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).Where("LOWER(email) = LOWER(?)", email).Order("id").Find(&users).Error
	return users, err
}

// UsernameTaken reports whether username is already registered.
func (r *UserRepository) UsernameTaken(ctx context.Context, username string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", username).Count(&n).Error
	return n > 0, err
}

// Create inserts u. A username collision returns ErrDuplicate.
func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	return translate(r.db.WithContext(ctx).Omit("Group").Create(u).Error)
}

// SetPassword stores a new password hash.
func (r *UserRepository) SetPassword(ctx context.Context, id uint, hash string) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("password", hash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// TouchLastLogin records a successful login.
func (r *UserRepository) TouchLastLogin(ctx context.Context, id uint, at time.Time) error {
	return r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("last_login", at).Error
}

// SetGroup moves the user into the named group. Joining the customer group
// links a Customer profile, creating one when the user has none.
func (r *UserRepository) SetGroup(ctx context.Context, userID uint, groupName string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u models.User
		if err := tx.First(&u, userID).Error; err != nil {
			return translate(err)
		}

		var g models.Group
		if err := tx.Where(models.Group{Name: groupName}).FirstOrCreate(&g).Error; err != nil {
			return fmt.Errorf("group %q: %w", groupName, err)
		}
		if err := tx.Model(&u).Update("group_id", g.ID).Error; err != nil {
			return err
		}

		if auth.RoleFromGroup(groupName) != auth.RoleCustomer {
			return nil
		}
		var n int64
		if err := tx.Model(&models.Customer{}).Where("user_id = ?", u.ID).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return nil
		}
		c := models.Customer{UserID: &u.ID, Name: u.Username, Email: u.Email, ProfilePic: models.DefaultProfilePic}
		return tx.Omit("User").Create(&c).Error
	})
}

// LoadIdentity implements auth.Loader: user, group and customer profile are
// read fresh on every request.
func (r *UserRepository) LoadIdentity(ctx context.Context, userID uint) (auth.Identity, error) {
	u, err := r.ByID(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return auth.Identity{}, auth.ErrUnknownUser
	}
	if err != nil {
		return auth.Identity{}, err
	}

	id := auth.Identity{UserID: u.ID, Username: u.Username}
	if u.Group != nil {
		id.Role = auth.RoleFromGroup(u.Group.Name)
	}

	var c models.Customer
	err = r.db.WithContext(ctx).Select("id").Where("user_id = ?", u.ID).First(&c).Error
	switch {
	case err == nil:
		id.CustomerID = &c.ID
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return auth.Identity{}, err
	}
	return id, nil
}
