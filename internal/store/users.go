package store

import (
	"errors"

	"tasklist/backend/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

var ErrDuplicateUsername = errors.New("username already exists")

type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// Insert writes the user and lets the unique index arbitrate username
// collisions, so two concurrent registrations of the same name both see
// ErrDuplicateUsername rather than one racing past a read-then-write check.
func (s *UserStore) Insert(user *models.User) error {
	err := s.db.Create(user).Error
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateUsername
	}
	// Driver-agnostic fallback: the insert failed and the username is
	// taken, so report the collision.
	var count int64
	if s.db.Model(&models.User{}).Where("username = ?", user.Username).Count(&count).Error == nil && count > 0 {
		return ErrDuplicateUsername
	}
	return translate(err)
}

func (s *UserStore) FindByID(id uuid.UUID) (models.User, error) {
	var user models.User
	err := s.db.Where("id = ?", id).First(&user).Error
	return user, translate(err)
}

func (s *UserStore) FindByUsername(username string) (models.User, error) {
	var user models.User
	err := s.db.Where("username = ?", username).First(&user).Error
	return user, translate(err)
}

// Exists reports whether a user with the given id is on record. Used to
// validate owner and comment-author references before accepting a task
// mutation.
func (s *UserStore) Exists(id uuid.UUID) (bool, error) {
	var count int64
	err := s.db.Model(&models.User{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, translate(err)
	}
	return count > 0, nil
}
