package services

import (
	"strings"
	"time"

	"tasklist/backend/internal/models"
	"tasklist/backend/internal/store"

	"github.com/gofrs/uuid"
)

type RegistrationRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required"`
}

type UserService interface {
	RegisterUser(req RegistrationRequest) (models.User, error)
	GetUserByID(id uuid.UUID) (models.User, error)
	GetUserByUsername(username string) (models.User, error)
}

type UserServiceImpl struct {
	users *store.UserStore
}

func NewUserService(users *store.UserStore) *UserServiceImpl {
	return &UserServiceImpl{users: users}
}

func (s *UserServiceImpl) RegisterUser(req RegistrationRequest) (models.User, error) {
	user := models.User{
		ID:        uuid.Must(uuid.NewV4()),
		Username:  strings.TrimSpace(req.Username),
		Password:  req.Password,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.users.Insert(&user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (s *UserServiceImpl) GetUserByID(id uuid.UUID) (models.User, error) {
	return s.users.FindByID(id)
}

func (s *UserServiceImpl) GetUserByUsername(username string) (models.User, error) {
	return s.users.FindByUsername(username)
}
