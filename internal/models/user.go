package models

import (
	"time"

	"github.com/gofrs/uuid"
)

// User exists to anchor task ownership and comment authorship. The password
// is kept as received; hardening it is outside this service's scope.
type User struct {
	ID        uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	Username  string    `json:"username" gorm:"unique;not null"`
	Password  string    `json:"-" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}
