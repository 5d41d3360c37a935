package models

import (
	"time"
)

// User represents an author account
type User struct {
	Username  string    `json:"username" db:"username" yaml:"username"`
	Nickname  string    `json:"nickname" db:"nickname" yaml:"nickname"`
	CreatedAt time.Time `json:"created_at" db:"created_at" yaml:"-"`
}
