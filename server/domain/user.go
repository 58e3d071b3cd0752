package domain

import "time"

type User struct {
	ID           int
	Username     string
	PasswordHash string
	Banned       bool
	CreatedAt    time.Time
}
