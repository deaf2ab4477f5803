package models

import "time"

type User struct {
	ID           int64
	Username     string
	PasswordHash string
}

type Post struct {
	ID          int64
	Title       string
	Body        string
	AuthorID    int64
	CreatedDate time.Time
}
