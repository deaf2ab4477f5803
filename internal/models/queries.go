package models

import (
	"database/sql"
	"errors"
	"strings"
)

// ErrDuplicateUsername reports a violation of the users.username UNIQUE
// constraint. The pre-insert existence check and the insert are not atomic,
// so callers must handle this even after checking.
var ErrDuplicateUsername = errors.New("username already exists")

func CreateUser(db *sql.DB, username, passwordHash string) (int64, error) {
	res, err := db.Exec(`INSERT INTO users (username, password_hash) VALUES (?, ?)`, username, passwordHash)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: users.username") {
			return 0, ErrDuplicateUsername
		}
		return 0, err
	}
	return res.LastInsertId()
}

func GetUserByUsername(db *sql.DB, username string) (*User, error) {
	row := db.QueryRow(`SELECT id, username, password_hash FROM users WHERE username = ?`, username)
	var u User
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash); err != nil {
		return nil, err
	}
	return &u, nil
}

// UsernameTaken reports whether a user with exactly this username exists.
// The comparison is case-sensitive, matching the UNIQUE column collation.
func UsernameTaken(db *sql.DB, username string) (bool, error) {
	var n int
	err := db.QueryRow(`SELECT COUNT(1) FROM users WHERE username = ?`, username).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func CreatePost(db *sql.DB, authorID int64, title, body string) (int64, error) {
	res, err := db.Exec(`INSERT INTO posts (title, body, author_id) VALUES (?, ?, ?)`, title, body, authorID)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func ListPostsByAuthor(db *sql.DB, authorID int64) ([]Post, error) {
	rows, err := db.Query(`SELECT id, title, body, author_id, created_date FROM posts WHERE author_id = ? ORDER BY id DESC`, authorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var posts []Post
	for rows.Next() {
		var p Post
		if err := rows.Scan(&p.ID, &p.Title, &p.Body, &p.AuthorID, &p.CreatedDate); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}
