// Package validate holds the form rule tables for registration, login, and
// post submission. Each check is a pure function over the submitted fields.
// It returns the sanitized fields plus an ordered list of error messages and
// writes nothing. All rules run even after an earlier one fails, so a single
// pass can report every problem with the form.
package validate

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

// InvalidCredentials is the one message used for every login failure, so a
// response never reveals whether the username or the password was wrong.
const InvalidCredentials = "Invalid username / password."

// MsgUsernameTaken is shared between the pre-insert check and the handler's
// translation of the store's unique-constraint violation.
const MsgUsernameTaken = "Username already taken."

var (
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9]+$`)

	// stripTags drops every tag and attribute, keeping only text content.
	stripTags = bluemonday.StrictPolicy()
)

type RegistrationForm struct {
	Username string
	Password string
}

type LoginForm struct {
	Username string
	Password string
}

type PostForm struct {
	Title string
	Body  string
}

// Registration checks a registration form. Username uniqueness is looked up
// through the injected taken callback; a callback failure aborts validation
// and is returned as the error.
func Registration(form RegistrationForm, taken func(username string) (bool, error)) (RegistrationForm, []string, error) {
	var errs []string
	form.Username = strings.TrimSpace(form.Username)

	if form.Username == "" {
		errs = append(errs, "You must provide a username")
	}
	if form.Username != "" && utf8.RuneCountInString(form.Username) < 3 {
		errs = append(errs, "Username must be at least 3 characters.")
	}
	if form.Username != "" && utf8.RuneCountInString(form.Username) > 10 {
		errs = append(errs, "Username cannot exceed 10 characters.")
	}
	if form.Username != "" && !usernamePattern.MatchString(form.Username) {
		errs = append(errs, "Username can only contain letters and numbers.")
	}
	if form.Username != "" {
		exists, err := taken(form.Username)
		if err != nil {
			return form, nil, err
		}
		if exists {
			errs = append(errs, MsgUsernameTaken)
		}
	}

	if form.Password == "" {
		errs = append(errs, "You must provide a password.")
	}
	if form.Password != "" && utf8.RuneCountInString(form.Password) < 3 {
		errs = append(errs, "Password must be at least 3 characters.")
	}
	if form.Password != "" && utf8.RuneCountInString(form.Password) > 10 {
		errs = append(errs, "Password cannot exceed 10 characters.")
	}

	return form, errs, nil
}

// Login checks a login form. Any missing field collapses into the single
// generic credentials error.
func Login(form LoginForm) (LoginForm, []string) {
	if strings.TrimSpace(form.Username) == "" || form.Password == "" {
		return form, []string{InvalidCredentials}
	}
	return form, nil
}

// Post sanitizes and checks a post form. Fields are trimmed and stripped of
// all markup before the required checks, so a value that is only tags counts
// as missing.
func Post(form PostForm) (PostForm, []string) {
	var errs []string
	form.Title = strings.TrimSpace(stripTags.Sanitize(strings.TrimSpace(form.Title)))
	form.Body = strings.TrimSpace(stripTags.Sanitize(strings.TrimSpace(form.Body)))

	if form.Title == "" {
		errs = append(errs, "You must provide a title.")
	}
	if form.Body == "" {
		errs = append(errs, "You must provide content.")
	}
	return form, errs
}
