package server

import (
	"database/sql"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"ourapp/internal/auth"
	"ourapp/internal/models"
	"ourapp/internal/validate"
)

type Server struct {
	DB     *sql.DB
	Hasher *auth.Hasher
	Tokens *auth.TokenService
	Logger *slog.Logger

	tmpl    map[string]*template.Template
	handler http.Handler

	CookieName string
}

func New(db *sql.DB, hasher *auth.Hasher, tokens *auth.TokenService, logger *slog.Logger, templateDir string) (*Server, error) {
	templates := map[string]*template.Template{}
	layout := filepath.Join(templateDir, "layout.html")
	pages, err := filepath.Glob(filepath.Join(templateDir, "*.html"))
	if err != nil {
		return nil, err
	}
	for _, page := range pages {
		if filepath.Base(page) == "layout.html" {
			continue
		}
		t, err := template.ParseFiles(layout, page)
		if err != nil {
			return nil, err
		}
		name := strings.TrimSuffix(filepath.Base(page), ".html")
		templates[name] = t
	}
	s := &Server{
		DB:         db,
		Hasher:     hasher,
		Tokens:     tokens,
		Logger:     logger,
		tmpl:       templates,
		CookieName: "ourSimpleApp",
	}
	s.handler = s.routes()
	return s, nil
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/register", s.handleRegister)
	mux.HandleFunc("/login", s.handleLogin)
	mux.HandleFunc("/logout", s.handleLogout)
	mux.HandleFunc("/create-post", s.requireSession(s.handleCreatePost))
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir("web/static"))))
	return s.logRequests(s.withSession(mux))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) render(w http.ResponseWriter, name string, data map[string]any) {
	t, ok := s.tmpl[name]
	if !ok {
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}
	if err := t.ExecuteTemplate(w, "layout", data); err != nil {
		http.Error(w, "render error", http.StatusInternalServerError)
	}
}

func (s *Server) serverError(w http.ResponseWriter, err error) {
	s.Logger.Error("server error", "err", err)
	http.Error(w, "something went wrong", http.StatusInternalServerError)
}

func (s *Server) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.Tokens.TTL().Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.CookieName,
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
}

// handleIndex renders the dashboard for a signed-in user and the homepage
// (which carries the registration form) for everyone else.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	ident := identityFrom(r.Context())
	if !ident.LoggedIn {
		s.render(w, "homepage", map[string]any{"User": ident})
		return
	}
	posts, err := models.ListPostsByAuthor(s.DB, ident.UserID)
	if err != nil {
		s.serverError(w, err)
		return
	}
	s.render(w, "dashboard", map[string]any{"User": ident, "Posts": posts})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	ident := identityFrom(r.Context())
	form := validate.RegistrationForm{
		Username: r.FormValue("username"),
		Password: r.FormValue("password"),
	}
	taken := func(username string) (bool, error) {
		return models.UsernameTaken(s.DB, username)
	}
	form, errs, err := validate.Registration(form, taken)
	if err != nil {
		s.serverError(w, err)
		return
	}
	if len(errs) > 0 {
		s.render(w, "homepage", map[string]any{"Errors": errs, "Form": form, "User": ident})
		return
	}

	hash, err := s.Hasher.Hash(form.Password)
	if err != nil {
		s.serverError(w, err)
		return
	}
	id, err := models.CreateUser(s.DB, form.Username, hash)
	if err != nil {
		// The pre-check and the insert race; the constraint is the backstop.
		if errors.Is(err, models.ErrDuplicateUsername) {
			s.render(w, "homepage", map[string]any{
				"Errors": []string{validate.MsgUsernameTaken},
				"Form":   form,
				"User":   ident,
			})
			return
		}
		s.serverError(w, err)
		return
	}

	token, err := s.Tokens.Issue(id, form.Username)
	if err != nil {
		s.serverError(w, err)
		return
	}
	s.setSessionCookie(w, token)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.render(w, "login", map[string]any{"User": identityFrom(r.Context())})

	case http.MethodPost:
		ident := identityFrom(r.Context())
		form, errs := validate.Login(validate.LoginForm{
			Username: r.FormValue("username"),
			Password: r.FormValue("password"),
		})
		if len(errs) > 0 {
			s.render(w, "login", map[string]any{"Errors": errs, "Form": form, "User": ident})
			return
		}

		user, err := models.GetUserByUsername(s.DB, form.Username)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				s.renderLoginFailure(w, form, ident)
				return
			}
			s.serverError(w, err)
			return
		}
		if !s.Hasher.Verify(form.Password, user.PasswordHash) {
			s.renderLoginFailure(w, form, ident)
			return
		}

		token, err := s.Tokens.Issue(user.ID, user.Username)
		if err != nil {
			s.serverError(w, err)
			return
		}
		s.setSessionCookie(w, token)
		http.Redirect(w, r, "/", http.StatusSeeOther)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// renderLoginFailure reports the one generic message for a wrong username or
// a wrong password, so responses never reveal which accounts exist.
func (s *Server) renderLoginFailure(w http.ResponseWriter, form validate.LoginForm, ident Identity) {
	s.render(w, "login", map[string]any{
		"Errors": []string{validate.InvalidCredentials},
		"Form":   form,
		"User":   ident,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.clearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	ident := identityFrom(r.Context())
	switch r.Method {
	case http.MethodGet:
		s.render(w, "create-post", map[string]any{"User": ident})

	case http.MethodPost:
		submitted := validate.PostForm{
			Title: r.FormValue("title"),
			Body:  r.FormValue("body"),
		}
		form, errs := validate.Post(submitted)
		if len(errs) > 0 {
			// Re-render with what the user typed, not the sanitized copy.
			s.render(w, "create-post", map[string]any{"Errors": errs, "Form": submitted, "User": ident})
			return
		}
		if _, err := models.CreatePost(s.DB, ident.UserID, form.Title, form.Body); err != nil {
			s.serverError(w, err)
			return
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}
