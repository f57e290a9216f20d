package site

import (
	"log"
	"math/rand"
	"net/http"
	"net/url"
	"strings"

	"quill/constants"
	"quill/database"
	"quill/templates"

	"golang.org/x/crypto/bcrypt"
)

// loginRedirectURL builds the /log-in URL with the optional error message
// and email carried as query parameters, so the login page can display the
// message and pre-fill the email field.
func loginRedirectURL(errorMessage, email string) string {
	params := url.Values{}
	if errorMessage != "" {
		params.Set("er", errorMessage)
	}
	if email != "" {
		params.Set("email", email)
	}
	if len(params) == 0 {
		return "/log-in"
	}
	return "/log-in?" + params.Encode()
}

func (s *Site) Register(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		if CurrentUser(r) != nil {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		s.renderPage(w, r, "Register", templates.RegisterPage(""))

	case http.MethodPost:
		name := strings.TrimSpace(r.FormValue("name"))
		email := strings.TrimSpace(r.FormValue("email"))
		password := r.FormValue("password")

		if name == "" || email == "" || password == "" {
			w.WriteHeader(http.StatusBadRequest)
			s.renderPage(w, r, "Register", templates.RegisterPage("All fields are required."))
			return
		}
		if !strings.Contains(email, "@") {
			w.WriteHeader(http.StatusBadRequest)
			s.renderPage(w, r, "Register", templates.RegisterPage("That doesn't look like an email address."))
			return
		}

		existing, err := database.UserByEmail(s.db, email)
		if err != nil {
			http.Error(w, "Error creating account: "+err.Error(), http.StatusInternalServerError)
			return
		}
		if existing != nil {
			http.Redirect(w, r, loginRedirectURL("You already have an account with this email.", email), http.StatusSeeOther)
			return
		}

		passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			http.Error(w, "Error creating account: "+err.Error(), http.StatusInternalServerError)
			return
		}

		// The first account to register becomes the administrator.
		userCount, err := database.CountUsers(s.db)
		if err != nil {
			http.Error(w, "Error creating account: "+err.Error(), http.StatusInternalServerError)
			return
		}

		newUser := database.User{
			Name:         name,
			Email:        email,
			PasswordHash: passwordHash,
			AvatarStyle:  constants.GRAVATAR_STYLES[rand.Intn(len(constants.GRAVATAR_STYLES))],
			IsAdmin:      userCount == 0,
		}

		result := s.db.Create(&newUser)
		if result.Error != nil {
			http.Error(w, "Error creating account: "+result.Error.Error(), http.StatusInternalServerError)
			return
		}

		http.Redirect(w, r, loginRedirectURL("", email), http.StatusSeeOther)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Site) Login(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		if CurrentUser(r) != nil {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		email := r.URL.Query().Get("email")
		errorMessage := r.URL.Query().Get("er")
		s.renderPage(w, r, "Log In", templates.LoginPage(email, errorMessage))

	case http.MethodPost:
		email := strings.TrimSpace(r.FormValue("email"))
		password := r.FormValue("password")

		user, err := database.UserByEmail(s.db, email)
		if err != nil {
			http.Error(w, "Error signing in", http.StatusInternalServerError)
			return
		}
		if user == nil {
			http.Redirect(w, r, loginRedirectURL("Invalid email. Please make sure you wrote the right email.", ""), http.StatusSeeOther)
			return
		}

		if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)) != nil {
			http.Redirect(w, r, loginRedirectURL("Please make sure you wrote the right password.", email), http.StatusSeeOther)
			return
		}

		// Generate a new token for the session
		token, err := generateAuthToken()
		if err != nil {
			http.Error(w, "Error signing in", http.StatusInternalServerError)
			return
		}

		user.SessionToken = token
		if result := s.db.Save(user); result.Error != nil {
			http.Error(w, "Error signing in", http.StatusInternalServerError)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     SessionTokenCookieName,
			Value:    token,
			Path:     "/",
			HttpOnly: true,
		})

		http.Redirect(w, r, "/", http.StatusSeeOther)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Site) Logout(w http.ResponseWriter, r *http.Request) {
	if user := CurrentUser(r); user != nil {
		user.SessionToken = ""
		if result := s.db.Save(user); result.Error != nil {
			log.Printf("Failed to clear session token: %v", result.Error)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:   SessionTokenCookieName,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
