package site

import (
	"net/http"
	"time"

	"quill/config"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"gorm.io/gorm"
)

type Site struct {
	db  *gorm.DB
	cfg *config.Config
}

func New(db *gorm.DB, cfg *config.Config) *Site {
	return &Site{db: db, cfg: cfg}
}

func (s *Site) Router() *chi.Mux {
	r := chi.NewRouter()

	CORSMiddleware := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	})

	r.Use(CORSMiddleware.Handler)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(httprate.LimitByIP(100, time.Minute)) // general rate limiter for all routes (shared across all routes)
	r.Use(middleware.Recoverer)
	r.Use(s.TryPutUserInContextMiddleware)

	r.Get("/", s.Home)
	r.Get("/about", s.About)
	r.Get("/contact", s.Contact)

	r.HandleFunc("/post/{postID}", s.ViewPost)

	r.HandleFunc("/register", s.Register)
	r.HandleFunc("/log-in", s.Login)
	r.Get("/logout", s.Logout)

	r.Group(func(r chi.Router) {
		r.Use(s.AdminOnlyMiddleware)

		r.HandleFunc("/create-post", s.CreatePost)
		r.HandleFunc("/edit-post/{postID}", s.EditPost)
		r.HandleFunc("/delete-post/{postID}", s.DeletePost)
	})

	fileServer := http.FileServer(http.Dir("./assets"))
	r.Handle("/assets/*", http.StripPrefix("/assets", fileServer))

	return r
}
