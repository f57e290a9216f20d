package site

import (
	"log"
	"net/http"
	"time"

	"quill/templates"

	g "github.com/maragudk/gomponents"
)

func (s *Site) renderPage(w http.ResponseWriter, r *http.Request, title string, children ...g.Node) {
	props := templates.LayoutProps{
		Title:    title + " | " + s.cfg.SiteName,
		SiteName: s.cfg.SiteName,
		Year:     time.Now().Year(),
	}

	if user := CurrentUser(r); user != nil {
		props.CurrentUser = user.Name
		props.IsAdmin = user.IsAdmin
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.Layout(props, children...).Render(w); err != nil {
		log.Printf("Template execution error: %v", err)
	}
}
