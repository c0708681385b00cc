package handler

import (
	"embed"
	"html/template"
	"log"
	"net/http"

	"voidchat/internal/transport/rest/middleware"
)

//go:embed templates/*.html
var templateFS embed.FS

// PageHandler renders the marketing pages and the chat shell.
type PageHandler struct {
	templates *template.Template
}

// NewPageHandler parses the embedded page templates.
func NewPageHandler() (*PageHandler, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &PageHandler{templates: tmpl}, nil
}

type pageData struct {
	Title         string
	Authenticated bool
	UserEmail     string
}

// Home handles GET /
func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "home.html", "Void — Ask the Ocean")
}

// About handles GET /about
func (h *PageHandler) About(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "about.html", "About Void")
}

// Chat handles GET /chat
func (h *PageHandler) Chat(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "chat.html", "Void")
}

func (h *PageHandler) render(w http.ResponseWriter, r *http.Request, name, title string) {
	sctx := middleware.GetSessionContext(r.Context())

	data := pageData{
		Title:         title,
		Authenticated: sctx.Authenticated(),
	}
	if sctx.User != nil {
		data.UserEmail = sctx.User.Email
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("[Pages] Failed to render %s: %v", name, err)
	}
}
