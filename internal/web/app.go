// Package web serves the dashboard page and its about page.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/rs/zerolog/log"
)

//go:embed templates/*.html static/* about.md
var embeddedFiles embed.FS

// Config holds dashboard settings shown to the browser
type Config struct {
	Title        string
	SmoothWindow int
	SmoothOrder  int
	MaxUpload    int64
}

// App renders the dashboard pages
type App struct {
	cfg       Config
	templates *template.Template
	about     template.HTML
}

type pageData struct {
	Config
	About template.HTML
}

// NewApp parses the embedded templates and renders the about page once
func NewApp(cfg Config) (*App, error) {
	if cfg.Title == "" {
		cfg.Title = "specplot"
	}

	templates, err := template.New("").ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	md, err := embeddedFiles.ReadFile("about.md")
	if err != nil {
		return nil, fmt.Errorf("failed to read about page: %w", err)
	}

	return &App{cfg: cfg, templates: templates, about: RenderMarkdown(md)}, nil
}

// RenderMarkdown converts markdown to HTML
func RenderMarkdown(md []byte) template.HTML {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	r := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags | mdhtml.HrefTargetBlank})
	return template.HTML(markdown.ToHTML(md, p, r))
}

// Routes mounts the pages and static assets on r
func (a *App) Routes(r chi.Router) {
	static, _ := fs.Sub(embeddedFiles, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	r.Get("/", a.handleIndex)
	r.Get("/about", a.handleAbout)
}

func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	a.renderTemplate(w, "index.html", pageData{Config: a.cfg})
}

func (a *App) handleAbout(w http.ResponseWriter, r *http.Request) {
	a.renderTemplate(w, "about.html", pageData{Config: a.cfg, About: a.about})
}

func (a *App) renderTemplate(w http.ResponseWriter, name string, data pageData) {
	var buf bytes.Buffer
	if err := a.templates.ExecuteTemplate(&buf, name, data); err != nil {
		log.Error().Err(err).Str("template", name).Msg("template error")
		http.Error(w, "Template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
