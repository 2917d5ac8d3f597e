package handler

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"github.com/Temutjin2k/safebike-web/internal/domain/models"
	"github.com/Temutjin2k/safebike-web/internal/domain/types"
	"github.com/Temutjin2k/safebike-web/internal/guard"
)

//go:embed templates/*.html
var templateFS embed.FS

const layoutTemplate = "layout.html"

// mdRenderer escapes raw HTML found in descriptions; WithUnsafe is not set.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// page is the data every template receives.
type page struct {
	Title  string
	Menu   []guard.Link
	User   *models.Identity
	CSRF   template.HTML
	Notice string
	Error  string
	Fields map[string]string
	Data   any
}

// Field returns the validation message of one form field.
func (p page) Field(name string) string {
	return p.Fields[name]
}

// Views holds one parsed template set per page, each combined with the layout.
type Views struct {
	pages map[string]*template.Template
}

func NewViews() (*Views, error) {
	funcs := template.FuncMap{
		"markdown":    renderMarkdown,
		"money":       func(v float64) string { return fmt.Sprintf("$%.2f", v) },
		"date":        formatDate,
		"statusLabel": statusLabel,
		"statusColor": func(s types.PackageStatus) string { return s.Color() },
		"statuses":    func() []types.PackageStatus { return types.AllStatuses },
	}

	names, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	v := &Views{pages: make(map[string]*template.Template, len(names))}
	for _, path := range names {
		name := strings.TrimPrefix(path, "templates/")
		if name == layoutTemplate {
			continue
		}

		t, err := template.New(layoutTemplate).Funcs(funcs).ParseFS(templateFS, "templates/"+layoutTemplate, path)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		v.pages[name] = t
	}
	return v, nil
}

// Render executes the page into a buffer and only then writes the response.
func (v *Views) Render(w http.ResponseWriter, status int, name string, p page) error {
	t, ok := v.pages[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, p); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

func renderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(buf.String())
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("Jan 2, 2006 15:04")
}

// statusLabel turns PICKED_UP into "Picked up".
func statusLabel(s types.PackageStatus) string {
	label := strings.ToLower(strings.ReplaceAll(s.String(), "_", " "))
	if label == "" {
		return "Unknown"
	}
	return strings.ToUpper(label[:1]) + label[1:]
}
