// Package views holds the HTML templates. Every page is parsed together with
// the shared layout and partials and rendered through the "layout" template.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"

	"inkwell/app/models"
)

//go:embed *.html
var files embed.FS

var pages = []string{
	"index",
	"post",
	"post_form",
	"login",
	"register",
	"profile",
	"admin",
	"admin_posts",
	"admin_users",
	"admin_comments",
	"about",
	"contact",
	"error",
}

// Page is the data every template receives.
type Page struct {
	Title   string
	User    *models.User
	Flashes []string
	Errors  map[string]string
	Data    any
}

// Templates maps a page name to its parsed template set.
type Templates map[string]*template.Template

// Parse loads the embedded templates.
func Parse() (Templates, error) {
	return ParseFS(files)
}

// ParseFS loads the page templates from fsys.
func ParseFS(fsys fs.FS) (Templates, error) {
	t := make(Templates, len(pages))
	for _, name := range pages {
		tpl, err := template.New(name).ParseFS(fsys, "layout.html", "partials.html", name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
		t[name] = tpl
	}
	return t, nil
}

// Render executes the named page into w. Output is buffered so a failing
// template never leaves a half-written response.
func (t Templates) Render(w io.Writer, name string, page Page) error {
	tpl, ok := t[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}
	var buf bytes.Buffer
	if err := tpl.ExecuteTemplate(&buf, "layout", page); err != nil {
		return err
	}
	_, err := buf.WriteTo(w)
	return err
}
