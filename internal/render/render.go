// Package render implements echo.Renderer over the embedded HTML templates.
package render

import (
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"strings"

	"cafe-finder/internal/forms"
	"cafe-finder/internal/middleware"
	"cafe-finder/internal/model"
	"cafe-finder/internal/session"
	"cafe-finder/web"

	"github.com/labstack/echo/v4"
)

// View is the root object every page template receives.
type View struct {
	User    *model.User
	Flashes []model.Flash
	CSRF    string // 表單以 csrf_field 帶回
	Data    any
}

// Field is the argument of the text_field/textarea_field partials.
type Field struct {
	Name   string
	Label  string
	Type   string
	Value  string
	Errors []string
}

type Renderer struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"field": func(name, label, value string, errs forms.Errors) Field {
		return Field{Name: name, Label: label, Value: value, Errors: errs[name]}
	},
	"password": func(name, label string, errs forms.Errors) Field {
		return Field{Name: name, Label: label, Type: "password", Errors: errs[name]}
	},
}

// New parses every page under templates/ together with the layout and partials.
func New() (*Renderer, error) {
	return newFromFS(web.Templates)
}

func newFromFS(fsys fs.FS) (*Renderer, error) {
	r := &Renderer{pages: map[string]*template.Template{}}
	err := fs.WalkDir(fsys, "templates", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".html") {
			return nil
		}
		name := strings.TrimPrefix(path, "templates/")
		if name == "base.html" || name == "partials.html" {
			return nil
		}
		t, err := template.New(name).Funcs(funcs).ParseFS(fsys,
			"templates/base.html",
			"templates/partials.html",
			path,
		)
		if err != nil {
			return fmt.Errorf("parse %s: %w", name, err)
		}
		r.pages[name] = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Render executes page name inside the layout. Pending flashes are consumed
// here, so they show exactly once.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("render: unknown template %q", name)
	}
	view := View{Data: data, CSRF: middleware.CSRFToken(c)}
	if u, ok := session.CurrentUser(c); ok {
		view.User = u
	}
	view.Flashes = session.PopFlashes(c)
	return t.ExecuteTemplate(w, "base", view)
}
