// Package web holds the server rendered pages and the static assets, both
// embedded into the binary.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

const layout = "templates/layout.html"

// Static returns the static asset tree rooted at static/.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

var printer = message.NewPrinter(language.MustParse("es-MX"))

var funcs = template.FuncMap{
	"price": func(v float64) string {
		return printer.Sprint(currency.Symbol(currency.MXN.Amount(v)))
	},
	"date": func(t time.Time) string {
		return t.UTC().Format("02/01/2006 15:04 UTC")
	},
	"deref": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
}

// Renderer renders the embedded page templates. Every page is parsed
// together with the shared layout.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses all page templates.
func NewRenderer() (*Renderer, error) {
	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	r := &Renderer{pages: map[string]*template.Template{}}
	for _, file := range files {
		if file == layout {
			continue
		}

		t, err := template.New(path.Base(layout)).Funcs(funcs).ParseFS(templateFS, layout, file)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", file, err)
		}
		r.pages[path.Base(file)] = t
	}

	return r, nil
}

// Render implements echo.Renderer.
func (r *Renderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}
	return t.ExecuteTemplate(w, "layout", data)
}
