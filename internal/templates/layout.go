package templates

import (
	"bytes"
	"embed"
	"html/template"
	"strings"

	"github.com/JOHNINDAKWA/coverly/pkg/models"
)

//go:embed layouts/*.html
var layoutFS embed.FS

var funcs = template.FuncMap{
	"join": strings.Join,
}

// layout is an html/template backed Template. Each layout file defines a
// "cv" and a "letter" entry point; partials.html supplies shared sections.
type layout struct {
	id     string
	origin string
	tmpl   *template.Template
}

func newLayout(id, origin string) *layout {
	t := template.Must(template.New(id).Funcs(funcs).ParseFS(layoutFS,
		"layouts/partials.html",
		"layouts/"+id+".html",
	))
	return &layout{id: id, origin: origin, tmpl: t}
}

// Render executes the cv or letter entry point for in.DocType
func (l *layout) Render(in Input) (string, error) {
	entry := "cv"
	if in.DocType == models.DocTypeCoverLetter {
		entry = "letter"
	}

	var buf bytes.Buffer
	if err := l.tmpl.ExecuteTemplate(&buf, entry, newView(in, l.origin)); err != nil {
		return "", &RenderError{Template: l.id, Cause: err}
	}
	return buf.String(), nil
}

// Sleek is the reference layout: a single column with every section
func Sleek(origin string) Template {
	return newLayout("sleek", origin)
}

// Classic is a serif single column layout
func Classic(origin string) Template {
	return newLayout("classic", origin)
}

// Modern is a two column layout with a contact sidebar
func Modern(origin string) Template {
	return newLayout("modern", origin)
}
