// Package templates defines the document template contract and the registry
// that maps template identifiers to renderers.
//
// A template turns (doc type, profile, draft body) into a complete,
// print-ready HTML document. Cover letters render the body inside a
// letterhead; every other doc type renders a resume from the profile alone
// and ignores the body, so profile edits show up without re-synthesis.
// All user text is escaped by html/template before interpolation.
package templates

import (
	"fmt"
	"sort"
	"sync"

	"github.com/JOHNINDAKWA/coverly/pkg/models"
)

// DefaultID is the template used when an id is empty or unknown
const DefaultID = "sleek"

// Input is everything a template may read
type Input struct {
	DocType models.DocType
	Profile *models.Profile
	Body    string
}

// Template renders one document. Implementations must be pure: the same
// Input yields byte-identical output.
type Template interface {
	Render(in Input) (string, error)
}

// TemplateFunc adapts a plain function to the Template interface
type TemplateFunc func(in Input) (string, error)

// Render calls f(in)
func (f TemplateFunc) Render(in Input) (string, error) {
	return f(in)
}

// Request is the single entry point used by collaborators
type Request struct {
	TemplateID string
	DocType    models.DocType
	Profile    *models.Profile
	Body       string
}

// RenderError wraps a failure executing a template. It indicates a defect in
// the template itself, never bad user data.
type RenderError struct {
	Template string
	Cause    error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render template %q: %v", e.Template, e.Cause)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// Registry maps template ids to templates
type Registry struct {
	mu        sync.RWMutex
	templates map[string]Template
	defaultID string
}

// NewRegistry returns an empty registry falling back to defaultID
func NewRegistry(defaultID string) *Registry {
	if defaultID == "" {
		defaultID = DefaultID
	}
	return &Registry{
		templates: make(map[string]Template),
		defaultID: defaultID,
	}
}

// NewDefaultRegistry registers the built-in templates. origin qualifies the
// asset URLs embedded in rendered documents.
func NewDefaultRegistry(origin string) *Registry {
	r := NewRegistry(DefaultID)
	r.Register("sleek", Sleek(origin))
	r.Register("classic", Classic(origin))
	r.Register("modern", Modern(origin))
	return r
}

// Register adds or replaces the template for id
func (r *Registry) Register(id string, t Template) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.templates[id] = t
}

// DefaultID returns the id used for fallback resolution
func (r *Registry) DefaultID() string {
	return r.defaultID
}

// Has reports whether id is registered
func (r *Registry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.templates[id]
	return ok
}

// Resolve returns the template for id, or the default template when id is
// empty or unknown. It returns nil only when the default itself is missing.
func (r *Registry) Resolve(id string) Template {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if t, ok := r.templates[id]; ok {
		return t
	}
	return r.templates[r.defaultID]
}

// IDs lists registered template ids in sorted order
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.templates))
	for id := range r.templates {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Render resolves req.TemplateID and renders the document
func (r *Registry) Render(req Request) (string, error) {
	t := r.Resolve(req.TemplateID)
	if t == nil {
		return "", fmt.Errorf("no template %q and no default %q registered", req.TemplateID, r.defaultID)
	}
	p := req.Profile
	if p == nil {
		p = models.NewProfile()
	}
	return t.Render(Input{DocType: req.DocType, Profile: p, Body: req.Body})
}
