// Package templates is the markup collaborator for the rendering engine.
// The engine owns no template files; it supplies a context map and receives
// final markup. Production uses the embedded templates; tests can substitute
// any Provider.
package templates

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"sync"
)

//go:embed *.tmpl
var templateFS embed.FS

// Provider abstracts template loading and execution.
type Provider interface {
	// GetTemplate returns a parsed template by file name.
	GetTemplate(name string) (*template.Template, error)
	// ExecuteTemplate executes a template with the given data.
	ExecuteTemplate(w io.Writer, name string, data any) error
}

// Embedded serves templates compiled into the binary.
type Embedded struct {
	mu    sync.Mutex
	cache map[string]*template.Template
}

// NewEmbedded returns a Provider over the embedded template files.
func NewEmbedded() *Embedded {
	return &Embedded{cache: make(map[string]*template.Template)}
}

// GetTemplate parses and caches a template from the embedded FS.
func (p *Embedded) GetTemplate(name string) (*template.Template, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if t, ok := p.cache[name]; ok {
		return t, nil
	}
	t, err := template.ParseFS(templateFS, name)
	if err != nil {
		return nil, fmt.Errorf("parse template %q: %w", name, err)
	}
	p.cache[name] = t
	return t, nil
}

// ExecuteTemplate executes the named embedded template.
func (p *Embedded) ExecuteTemplate(w io.Writer, name string, data any) error {
	t, err := p.GetTemplate(name)
	if err != nil {
		return err
	}
	if err := t.Execute(w, data); err != nil {
		return fmt.Errorf("execute template %q: %w", name, err)
	}
	return nil
}
