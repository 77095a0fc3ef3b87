// Package narrative holds the fixed commentary printed after each report
// section. The text is embedded at build time and never computed from data.
package narrative

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"
)

//go:embed text/*.md
var texts embed.FS

// ErrUnknown is returned for a block id without embedded text.
var ErrUnknown = errors.New("unknown narrative block")

// Text returns the markdown block for id.
func Text(id string) (string, error) {
	b, err := texts.ReadFile("text/" + id + ".md")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrUnknown, id)
		}
		return "", err
	}
	return string(b), nil
}

// IDs lists the available blocks.
func IDs() []string {
	entries, _ := texts.ReadDir("text")
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, strings.TrimSuffix(e.Name(), ".md"))
	}
	sort.Strings(ids)
	return ids
}

// Styles accepted by NewRenderer.
var Styles = []string{"plain", "auto", "dark", "light", "notty"}

// Renderer turns a block into console text.
type Renderer struct {
	style string
	term  *glamour.TermRenderer
}

// NewRenderer builds a renderer. "plain" prints markdown verbatim; the other
// styles go through glamour with the given word wrap.
func NewRenderer(style string, width int) (*Renderer, error) {
	if width <= 0 {
		width = 80
	}
	r := &Renderer{style: style}
	var opt glamour.TermRendererOption
	switch style {
	case "", "plain":
		r.style = "plain"
		return r, nil
	case "auto":
		opt = glamour.WithAutoStyle()
	case "dark", "light", "notty":
		opt = glamour.WithStylePath(style)
	default:
		return nil, fmt.Errorf("unknown narrative style %q (use %s)", style, strings.Join(Styles, " | "))
	}
	term, err := glamour.NewTermRenderer(opt, glamour.WithWordWrap(width))
	if err != nil {
		return nil, fmt.Errorf("init markdown renderer: %w", err)
	}
	r.term = term
	return r, nil
}

// Render returns the styled block for id.
func (r *Renderer) Render(id string) (string, error) {
	md, err := Text(id)
	if err != nil {
		return "", err
	}
	if r.term == nil {
		return md, nil
	}
	out, err := r.term.Render(md)
	if err != nil {
		return "", fmt.Errorf("render %s: %w", id, err)
	}
	return out, nil
}
