// Package render turns staged content files into staged HTML pages:
// frontmatter split, Markdown conversion, template rendering, and
// minification.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"strings"

	"github.com/tdewolff/minify/v2"
	minhtml "github.com/tdewolff/minify/v2/html"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"git.home.luguber.info/inful/sitegen/internal/assets"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
)

// pageData is the input every template is invoked with.
type pageData struct {
	Content template.HTML
	Page    map[string]any
	Images  assets.ImageRegistry
}

// Renderer renders content units against a template set and image
// registry. The registry is treated as read-only once rendering begins.
type Renderer struct {
	md        goldmark.Markdown
	templates *TemplateSet
	images    assets.ImageRegistry
	minifier  *minify.M
}

// NewRenderer creates a Renderer over the given template set and image registry.
func NewRenderer(templates *TemplateSet, images assets.ImageRegistry) *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(
			gmhtml.WithUnsafe(), // pages may embed raw HTML
		),
	)

	m := minify.New()
	m.Add("text/html", &minhtml.Minifier{
		KeepDocumentTags: true,
		KeepEndTags:      true,
		// Comments stripped, whitespace collapsed (not removed), default
		// attribute values dropped, optional attribute quotes removed:
		// all minifier defaults.
	})

	return &Renderer{md: md, templates: templates, images: images, minifier: m}
}

// Render takes a loaded unit through template rendering. A template the
// lookup service does not know yields StatusTemplateMissing; the caller
// continues with the next unit.
func (r *Renderer) Render(unit *ContentUnit) (PageResult, *RenderedPage, error) {
	var buf bytes.Buffer
	if err := r.md.Convert(unit.Body, &buf); err != nil {
		return PageResult{}, nil, fmt.Errorf("failed to convert markdown for %s: %w", unit.SourcePath, err)
	}

	body := strings.ReplaceAll(buf.String(), "\n\n", "\n")
	body = strings.TrimRight(body, " \t\r\n")

	name := unit.TemplateName()
	tpl, ok := r.templates.Lookup(name)
	if !ok {
		warning := fmt.Sprintf("could not build %s: template %q not found", unit.BaseName, name)
		slog.Warn("Skipping page, template not found",
			logfields.Page(unit.BaseName), logfields.Template(name))
		return PageResult{Unit: unit, Status: StatusTemplateMissing, Warning: warning}, nil, nil
	}

	var out bytes.Buffer
	data := pageData{Content: template.HTML(body), Page: unit.Meta, Images: r.images}
	if err := tpl.Execute(&out, data); err != nil {
		return PageResult{}, nil, fmt.Errorf("failed to render template %q for %s: %w", name, unit.BaseName, err)
	}

	minified, err := r.Minify(out.Bytes())
	if err != nil {
		return PageResult{}, nil, fmt.Errorf("failed to minify %s: %w", unit.BaseName, err)
	}

	page := &RenderedPage{SourcePath: unit.SourcePath, HTML: minified}
	return PageResult{Unit: unit, Status: StatusRendered}, page, nil
}

// Minify passes HTML through the minification collaborator.
func (r *Renderer) Minify(html []byte) ([]byte, error) {
	return r.minifier.Bytes("text/html", html)
}

// Write writes the minified page to path.
func (r *Renderer) Write(path string, page *RenderedPage) error {
	if err := os.WriteFile(path, page.HTML, 0o644); err != nil {
		return fmt.Errorf("failed to write rendered page: %w", err)
	}
	return nil
}

// MarkdownExtensions lists the content file extensions the renderer recognizes.
var MarkdownExtensions = []string{".md", ".markdown"}

// IsMarkdown reports whether name carries a recognized markdown extension.
func IsMarkdown(name string) bool {
	for _, ext := range MarkdownExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}
