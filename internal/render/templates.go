package render

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
)

// templateExt is the fixed extension templates are looked up with.
const templateExt = ".html"

// TemplateSet is the template-lookup service backed by the staged
// templates directory.
type TemplateSet struct {
	set *template.Template
}

// LoadTemplateSet parses every *.html file under dir into a lookup set.
// A directory without templates yields an empty set: every page then
// resolves to the missing-template variant.
func LoadTemplateSet(dir string) (*TemplateSet, error) {
	set := template.New("sitegen")

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read staged templates: %w", err)
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), templateExt) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}

	if len(files) > 0 {
		if set, err = set.ParseFiles(files...); err != nil {
			return nil, fmt.Errorf("failed to parse templates: %w", err)
		}
	}

	return &TemplateSet{set: set}, nil
}

// Lookup resolves a template by its metadata name (without extension).
// The second return is false when no such template exists.
func (t *TemplateSet) Lookup(name string) (*template.Template, bool) {
	if name == "" {
		return nil, false
	}
	tpl := t.set.Lookup(name + templateExt)
	return tpl, tpl != nil
}
