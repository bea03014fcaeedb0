package render

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/sitegen/internal/frontmatter"
)

// ErrMalformedContent indicates a page's frontmatter block was present
// but not well-formed. The page still renders with empty metadata and
// body; callers surface this as a warning.
var ErrMalformedContent = errors.New("malformed content metadata")

// ContentUnit is one content file being transformed into one output
// HTML file. It is transient: created per file, discarded after the
// render call.
type ContentUnit struct {
	SourcePath string
	BaseName   string
	Ext        string
	Meta       map[string]any
	Body       []byte
}

// TemplateName returns the template named by the unit's metadata, empty
// when the key is absent.
func (u *ContentUnit) TemplateName() string {
	if v, ok := u.Meta["template"]; ok {
		return strings.TrimSpace(fmt.Sprint(v))
	}
	return ""
}

// PageStatus enumerates the terminal states of one content unit.
type PageStatus string

const (
	StatusRendered        PageStatus = "rendered"
	StatusTemplateMissing PageStatus = "template_missing"
)

// PageResult is the per-page outcome of a render. Missing templates are
// a result variant rather than an error so the set of terminal states is
// visible in the type.
type PageResult struct {
	Unit    *ContentUnit
	Status  PageStatus
	Warning string
}

// RenderedPage is the minified HTML output plus the originating unit's
// path. It exists only long enough to be written to staging.
type RenderedPage struct {
	SourcePath string
	HTML       []byte
}

// Load reads the staged copy of a content file and splits it into
// metadata and body. Malformed frontmatter degrades to empty metadata
// and an empty body, reported via ErrMalformedContent.
func Load(path string) (*ContentUnit, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read content file: %w", err)
	}

	base := filepath.Base(path)
	ext := filepath.Ext(base)
	unit := &ContentUnit{
		SourcePath: path,
		BaseName:   strings.TrimSuffix(base, ext),
		Ext:        ext,
		Meta:       map[string]any{},
	}

	fm, body, had, err := frontmatter.Split(raw)
	if err != nil {
		return unit, fmt.Errorf("%w: %w", ErrMalformedContent, err)
	}
	unit.Body = body

	if had {
		meta, err := frontmatter.ParseYAML(fm)
		if err != nil {
			unit.Meta = map[string]any{}
			unit.Body = nil
			return unit, fmt.Errorf("%w: %w", ErrMalformedContent, err)
		}
		unit.Meta = meta
	}

	return unit, nil
}
