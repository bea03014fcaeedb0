package pipeline

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/sitegen/internal/assets"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/render"
	"git.home.luguber.info/inful/sitegen/internal/styles"
)

// StageName is a strongly-typed identifier for a build stage. All
// canonical stages are declared as constants here for compile-time safety.
type StageName string

// Canonical stage names, in required execution order.
const (
	StageLoadTemplates StageName = "load_templates"
	StageLoadImages    StageName = "load_images"
	StageRenderPages   StageName = "render_pages"
	StagePosts         StageName = "posts"
	StageBuildStyles   StageName = "build_styles"
	StageCleanStaging  StageName = "clean_staging"
	StagePublish       StageName = "publish"
)

// Stage is one pipeline step operating on the shared build context.
type Stage func(bc *BuildContext) error

// StageDef pairs a stage name with its executing function.
type StageDef struct {
	Name StageName
	Fn   Stage
}

// PostsSubdir is the staged posts directory, currently always published
// empty.
const PostsSubdir = "posts"

func (c *Coordinator) stageLoadTemplates(bc *BuildContext) error {
	return assets.LoadTemplates(c.cfg.Paths.Templates, bc.Area)
}

// stageLoadImages is best-effort: a missing images directory degrades to
// an empty registry and a warning.
func (c *Coordinator) stageLoadImages(bc *BuildContext) error {
	registry, err := assets.LoadImages(c.cfg.Paths.Images)
	if err != nil {
		if errors.Is(err, assets.ErrAssetsUnavailable) {
			bc.Warn(err.Error())
			bc.Images = registry
			return nil
		}
		return err
	}
	bc.Images = registry
	return assets.StageImages(c.cfg.Paths.Images, registry, bc.Area)
}

func (c *Coordinator) stageRenderPages(bc *BuildContext) error {
	templatesDir, err := bc.Area.Resolve(assets.TemplatesSubdir)
	if err != nil {
		return err
	}
	templates, err := render.LoadTemplateSet(templatesDir)
	if err != nil {
		return err
	}
	bc.Templates = templates

	renderer := render.NewRenderer(templates, bc.Images)

	entries, err := os.ReadDir(c.cfg.Paths.Pages)
	if err != nil {
		if os.IsNotExist(err) {
			// A project without pages publishes assets and styles only.
			bc.Warn(fmt.Sprintf("pages directory not found: %s", c.cfg.Paths.Pages))
			return nil
		}
		return fmt.Errorf("failed to read pages directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !render.IsMarkdown(entry.Name()) {
			continue
		}
		if err := c.renderPage(bc, renderer, entry.Name()); err != nil {
			return err
		}
	}
	return nil
}

// renderPage stages one source page and takes it through
// load/render/minify/write. Missing templates and malformed metadata are
// per-page warnings, not build aborts.
func (c *Coordinator) renderPage(bc *BuildContext, renderer *render.Renderer, name string) error {
	src := filepath.Join(c.cfg.Paths.Pages, name)
	staged, err := bc.Area.Resolve(name)
	if err != nil {
		return err
	}
	if err := copyFile(src, staged); err != nil {
		return fmt.Errorf("failed to stage page %s: %w", name, err)
	}

	unit, err := render.Load(staged)
	if err != nil {
		if !errors.Is(err, render.ErrMalformedContent) {
			return err
		}
		bc.Warn(err.Error())
	}

	result, page, err := renderer.Render(unit)
	if err != nil {
		return err
	}
	if result.Status == render.StatusTemplateMissing {
		bc.Warn(result.Warning)
		c.recorder.IncPageSkipped()
		return nil
	}

	out, err := bc.Area.Resolve(unit.BaseName + ".html")
	if err != nil {
		return err
	}
	if err := renderer.Write(out, page); err != nil {
		return err
	}
	c.recorder.IncPageRendered()
	slog.Debug("Rendered page", logfields.Page(unit.BaseName))
	return nil
}

// stagePosts reproduces the empty posts directory in every published
// site. Post processing itself is not implemented yet.
func (c *Coordinator) stagePosts(bc *BuildContext) error {
	_, err := bc.Area.Mkdir(PostsSubdir)
	return err
}

func (c *Coordinator) stageBuildStyles(bc *BuildContext) error {
	return styles.Stage(c.cfg.Paths.Styles, c.compiler, bc.Area)
}

// stageCleanStaging removes transient source artifacts so only output
// reaches the live directory: staged markdown sources and the staged
// templates copy.
func (c *Coordinator) stageCleanStaging(bc *BuildContext) error {
	root := bc.Area.Path()
	entries, err := os.ReadDir(root)
	if err != nil {
		return fmt.Errorf("failed to read staging directory: %w", err)
	}

	keep := map[string]bool{
		assets.ImagesSubdir: true,
		styles.StylesSubdir: true,
		PostsSubdir:         true,
	}

	for _, entry := range entries {
		path := filepath.Join(root, entry.Name())
		if entry.IsDir() {
			if keep[entry.Name()] {
				continue
			}
			if err := os.RemoveAll(path); err != nil {
				return fmt.Errorf("failed to clean staged directory %s: %w", entry.Name(), err)
			}
			continue
		}
		if render.IsMarkdown(entry.Name()) {
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("failed to clean staged source %s: %w", entry.Name(), err)
			}
		}
	}
	return nil
}

func (c *Coordinator) stagePublish(bc *BuildContext) error {
	site, err := publish(bc.Area, c.cfg.Paths.Output)
	if err != nil {
		return err
	}
	bc.SitePath = site
	return nil
}
