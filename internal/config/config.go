// Package config loads and scaffolds the sitegen project configuration.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents a sitegen project configuration.
type Config struct {
	Title string      `yaml:"title,omitempty"`
	Paths PathsConfig `yaml:"paths"`
	Build BuildConfig `yaml:"build"`
}

// PathsConfig names the source directories the pipeline reads and the
// live directory it publishes to. All paths are relative to the project
// root unless absolute.
type PathsConfig struct {
	Templates string `yaml:"templates"`
	Pages     string `yaml:"pages"`
	Images    string `yaml:"images"`
	Styles    string `yaml:"styles"`
	Output    string `yaml:"output"`
}

// BuildConfig holds build behavior knobs.
type BuildConfig struct {
	Mode    string `yaml:"mode,omitempty"` // "production" (default) or "development"
	Staging string `yaml:"staging,omitempty"`
}

// Build modes.
const (
	ModeProduction  = "production"
	ModeDevelopment = "development"
)

// Default source layout, matching the conventional underscore-prefixed
// project structure.
const (
	DefaultTemplatesDir = "_templates"
	DefaultPagesDir     = "_pages"
	DefaultImagesDir    = "_static/images"
	DefaultStylesDir    = "_static/styles"
	DefaultOutputDir    = "_website"
)

// Load loads configuration from the specified file, applying defaults
// for any omitted field. A .env file is overlaid first so config values
// may reference environment variables via ${VAR} expansion.
func Load(configPath string) (*Config, error) {
	// Missing .env is fine; builds usually run without one.
	_ = godotenv.Load()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.applyDefaults()

	if out := os.Getenv("SITEGEN_OUTPUT"); out != "" {
		cfg.Paths.Output = out
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Title == "" {
		c.Title = "My Site"
	}
	if c.Paths.Templates == "" {
		c.Paths.Templates = DefaultTemplatesDir
	}
	if c.Paths.Pages == "" {
		c.Paths.Pages = DefaultPagesDir
	}
	if c.Paths.Images == "" {
		c.Paths.Images = DefaultImagesDir
	}
	if c.Paths.Styles == "" {
		c.Paths.Styles = DefaultStylesDir
	}
	if c.Paths.Output == "" {
		c.Paths.Output = DefaultOutputDir
	}
	if c.Build.Mode == "" {
		c.Build.Mode = ModeProduction
	}
	if c.Build.Staging == "" {
		c.Build.Staging = "."
	}
}

// Init creates a new configuration file with example content and the
// source directories it references.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	example := Config{
		Title: "My Site",
		Paths: PathsConfig{
			Templates: DefaultTemplatesDir,
			Pages:     DefaultPagesDir,
			Images:    DefaultImagesDir,
			Styles:    DefaultStylesDir,
			Output:    DefaultOutputDir,
		},
		Build: BuildConfig{Mode: ModeProduction},
	}

	data, err := yaml.Marshal(&example)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	for _, dir := range []string{example.Paths.Templates, example.Paths.Pages, example.Paths.Images, example.Paths.Styles} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create source directory %s: %w", dir, err)
		}
	}

	return nil
}
