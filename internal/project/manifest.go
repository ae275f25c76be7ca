package project

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

var (
	// ErrBuildSectionMissing indicates that [build] is missing in loom.toml.
	ErrBuildSectionMissing = errors.New("missing [build]")
	// ErrBadValue indicates a value outside its allowed range.
	ErrBadValue = errors.New("invalid value")
)

// Manifest is a loaded loom.toml. Relative paths are resolved against Root.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Config mirrors the sections of loom.toml.
type Config struct {
	Build       BuildConfig       `toml:"build"`
	Link        LinkConfig        `toml:"link"`
	Plugins     PluginsConfig     `toml:"plugins"`
	Diagnostics DiagnosticsConfig `toml:"diagnostics"`
}

type BuildConfig struct {
	// Main overrides the main path carried by the feeds.
	Main  string   `toml:"main"`
	Feeds []string `toml:"feeds"`
}

type LinkConfig struct {
	Strict bool `toml:"strict"`
	Dedup  bool `toml:"dedup"`
}

type PluginsConfig struct {
	// Builtin loads hello/add/call/addMembers; on unless set to false.
	Builtin bool     `toml:"builtin"`
	Load    []string `toml:"load"`
}

type DiagnosticsConfig struct {
	Max    int    `toml:"max"`
	Format string `toml:"format"`
}

// DefaultConfig is what an absent manifest means.
func DefaultConfig() Config {
	return Config{
		Plugins:     PluginsConfig{Builtin: true},
		Diagnostics: DiagnosticsConfig{Format: "pretty"},
	}
}

// LoadManifest parses and validates loom.toml at path.
func LoadManifest(path string) (*Manifest, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	return &Manifest{Path: abs, Root: filepath.Dir(abs), Config: cfg}, nil
}

// LoadConfig decodes path over DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("build") {
		return Config{}, fmt.Errorf("%s: %w", path, ErrBuildSectionMissing)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	cfg.Build.Main = strings.TrimSpace(cfg.Build.Main)
	for i, f := range cfg.Build.Feeds {
		f = strings.TrimSpace(f)
		if f == "" {
			return Config{}, fmt.Errorf("%s: [build].feeds[%d] is empty: %w", path, i, ErrBadValue)
		}
		cfg.Build.Feeds[i] = f
	}
	if cfg.Diagnostics.Max < 0 {
		return Config{}, fmt.Errorf("%s: [diagnostics].max must not be negative: %w", path, ErrBadValue)
	}
	if meta.IsDefined("diagnostics", "format") {
		switch cfg.Diagnostics.Format {
		case "pretty", "json", "short":
		default:
			return Config{}, fmt.Errorf("%s: [diagnostics].format %q: %w", path, cfg.Diagnostics.Format, ErrBadValue)
		}
	}
	return cfg, nil
}

// Resolve makes p absolute relative to the manifest root.
func (m *Manifest) Resolve(p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(m.Root, filepath.FromSlash(p))
}

// FeedPaths returns the feed files named by [build].feeds, resolved.
func (m *Manifest) FeedPaths() []string {
	out := make([]string, len(m.Config.Build.Feeds))
	for i, f := range m.Config.Build.Feeds {
		out[i] = m.Resolve(f)
	}
	return out
}

// PluginPaths returns [plugins].load, resolved.
func (m *Manifest) PluginPaths() []string {
	out := make([]string, len(m.Config.Plugins.Load))
	for i, p := range m.Config.Plugins.Load {
		out[i] = m.Resolve(p)
	}
	return out
}
