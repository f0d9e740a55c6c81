package theme

import (
	"errors"
	"fmt"
	"maps"
	"sort"
	"strings"
	"sync"

	gotheme "github.com/goliatone/go-theme"
)

// ErrUnknownFramework is returned when no manifest matches the requested
// framework.
var ErrUnknownFramework = errors.New("theme: unknown framework")

// ManifestSelector is a gotheme.ThemeSelector over registered manifests.
type ManifestSelector struct {
	mu        sync.RWMutex
	manifests map[string]*gotheme.Manifest
}

var _ gotheme.ThemeSelector = (*ManifestSelector)(nil)

// NewManifestSelector returns a selector preloaded with manifests.
func NewManifestSelector(manifests ...*gotheme.Manifest) *ManifestSelector {
	s := &ManifestSelector{manifests: make(map[string]*gotheme.Manifest)}
	for _, manifest := range manifests {
		_ = s.Register(manifest)
	}
	return s
}

// Register adds or replaces a manifest keyed by its name.
func (s *ManifestSelector) Register(manifest *gotheme.Manifest) error {
	if manifest == nil || strings.TrimSpace(manifest.Name) == "" {
		return errors.New("theme: manifest name is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.manifests[strings.ToLower(manifest.Name)] = manifest
	return nil
}

// Frameworks lists the registered manifest names.
func (s *ManifestSelector) Frameworks() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.manifests))
	for name := range s.manifests {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Select implements gotheme.ThemeSelector. An unknown variant is reported as
// an error; an empty variant selects the base manifest.
func (s *ManifestSelector) Select(name, variant string, _ ...gotheme.QueryOption) (*gotheme.Selection, error) {
	s.mu.RLock()
	manifest, ok := s.manifests[strings.ToLower(strings.TrimSpace(name))]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFramework, name)
	}
	if variant != "" {
		if _, ok := manifest.Variants[variant]; !ok {
			return nil, fmt.Errorf("theme: framework %q has no variant %q", name, variant)
		}
	}
	return &gotheme.Selection{Theme: manifest.Name, Variant: variant, Manifest: manifest}, nil
}

// rendererConfig flattens a selection into the renderer view: variant tokens,
// templates and assets override the base manifest, partial fallbacks fill the
// gaps and tokens prefixed "css." become CSS custom properties.
func rendererConfig(selection *gotheme.Selection, fallbacks map[string]string) *gotheme.RendererConfig {
	cfg := &gotheme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Partials: maps.Clone(fallbacks),
		Tokens:   map[string]string{},
		CSSVars:  map[string]string{},
	}
	if cfg.Partials == nil {
		cfg.Partials = map[string]string{}
	}

	manifest := selection.Manifest
	if manifest == nil {
		cfg.AssetURL = func(string) string { return "" }
		return cfg
	}

	prefix := manifest.Assets.Prefix
	files := maps.Clone(manifest.Assets.Files)
	if files == nil {
		files = map[string]string{}
	}
	maps.Copy(cfg.Tokens, manifest.Tokens)
	maps.Copy(cfg.Partials, manifest.Templates)

	if variant, ok := manifest.Variants[selection.Variant]; ok {
		maps.Copy(cfg.Tokens, variant.Tokens)
		maps.Copy(cfg.Partials, variant.Templates)
		maps.Copy(files, variant.Assets.Files)
		if variant.Assets.Prefix != "" {
			prefix = variant.Assets.Prefix
		}
	}

	for key, value := range cfg.Tokens {
		if name, ok := strings.CutPrefix(key, "css."); ok {
			cfg.CSSVars["--formkit-"+name] = value
		}
	}

	cfg.AssetURL = func(key string) string {
		file, ok := files[key]
		if !ok || file == "" {
			return ""
		}
		if strings.Contains(file, "://") || strings.HasPrefix(file, "/") || prefix == "" {
			return file
		}
		return strings.TrimRight(prefix, "/") + "/" + file
	}
	return cfg
}
