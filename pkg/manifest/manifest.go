// Package manifest loads the static precache manifest.
//
// The manifest is a fixed configuration file supplied by the deploy
// pipeline: the current version tag, the offline page path and the ordered
// list of resources that must be cached at install time.
package manifest

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultOfflinePath is used when the manifest does not name an offline page.
const DefaultOfflinePath = "/offline.html"

// Manifest describes one cache generation.
type Manifest struct {
	// Version is the version tag identifying this cache generation.
	// Bumping it is the sole mechanism for invalidating cached content.
	Version string `yaml:"version"`

	// Offline is the path of the page served to document requests when
	// both network and cache fail.
	Offline string `yaml:"offline"`

	// Precache is the ordered set of paths cached at install time.
	Precache []string `yaml:"precache"`
}

// Load reads and parses a manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return Parse(data)
}

// Parse parses manifest YAML and normalizes it.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}

	if err := m.normalize(); err != nil {
		return nil, err
	}

	return &m, nil
}

// normalize validates the manifest and fills in defaults.
func (m *Manifest) normalize() error {
	if m.Version == "" {
		return fmt.Errorf("manifest: version is required")
	}
	if strings.Contains(m.Version, ":") {
		return fmt.Errorf("manifest: version %q must not contain ':'", m.Version)
	}

	if m.Offline == "" {
		m.Offline = DefaultOfflinePath
	}
	if !strings.HasPrefix(m.Offline, "/") {
		return fmt.Errorf("manifest: offline path %q must be absolute", m.Offline)
	}

	seen := make(map[string]bool)
	paths := make([]string, 0, len(m.Precache)+1)
	for _, p := range m.Precache {
		if !strings.HasPrefix(p, "/") {
			return fmt.Errorf("manifest: precache path %q must be absolute", p)
		}
		if seen[p] {
			continue
		}
		seen[p] = true
		paths = append(paths, p)
	}

	// The offline page must be cached at install or the document fallback
	// chain has nothing to end in.
	if !seen[m.Offline] {
		paths = append(paths, m.Offline)
	}
	m.Precache = paths

	return nil
}
