package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadInterface reads and validates an interface manifest from a JSON or
// YAML file, chosen by extension.
func LoadInterface(path string) (*InterfaceManifest, error) {
	var m InterfaceManifest
	if err := loadFile(path, &m); err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// LoadImplementation reads and validates an implementation manifest from
// a JSON or YAML file, chosen by extension.
func LoadImplementation(path string) (*ImplementationManifest, error) {
	var m ImplementationManifest
	if err := loadFile(path, &m); err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Set is the result of scanning a manifest directory.
type Set struct {
	Interfaces      []*InterfaceManifest
	Implementations []*ImplementationManifest
}

// LoadDir scans a directory (non-recursively) for .json, .yaml, and .yml
// manifests. A file declaring "members" is an interface manifest; one
// declaring "supplies" or "interface" is an implementation manifest.
// Entries are returned sorted by name. Any invalid manifest aborts the
// scan with its declaration error.
func LoadDir(dir string) (*Set, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("manifest: read dir: %w", err)
	}

	set := &Set{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".json" && ext != ".yaml" && ext != ".yml" {
			continue
		}
		path := filepath.Join(dir, entry.Name())

		var probe struct {
			Members   []MemberSpec `json:"members" yaml:"members"`
			Interface string       `json:"interface" yaml:"interface"`
			Supplies  []string     `json:"supplies" yaml:"supplies"`
		}
		if err := loadFile(path, &probe); err != nil {
			return nil, err
		}

		switch {
		case len(probe.Members) > 0:
			m, err := LoadInterface(path)
			if err != nil {
				return nil, fmt.Errorf("manifest: %s: %w", entry.Name(), err)
			}
			set.Interfaces = append(set.Interfaces, m)
		case probe.Interface != "" || len(probe.Supplies) > 0:
			m, err := LoadImplementation(path)
			if err != nil {
				return nil, fmt.Errorf("manifest: %s: %w", entry.Name(), err)
			}
			set.Implementations = append(set.Implementations, m)
		default:
			return nil, fmt.Errorf("manifest: %s: neither an interface nor an implementation manifest", entry.Name())
		}
	}

	sort.Slice(set.Interfaces, func(i, j int) bool {
		return set.Interfaces[i].Name < set.Interfaces[j].Name
	})
	sort.Slice(set.Implementations, func(i, j int) bool {
		return set.Implementations[i].Name < set.Implementations[j].Name
	})
	return set, nil
}

func loadFile(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("manifest: read %s: %w", filepath.Base(path), err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("manifest: parse %s: %w", filepath.Base(path), err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, out); err != nil {
			return fmt.Errorf("manifest: parse %s: %w", filepath.Base(path), err)
		}
	default:
		return fmt.Errorf("manifest: unsupported extension %q", filepath.Ext(path))
	}
	return nil
}
