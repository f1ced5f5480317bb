// Package profile provides the read-only candidate accessor the
// scoring and gap paths consume. The engine never mutates a profile;
// upstream resume parsing owns the data.
package profile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"jobmatch-engine/internal/domain"
)

// Accessor resolves a profile by id.
type Accessor interface {
	Get(ctx context.Context, id string) (domain.Profile, error)
}

// FileAccessor reads profiles from <dir>/<id>.yml. Suits the CLI and
// scheduled batches; a service deployment would swap in an accessor
// backed by the account system.
type FileAccessor struct {
	dir string
}

func NewFileAccessor(dir string) *FileAccessor {
	return &FileAccessor{dir: dir}
}

var _ Accessor = (*FileAccessor)(nil)

func (a *FileAccessor) Get(_ context.Context, id string) (domain.Profile, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Profile{}, fmt.Errorf("profile id is required")
	}
	path := filepath.Join(a.dir, id+".yml")
	if _, err := os.Stat(path); err != nil {
		alt := filepath.Join(a.dir, id+".yaml")
		if _, aerr := os.Stat(alt); aerr == nil {
			path = alt
		}
	}
	p, err := LoadFile(path)
	if err != nil {
		return domain.Profile{}, err
	}
	if p.ID == "" {
		p.ID = id
	}
	return p, nil
}

// List returns the profile ids present in the directory, sorted.
func (a *FileAccessor) List() ([]string, error) {
	entries, err := os.ReadDir(a.dir)
	if err != nil {
		return nil, fmt.Errorf("read profiles dir %s: %w", a.dir, err)
	}
	var ids []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		ext := filepath.Ext(name)
		if ext != ".yml" && ext != ".yaml" {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ext))
	}
	sort.Strings(ids)
	return ids, nil
}

// LoadFile reads one profile YAML. Skills and skill-level keys are
// lower-cased so they line up with the normalizer's tag vocabulary.
func LoadFile(path string) (domain.Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("read profile %s: %w", path, err)
	}
	var p domain.Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return domain.Profile{}, fmt.Errorf("parse profile %s: %w", path, err)
	}

	for i, s := range p.Skills {
		p.Skills[i] = strings.ToLower(strings.TrimSpace(s))
	}
	if len(p.SkillLevels) > 0 {
		levels := make(map[string]int, len(p.SkillLevels))
		for k, v := range p.SkillLevels {
			levels[strings.ToLower(strings.TrimSpace(k))] = v
		}
		p.SkillLevels = levels
	}
	return p, nil
}
