package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/entrhq/butler/pkg/prompt"
)

// legacyPrompt is the old flat storage format: one whole-record YAML
// document per file at <root>/<name>.yaml, group stored inline.
type legacyPrompt struct {
	Name         string   `yaml:"name"`
	Description  string   `yaml:"description"`
	SystemPrompt string   `yaml:"system_prompt"`
	UserPrompt   string   `yaml:"user_prompt"`
	Group        string   `yaml:"group"`
	Tags         []string `yaml:"tags"`
}

// MigrationResult summarizes a MigrateAll run.
type MigrationResult struct {
	Migrated int
	Skipped  int
	Failed   int
	Errors   []string
}

// TotalProcessed returns the number of legacy files examined.
func (r *MigrationResult) TotalProcessed() int {
	return r.Migrated + r.Skipped + r.Failed
}

// Migrator converts legacy flat YAML records into the front-matter format.
type Migrator struct {
	store     *Store
	sourceDir string
}

// NewMigrator builds a migrator reading legacy files from sourceDir and
// writing into st. An empty sourceDir defaults to the store's own root,
// which is where legacy installations kept their files.
func NewMigrator(st *Store, sourceDir string) *Migrator {
	if sourceDir == "" {
		sourceDir = st.Root()
	}
	return &Migrator{store: st, sourceDir: sourceDir}
}

// FindLegacy returns the legacy YAML record files in the source directory,
// sorted by name.
func (m *Migrator) FindLegacy() ([]string, error) {
	entries, err := os.ReadDir(m.sourceDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("store: list %s: %w", m.sourceDir, err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if ext == ".yaml" || ext == ".yml" {
			out = append(out, filepath.Join(m.sourceDir, e.Name()))
		}
	}
	sort.Strings(out)
	return out, nil
}

// readLegacy loads one legacy file. Missing required fields or malformed
// YAML are reported as errors so MigrateAll can count the failure.
func (m *Migrator) readLegacy(path string) (*prompt.Prompt, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("store: read %s: %w", path, err)
	}
	var legacy legacyPrompt
	if err := yaml.Unmarshal(b, &legacy); err != nil {
		return nil, fmt.Errorf("store: parse %s: %w", path, err)
	}
	if legacy.Name == "" || legacy.SystemPrompt == "" {
		return nil, fmt.Errorf("store: %s: missing name or system_prompt", filepath.Base(path))
	}
	return &prompt.Prompt{
		Name:         legacy.Name,
		Description:  legacy.Description,
		SystemPrompt: legacy.SystemPrompt,
		UserPrompt:   legacy.UserPrompt,
		Group:        legacy.Group,
		Tags:         legacy.Tags,
	}, nil
}

// MigrateAll converts every legacy file found in the source directory.
// Records with no group are assigned defaultGroup. Records that already
// exist in the target format are skipped. When removeSource is true each
// successfully migrated legacy file is deleted afterwards. The progress
// callback, if non-nil, is invoked per file with an action ("migrated",
// "skipped", "failed") and a human-readable message.
func (m *Migrator) MigrateAll(defaultGroup string, removeSource bool, progress func(action, message string)) (*MigrationResult, error) {
	report := func(action, message string) {
		if progress != nil {
			progress(action, message)
		}
	}

	files, err := m.FindLegacy()
	if err != nil {
		return nil, err
	}

	result := &MigrationResult{}
	for _, path := range files {
		name := filepath.Base(path)
		p, err := m.readLegacy(path)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, err.Error())
			report("failed", name+": "+err.Error())
			continue
		}
		if p.Group == "" {
			p.Group = defaultGroup
		}
		exists, err := m.store.Exists(p.Name, p.Group)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, err.Error())
			report("failed", name+": "+err.Error())
			continue
		}
		if exists {
			result.Skipped++
			report("skipped", fmt.Sprintf("%s already exists in %q", p.Name, p.Group))
			continue
		}
		if err := m.store.Create(p); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, err.Error())
			report("failed", name+": "+err.Error())
			continue
		}
		result.Migrated++
		report("migrated", fmt.Sprintf("%s -> %s", name, strings.TrimPrefix(filepath.Join(Slugify(p.Group), Slugify(p.Name)+Ext), "/")))
		if removeSource {
			if err := os.Remove(path); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("store: remove %s: %v", path, err))
			}
		}
	}
	return result, nil
}
