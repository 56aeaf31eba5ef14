// Package store implements the prompt storage engine: it maps prompts to
// paths under a single root directory, performs atomic create/update/delete,
// derives groups from the directory layout, and supports ranked fuzzy search
// and bulk renames.
//
// Layout: grouped prompts live at <root>/<groupSlug>/<nameSlug>.md and
// ungrouped prompts directly at <root>/<nameSlug>.md. Groups are exactly one
// level deep; nested directories are not modeled and are skipped on scan.
//
// The store is single-process and does not lock internally. Create is atomic
// against concurrent creates of the same path (exclusive-create semantics).
// Update's relocation and Delete's directory cleanup are multi-step and not
// atomic; concurrent writers to the same record get last-write-wins.
package store

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/entrhq/butler/pkg/prompt"
)

// Store is the storage engine for one prompts directory. Construct it
// explicitly with New and inject it into consumers; there is no package
// level instance.
type Store struct {
	root string
}

// New opens a store rooted at dir, creating the directory if needed.
func New(dir string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("store: root directory must not be empty")
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("store: init directory %s: %w", dir, err)
	}
	return &Store{root: dir}, nil
}

// Root returns the storage root directory.
func (s *Store) Root() string {
	return s.root
}

// promptPath resolves the backing file path for a (name, group) pair.
// A group containing a path separator is rejected, never sanitized.
func (s *Store) promptPath(name, group string) (string, error) {
	if strings.ContainsAny(group, `/\`) {
		return "", &prompt.ValidationError{Field: "group", Message: "must not contain path separators"}
	}
	slug := Slugify(name)
	if slug == "" {
		return "", &prompt.ValidationError{Field: "name", Message: "produces an empty slug"}
	}
	if group == "" {
		return filepath.Join(s.root, slug+Ext), nil
	}
	return filepath.Join(s.root, Slugify(group), slug+Ext), nil
}

// groupDir resolves the directory for a group name.
func (s *Store) groupDir(group string) string {
	return filepath.Join(s.root, Slugify(group))
}

// Path returns the backing file path of an existing prompt, for consumers
// that hand the file to an external editor. Returns ErrNotFound if the
// prompt does not exist.
func (s *Store) Path(name, group string) (string, error) {
	path, err := s.promptPath(name, group)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("store: stat %s: %w", path, err)
	}
	return path, nil
}

// Create persists a new prompt. It fails with ErrAlreadyExists when the
// resolved path is already occupied. The write uses an exclusive-create
// open, so two concurrent Create calls for the same path have exactly one
// winner; there is no check-then-write window.
func (s *Store) Create(p *prompt.Prompt) error {
	if err := p.Validate(); err != nil {
		return err
	}
	path, err := s.promptPath(p.Name, p.Group)
	if err != nil {
		return err
	}
	b, err := serializePrompt(p)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("store: create group directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("store: create %s: %w", path, err)
	}
	if _, err := f.Write(b); err != nil {
		f.Close()
		_ = os.Remove(path) // do not leave a truncated record behind
		return fmt.Errorf("store: write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("store: close %s: %w", path, err)
	}
	return nil
}

// Get retrieves a prompt by name within a specific group ("" means the
// storage root). It returns ErrNotFound if the record does not exist.
func (s *Store) Get(name, group string) (*prompt.Prompt, error) {
	path, err := s.promptPath(name, group)
	if err != nil {
		return nil, err
	}
	return s.readPromptFile(path, group)
}

// Lookup retrieves a prompt by name when the caller does not know its
// group. It checks the storage root first, then every group directory in
// lexicographic order, returning the first match. The order is part of the
// contract, not an accident of directory traversal.
func (s *Store) Lookup(name string) (*prompt.Prompt, error) {
	p, err := s.Get(name, "")
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	groups, err := s.ListGroups(true)
	if err != nil {
		return nil, err
	}
	for _, g := range groups {
		p, err := s.Get(name, g)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}
	return nil, ErrNotFound
}

// Update loads an existing prompt, applies the patch (unset fields keep
// their current value), validates the result, and persists it. When the
// patched name or group resolves to a different path, the backing file is
// relocated: the new file is written and verified before the old one is
// removed, so a crash in between leaves at most a recoverable duplicate.
func (s *Store) Update(name, group string, patch prompt.Patch) (*prompt.Prompt, error) {
	existing, err := s.Get(name, group)
	if err != nil {
		return nil, err
	}
	oldPath, err := s.promptPath(name, group)
	if err != nil {
		return nil, err
	}

	updated := patch.Apply(*existing)
	if err := updated.Validate(); err != nil {
		return nil, err
	}
	newPath, err := s.promptPath(updated.Name, updated.Group)
	if err != nil {
		return nil, err
	}

	b, err := serializePrompt(&updated)
	if err != nil {
		return nil, err
	}

	if newPath == oldPath {
		if err := writeFileAtomic(newPath, b); err != nil {
			return nil, err
		}
		return &updated, nil
	}

	// Relocation. Refuse to clobber a record already at the target.
	if _, err := os.Stat(newPath); err == nil {
		return nil, ErrAlreadyExists
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("store: stat %s: %w", newPath, err)
	}
	if err := os.MkdirAll(filepath.Dir(newPath), 0o750); err != nil {
		return nil, fmt.Errorf("store: create group directory: %w", err)
	}
	if err := writeFileAtomic(newPath, b); err != nil {
		return nil, err
	}
	// Verify the new file parses before destroying the old one.
	if _, err := s.readPromptFile(newPath, updated.Group); err != nil {
		return nil, fmt.Errorf("store: verify relocated prompt: %w", err)
	}
	if err := os.Remove(oldPath); err != nil {
		return nil, fmt.Errorf("store: remove old prompt %s: %w", oldPath, err)
	}
	s.removeDirIfEmpty(filepath.Dir(oldPath))
	return &updated, nil
}

// Delete removes a prompt's backing file. If the containing group directory
// is left empty it is removed as well. Returns ErrNotFound if the record
// does not exist.
func (s *Store) Delete(name, group string) error {
	path, err := s.promptPath(name, group)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("store: delete %s: %w", path, err)
	}
	s.removeDirIfEmpty(filepath.Dir(path))
	return nil
}

// Exists reports whether a prompt exists at the resolved path.
func (s *Store) Exists(name, group string) (bool, error) {
	path, err := s.promptPath(name, group)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("store: stat %s: %w", path, err)
	}
	return true, nil
}

// ListOptions filters a List call. Group uses a tri-state field so callers
// can distinguish "any group" (unset) from "root only" (set to "").
type ListOptions struct {
	Tag   string
	Group prompt.Field[string]
}

// List scans the full storage root and returns all prompts sorted by
// (group, name). Files that fail to parse are skipped with a warning; a
// corrupt record never aborts the scan.
func (s *Store) List(opts ListOptions) ([]*prompt.Prompt, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("store: list %s: %w", s.root, err)
	}

	var out []*prompt.Prompt
	collect := func(p *prompt.Prompt) {
		if opts.Group.IsSet() && p.Group != opts.Group.Value() {
			return
		}
		if opts.Tag != "" && !p.HasTag(opts.Tag) {
			return
		}
		out = append(out, p)
	}

	for _, e := range entries {
		if e.IsDir() {
			group := e.Name()
			subEntries, err := os.ReadDir(filepath.Join(s.root, group))
			if err != nil {
				slog.Warn("store: skipping unreadable group directory", "group", group, "err", err)
				continue
			}
			for _, se := range subEntries {
				if se.IsDir() {
					// Nested groups are not modeled.
					slog.Warn("store: skipping nested directory", "group", group, "dir", se.Name())
					continue
				}
				if filepath.Ext(se.Name()) != Ext {
					continue
				}
				path := filepath.Join(s.root, group, se.Name())
				p, err := s.readPromptFile(path, group)
				if err != nil {
					slog.Warn("store: skipping unparseable prompt file", "path", path, "err", err)
					continue
				}
				collect(p)
			}
			continue
		}
		if filepath.Ext(e.Name()) != Ext {
			continue
		}
		path := filepath.Join(s.root, e.Name())
		p, err := s.readPromptFile(path, "")
		if err != nil {
			slog.Warn("store: skipping unparseable prompt file", "path", path, "err", err)
			continue
		}
		collect(p)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Group != out[j].Group {
			return out[i].Group < out[j].Group
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// ListGroups returns all group names, sorted. By default only groups that
// contain at least one prompt are included; includeEmpty also reports bare
// directories.
func (s *Store) ListGroups(includeEmpty bool) ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("store: list %s: %w", s.root, err)
	}
	var groups []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if !includeEmpty {
			has, err := dirHasPrompts(filepath.Join(s.root, e.Name()))
			if err != nil {
				return nil, err
			}
			if !has {
				continue
			}
		}
		groups = append(groups, e.Name())
	}
	sort.Strings(groups)
	return groups, nil
}

// CreateGroup makes an empty group directory. It returns false when the
// group already exists.
func (s *Store) CreateGroup(name string) (bool, error) {
	if strings.ContainsAny(name, `/\`) {
		return false, &prompt.ValidationError{Field: "group", Message: "must not contain path separators"}
	}
	slug := Slugify(name)
	if slug == "" {
		return false, &prompt.ValidationError{Field: "group", Message: "produces an empty slug"}
	}
	dir := filepath.Join(s.root, slug)
	if _, err := os.Stat(dir); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("store: stat %s: %w", dir, err)
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return false, fmt.Errorf("store: create group %s: %w", dir, err)
	}
	return true, nil
}

// TagCount pairs a tag with the number of prompts carrying it.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// TagCounts returns every tag in use across the corpus with its usage
// count, sorted by tag name.
func (s *Store) TagCounts() ([]TagCount, error) {
	all, err := s.List(ListOptions{})
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, p := range all {
		for _, tag := range p.Tags {
			counts[tag]++
		}
	}
	out := make([]TagCount, 0, len(counts))
	for tag, n := range counts {
		out = append(out, TagCount{Tag: tag, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Tag < out[j].Tag })
	return out, nil
}

// readPromptFile loads and parses one record file, mapping a missing file
// to ErrNotFound. The file's stem is the fallback name when the metadata
// block has none.
func (s *Store) readPromptFile(path, group string) (*prompt.Prompt, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("store: read %s: %w", path, err)
	}
	stem := strings.TrimSuffix(filepath.Base(path), Ext)
	return parsePrompt(b, group, stem)
}

// removeDirIfEmpty removes a now-empty group directory. The storage root is
// never removed. A concurrent create racing this check can lose its file;
// callers needing stronger guarantees must serialize externally.
func (s *Store) removeDirIfEmpty(dir string) {
	if dir == s.root {
		return
	}
	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) > 0 {
		return
	}
	_ = os.Remove(dir)
}

// dirHasPrompts reports whether a directory contains at least one record.
func dirHasPrompts(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false, fmt.Errorf("store: list %s: %w", dir, err)
	}
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == Ext {
			return true, nil
		}
	}
	return false, nil
}

// writeFileAtomic writes a record via a uniquely named temporary file in the
// same directory followed by an atomic rename into place.
func writeFileAtomic(path string, b []byte) error {
	tmp := fmt.Sprintf("%s.%s.tmp", path, uuid.NewString()[:8])
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return fmt.Errorf("store: write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp) // best-effort cleanup
		return fmt.Errorf("store: atomic rename %s: %w", path, err)
	}
	return nil
}
