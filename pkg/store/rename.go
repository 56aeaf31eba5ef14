package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/entrhq/butler/pkg/prompt"
)

// RenameTag replaces oldTag with newTag across every prompt that carries
// it, preserving tag positions. If newTag is already present on a prompt
// the result is de-duplicated rather than doubled. Returns the number of
// prompts modified; zero matches is reported as ErrTagNotFound so a typo
// in oldTag never looks like success.
func (s *Store) RenameTag(oldTag, newTag string) (int, error) {
	if err := prompt.ValidateTags([]string{newTag}); err != nil {
		return 0, err
	}
	all, err := s.List(ListOptions{})
	if err != nil {
		return 0, err
	}
	count := 0
	for _, p := range all {
		if !p.HasTag(oldTag) {
			continue
		}
		tags := make([]string, 0, len(p.Tags))
		seen := make(map[string]bool, len(p.Tags))
		for _, t := range p.Tags {
			if t == oldTag {
				t = newTag
			}
			if seen[t] {
				continue
			}
			seen[t] = true
			tags = append(tags, t)
		}
		if _, err := s.Update(p.Name, p.Group, prompt.Patch{Tags: prompt.Set(tags)}); err != nil {
			return count, fmt.Errorf("store: rename tag on %s: %w", p.Name, err)
		}
		count++
	}
	if count == 0 {
		return 0, ErrTagNotFound
	}
	return count, nil
}

// RenameGroup moves every prompt in oldGroup to newGroup and returns the
// number of records moved. It fails with ErrGroupNotFound when the source
// directory does not exist and with ErrGroupConflict when the target
// already contains prompts. An existing but empty target directory is
// reused. When the target is absent the move is a single directory-level
// rename, so the whole-group move is as atomic as the filesystem allows.
func (s *Store) RenameGroup(oldGroup, newGroup string) (int, error) {
	if slug := Slugify(newGroup); slug == "" {
		return 0, &prompt.ValidationError{Field: "group", Message: "produces an empty slug"}
	}
	oldDir := s.groupDir(oldGroup)
	newDir := s.groupDir(newGroup)

	info, err := os.Stat(oldDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, ErrGroupNotFound
		}
		return 0, fmt.Errorf("store: stat %s: %w", oldDir, err)
	}
	if !info.IsDir() {
		return 0, ErrGroupNotFound
	}

	count, err := countPrompts(oldDir)
	if err != nil {
		return 0, err
	}

	if _, err := os.Stat(newDir); err == nil {
		has, err := dirHasPrompts(newDir)
		if err != nil {
			return 0, err
		}
		if has {
			return 0, ErrGroupConflict
		}
		// Target exists but is empty: move records file by file.
		entries, err := os.ReadDir(oldDir)
		if err != nil {
			return 0, fmt.Errorf("store: list %s: %w", oldDir, err)
		}
		for _, e := range entries {
			if e.IsDir() || filepath.Ext(e.Name()) != Ext {
				continue
			}
			if err := os.Rename(filepath.Join(oldDir, e.Name()), filepath.Join(newDir, e.Name())); err != nil {
				return 0, fmt.Errorf("store: move %s: %w", e.Name(), err)
			}
		}
		s.removeDirIfEmpty(oldDir)
		return count, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return 0, fmt.Errorf("store: stat %s: %w", newDir, err)
	}

	if err := os.Rename(oldDir, newDir); err != nil {
		return 0, fmt.Errorf("store: rename group %s: %w", oldGroup, err)
	}
	return count, nil
}

// countPrompts counts the record files directly inside dir.
func countPrompts(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("store: list %s: %w", dir, err)
	}
	n := 0
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == Ext {
			n++
		}
	}
	return n, nil
}
