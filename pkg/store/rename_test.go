package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/entrhq/butler/pkg/prompt"
)

func TestRenameTag(t *testing.T) {
	t.Run("replaces in place", func(t *testing.T) {
		st := newTestStore(t)
		mustCreate(t, st, &prompt.Prompt{
			Name:         "ordered",
			SystemPrompt: "x",
			Tags:         []string{"first", "old", "last"},
		})

		count, err := st.RenameTag("old", "new")
		if err != nil {
			t.Fatalf("RenameTag failed: %v", err)
		}
		if count != 1 {
			t.Errorf("Expected 1 prompt modified, got %d", count)
		}

		got, err := st.Get("ordered", "")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		want := []string{"first", "new", "last"}
		if len(got.Tags) != 3 || got.Tags[0] != want[0] || got.Tags[1] != want[1] || got.Tags[2] != want[2] {
			t.Errorf("Expected tags %v, got %v", want, got.Tags)
		}
	})

	t.Run("deduplicates when target tag already present", func(t *testing.T) {
		st := newTestStore(t)
		mustCreate(t, st, &prompt.Prompt{
			Name:         "doubled",
			SystemPrompt: "x",
			Tags:         []string{"new", "old"},
		})

		if _, err := st.RenameTag("old", "new"); err != nil {
			t.Fatalf("RenameTag failed: %v", err)
		}
		got, err := st.Get("doubled", "")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if len(got.Tags) != 1 || got.Tags[0] != "new" {
			t.Errorf("Expected deduplicated tags [new], got %v", got.Tags)
		}
	})

	t.Run("counts across groups and leaves others alone", func(t *testing.T) {
		st := newTestStore(t)
		mustCreate(t, st, &prompt.Prompt{Name: "a", SystemPrompt: "x", Tags: []string{"old"}})
		mustCreate(t, st, &prompt.Prompt{Name: "b", SystemPrompt: "x", Group: "g", Tags: []string{"old"}})
		mustCreate(t, st, &prompt.Prompt{Name: "c", SystemPrompt: "x", Tags: []string{"other"}})

		count, err := st.RenameTag("old", "new")
		if err != nil {
			t.Fatalf("RenameTag failed: %v", err)
		}
		if count != 2 {
			t.Errorf("Expected 2 prompts modified, got %d", count)
		}

		untouched, err := st.Get("c", "")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if len(untouched.Tags) != 1 || untouched.Tags[0] != "other" {
			t.Errorf("Expected untouched tags, got %v", untouched.Tags)
		}
	})

	t.Run("zero matches reports ErrTagNotFound", func(t *testing.T) {
		st := newTestStore(t)
		mustCreate(t, st, &prompt.Prompt{Name: "a", SystemPrompt: "x", Tags: []string{"other"}})

		if _, err := st.RenameTag("missing", "new"); !errors.Is(err, ErrTagNotFound) {
			t.Fatalf("Expected ErrTagNotFound, got %v", err)
		}
	})

	t.Run("invalid new tag rejected", func(t *testing.T) {
		st := newTestStore(t)
		_, err := st.RenameTag("old", "bad!tag")
		var verr *prompt.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("Expected ValidationError, got %v", err)
		}
	})
}

func TestRenameGroup(t *testing.T) {
	t.Run("moves all prompts", func(t *testing.T) {
		st := newTestStore(t)
		mustCreate(t, st, &prompt.Prompt{Name: "a", SystemPrompt: "x", Group: "old"})
		mustCreate(t, st, &prompt.Prompt{Name: "b", SystemPrompt: "x", Group: "old"})

		count, err := st.RenameGroup("old", "new")
		if err != nil {
			t.Fatalf("RenameGroup failed: %v", err)
		}
		if count != 2 {
			t.Errorf("Expected 2 prompts moved, got %d", count)
		}
		if _, err := os.Stat(filepath.Join(st.Root(), "old")); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("Expected old directory gone, got %v", err)
		}
		for _, name := range []string{"a", "b"} {
			if _, err := st.Get(name, "new"); err != nil {
				t.Errorf("Expected %s in new group, got %v", name, err)
			}
		}
	})

	t.Run("missing source reports ErrGroupNotFound", func(t *testing.T) {
		st := newTestStore(t)
		if _, err := st.RenameGroup("nowhere", "new"); !errors.Is(err, ErrGroupNotFound) {
			t.Fatalf("Expected ErrGroupNotFound, got %v", err)
		}
	})

	t.Run("occupied target reports ErrGroupConflict and changes nothing", func(t *testing.T) {
		st := newTestStore(t)
		mustCreate(t, st, &prompt.Prompt{Name: "src", SystemPrompt: "x", Group: "old"})
		mustCreate(t, st, &prompt.Prompt{Name: "dst", SystemPrompt: "x", Group: "new"})

		if _, err := st.RenameGroup("old", "new"); !errors.Is(err, ErrGroupConflict) {
			t.Fatalf("Expected ErrGroupConflict, got %v", err)
		}
		if _, err := st.Get("src", "old"); err != nil {
			t.Errorf("Expected source untouched, got %v", err)
		}
		if _, err := st.Get("dst", "new"); err != nil {
			t.Errorf("Expected target untouched, got %v", err)
		}
	})

	t.Run("empty target directory is reused", func(t *testing.T) {
		st := newTestStore(t)
		mustCreate(t, st, &prompt.Prompt{Name: "a", SystemPrompt: "x", Group: "old"})
		if _, err := st.CreateGroup("new"); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}

		count, err := st.RenameGroup("old", "new")
		if err != nil {
			t.Fatalf("RenameGroup failed: %v", err)
		}
		if count != 1 {
			t.Errorf("Expected 1 prompt moved, got %d", count)
		}
		if _, err := st.Get("a", "new"); err != nil {
			t.Errorf("Expected record in new group, got %v", err)
		}
		if _, err := os.Stat(filepath.Join(st.Root(), "old")); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("Expected emptied source directory removed, got %v", err)
		}
	})

	t.Run("empty new group slug rejected", func(t *testing.T) {
		st := newTestStore(t)
		_, err := st.RenameGroup("old", "!!!")
		var verr *prompt.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("Expected ValidationError, got %v", err)
		}
	})
}
