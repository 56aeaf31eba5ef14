package store

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/entrhq/butler/pkg/prompt"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return st
}

func mustCreate(t *testing.T, st *Store, p *prompt.Prompt) {
	t.Helper()
	if err := st.Create(p); err != nil {
		t.Fatalf("Create(%s/%s) failed: %v", p.Group, p.Name, err)
	}
}

func TestCreateAndGetRoundTrip(t *testing.T) {
	st := newTestStore(t)
	p := &prompt.Prompt{
		Name:         "code-review",
		Description:  "Reviews code",
		SystemPrompt: "You are a reviewer.",
		UserPrompt:   "Review this: {code}",
		Group:        "dev",
		Tags:         []string{"code", "review"},
	}
	mustCreate(t, st, p)

	got, err := st.Get("code-review", "dev")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Name != p.Name || got.Description != p.Description ||
		got.SystemPrompt != p.SystemPrompt || got.UserPrompt != p.UserPrompt ||
		got.Group != p.Group {
		t.Errorf("Round trip mismatch: got %+v", got)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "code" || got.Tags[1] != "review" {
		t.Errorf("Expected tags to round-trip, got %v", got.Tags)
	}
}

func TestCreateCollision(t *testing.T) {
	st := newTestStore(t)
	mustCreate(t, st, &prompt.Prompt{Name: "code-review", SystemPrompt: "a"})

	// Same slug, different group: allowed.
	if err := st.Create(&prompt.Prompt{Name: "Code-Review", SystemPrompt: "b", Group: "dev"}); err != nil {
		t.Fatalf("Expected same slug in another group to succeed, got %v", err)
	}

	// Same slug, same group: collision.
	err := st.Create(&prompt.Prompt{Name: "CODE-REVIEW", SystemPrompt: "c"})
	if !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("Expected ErrAlreadyExists, got %v", err)
	}
}

func TestCreateValidation(t *testing.T) {
	st := newTestStore(t)
	tests := []struct {
		name string
		p    *prompt.Prompt
	}{
		{name: "empty name", p: &prompt.Prompt{SystemPrompt: "x"}},
		{name: "name with space", p: &prompt.Prompt{Name: "has space", SystemPrompt: "x"}},
		{name: "missing system prompt", p: &prompt.Prompt{Name: "ok"}},
		{name: "group with separator", p: &prompt.Prompt{Name: "ok", SystemPrompt: "x", Group: "a/b"}},
		{name: "empty tag", p: &prompt.Prompt{Name: "ok", SystemPrompt: "x", Tags: []string{""}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := st.Create(tt.p)
			var verr *prompt.ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("Expected ValidationError, got %v", err)
			}
		})
	}
}

func TestConcurrentCreateHasOneWinner(t *testing.T) {
	st := newTestStore(t)
	const writers = 8

	var wg sync.WaitGroup
	results := make([]error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = st.Create(&prompt.Prompt{
				Name:         "contended",
				SystemPrompt: "payload that must never be half-written",
			})
		}(i)
	}
	wg.Wait()

	wins, losses := 0, 0
	for _, err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ErrAlreadyExists):
			losses++
		default:
			t.Fatalf("Unexpected error: %v", err)
		}
	}
	if wins != 1 || losses != writers-1 {
		t.Fatalf("Expected exactly one winner, got %d wins and %d losses", wins, losses)
	}

	got, err := st.Get("contended", "")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.SystemPrompt != "payload that must never be half-written" {
		t.Errorf("File content corrupted: %q", got.SystemPrompt)
	}
}

func TestGetNotFound(t *testing.T) {
	st := newTestStore(t)
	if _, err := st.Get("missing", ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestLookupOrder(t *testing.T) {
	st := newTestStore(t)
	mustCreate(t, st, &prompt.Prompt{Name: "shared", SystemPrompt: "in zeta", Group: "zeta"})
	mustCreate(t, st, &prompt.Prompt{Name: "shared", SystemPrompt: "in alpha", Group: "alpha"})

	// Groups are searched in lexicographic order: alpha wins over zeta.
	p, err := st.Lookup("shared")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if p.Group != "alpha" {
		t.Errorf("Expected group alpha, got %q", p.Group)
	}

	// A root-level record beats every group.
	mustCreate(t, st, &prompt.Prompt{Name: "shared", SystemPrompt: "at root"})
	p, err = st.Lookup("shared")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if p.Group != "" {
		t.Errorf("Expected root record, got group %q", p.Group)
	}

	if _, err := st.Lookup("nowhere"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestUpdatePatchSemantics(t *testing.T) {
	st := newTestStore(t)
	mustCreate(t, st, &prompt.Prompt{
		Name:         "patchy",
		Description:  "original description",
		SystemPrompt: "original system",
		UserPrompt:   "original user",
		Tags:         []string{"keep"},
	})

	t.Run("unset fields stay unchanged", func(t *testing.T) {
		got, err := st.Update("patchy", "", prompt.Patch{
			Description: prompt.Set("new description"),
		})
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if got.Description != "new description" {
			t.Errorf("Expected description updated, got %q", got.Description)
		}
		if got.SystemPrompt != "original system" || got.UserPrompt != "original user" {
			t.Errorf("Expected untouched fields to survive, got %+v", got)
		}
		if len(got.Tags) != 1 || got.Tags[0] != "keep" {
			t.Errorf("Expected tags untouched, got %v", got.Tags)
		}
	})

	t.Run("explicit empty clears", func(t *testing.T) {
		got, err := st.Update("patchy", "", prompt.Patch{
			UserPrompt: prompt.Set(""),
			Tags:       prompt.Set([]string{}),
		})
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if got.UserPrompt != "" {
			t.Errorf("Expected user prompt cleared, got %q", got.UserPrompt)
		}
		if len(got.Tags) != 0 {
			t.Errorf("Expected tags cleared, got %v", got.Tags)
		}

		// And the cleared state persists.
		reread, err := st.Get("patchy", "")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if reread.UserPrompt != "" || len(reread.Tags) != 0 {
			t.Errorf("Expected cleared fields on disk, got %+v", reread)
		}
	})

	t.Run("invalid patch rejected", func(t *testing.T) {
		_, err := st.Update("patchy", "", prompt.Patch{SystemPrompt: prompt.Set("")})
		var verr *prompt.ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("Expected ValidationError, got %v", err)
		}
	})

	t.Run("missing record", func(t *testing.T) {
		_, err := st.Update("ghost", "", prompt.Patch{Description: prompt.Set("x")})
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})
}

func TestUpdateRelocation(t *testing.T) {
	st := newTestStore(t)

	t.Run("group change moves the file", func(t *testing.T) {
		mustCreate(t, st, &prompt.Prompt{Name: "mover", SystemPrompt: "x", Group: "old"})

		got, err := st.Update("mover", "old", prompt.Patch{Group: prompt.Set("new")})
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if got.Group != "new" {
			t.Errorf("Expected group new, got %q", got.Group)
		}
		if _, err := st.Get("mover", "old"); !errors.Is(err, ErrNotFound) {
			t.Errorf("Expected old location gone, got %v", err)
		}
		if _, err := st.Get("mover", "new"); err != nil {
			t.Errorf("Expected new location readable, got %v", err)
		}
		// The emptied source group directory is cleaned up.
		if _, err := os.Stat(filepath.Join(st.Root(), "old")); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("Expected old group directory removed, got %v", err)
		}
	})

	t.Run("rename within a group", func(t *testing.T) {
		mustCreate(t, st, &prompt.Prompt{Name: "before", SystemPrompt: "x", Group: "g"})

		if _, err := st.Update("before", "g", prompt.Patch{Name: prompt.Set("after")}); err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if _, err := st.Get("before", "g"); !errors.Is(err, ErrNotFound) {
			t.Errorf("Expected old name gone, got %v", err)
		}
		if _, err := st.Get("after", "g"); err != nil {
			t.Errorf("Expected new name readable, got %v", err)
		}
	})

	t.Run("relocation refuses to clobber", func(t *testing.T) {
		mustCreate(t, st, &prompt.Prompt{Name: "a1", SystemPrompt: "x", Group: "clobber"})
		mustCreate(t, st, &prompt.Prompt{Name: "a2", SystemPrompt: "y", Group: "clobber"})

		_, err := st.Update("a1", "clobber", prompt.Patch{Name: prompt.Set("a2")})
		if !errors.Is(err, ErrAlreadyExists) {
			t.Fatalf("Expected ErrAlreadyExists, got %v", err)
		}
		// Both records survive untouched.
		if _, err := st.Get("a1", "clobber"); err != nil {
			t.Errorf("Expected a1 intact, got %v", err)
		}
		got, err := st.Get("a2", "clobber")
		if err != nil || got.SystemPrompt != "y" {
			t.Errorf("Expected a2 intact, got %+v, %v", got, err)
		}
	})
}

func TestDelete(t *testing.T) {
	st := newTestStore(t)

	t.Run("sole record removes the group directory", func(t *testing.T) {
		mustCreate(t, st, &prompt.Prompt{Name: "only", SystemPrompt: "x", Group: "lonely"})

		if err := st.Delete("only", "lonely"); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if _, err := os.Stat(filepath.Join(st.Root(), "lonely")); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("Expected empty group directory removed, got %v", err)
		}
	})

	t.Run("group with remaining records keeps its directory", func(t *testing.T) {
		mustCreate(t, st, &prompt.Prompt{Name: "one", SystemPrompt: "x", Group: "busy"})
		mustCreate(t, st, &prompt.Prompt{Name: "two", SystemPrompt: "x", Group: "busy"})

		if err := st.Delete("one", "busy"); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if _, err := os.Stat(filepath.Join(st.Root(), "busy")); err != nil {
			t.Errorf("Expected group directory kept, got %v", err)
		}
	})

	t.Run("missing record", func(t *testing.T) {
		if err := st.Delete("ghost", ""); !errors.Is(err, ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})
}

func TestExists(t *testing.T) {
	st := newTestStore(t)
	mustCreate(t, st, &prompt.Prompt{Name: "present", SystemPrompt: "x"})

	ok, err := st.Exists("present", "")
	if err != nil || !ok {
		t.Errorf("Expected exists true, got %v, %v", ok, err)
	}
	ok, err = st.Exists("absent", "")
	if err != nil || ok {
		t.Errorf("Expected exists false, got %v, %v", ok, err)
	}
}

func TestList(t *testing.T) {
	st := newTestStore(t)
	mustCreate(t, st, &prompt.Prompt{Name: "zulu", SystemPrompt: "x", Tags: []string{"dev"}})
	mustCreate(t, st, &prompt.Prompt{Name: "alpha", SystemPrompt: "x", Group: "work", Tags: []string{"dev"}})
	mustCreate(t, st, &prompt.Prompt{Name: "beta", SystemPrompt: "x", Group: "home"})

	t.Run("sorted by group then name", func(t *testing.T) {
		all, err := st.List(ListOptions{})
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(all) != 3 {
			t.Fatalf("Expected 3 prompts, got %d", len(all))
		}
		// Root group ("") sorts before named groups.
		if all[0].Name != "zulu" || all[1].Name != "beta" || all[2].Name != "alpha" {
			t.Errorf("Unexpected order: %s, %s, %s", all[0].Name, all[1].Name, all[2].Name)
		}
	})

	t.Run("tag filter", func(t *testing.T) {
		tagged, err := st.List(ListOptions{Tag: "dev"})
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(tagged) != 2 {
			t.Fatalf("Expected 2 prompts tagged dev, got %d", len(tagged))
		}
		if tagged[0].Name != "zulu" || tagged[1].Name != "alpha" {
			t.Errorf("Unexpected order: %s, %s", tagged[0].Name, tagged[1].Name)
		}
	})

	t.Run("group filter distinguishes root from any", func(t *testing.T) {
		root, err := st.List(ListOptions{Group: prompt.Set("")})
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(root) != 1 || root[0].Name != "zulu" {
			t.Errorf("Expected only the root record, got %v", root)
		}

		work, err := st.List(ListOptions{Group: prompt.Set("work")})
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(work) != 1 || work[0].Name != "alpha" {
			t.Errorf("Expected only the work record, got %v", work)
		}
	})

	t.Run("corrupt file skipped", func(t *testing.T) {
		corrupt := filepath.Join(st.Root(), "broken"+Ext)
		if err := os.WriteFile(corrupt, []byte("no front matter here"), 0o600); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
		all, err := st.List(ListOptions{})
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(all) != 3 {
			t.Errorf("Expected corrupt file skipped, got %d records", len(all))
		}
	})
}

func TestListGroupsAndCreateGroup(t *testing.T) {
	st := newTestStore(t)
	mustCreate(t, st, &prompt.Prompt{Name: "a", SystemPrompt: "x", Group: "filled"})

	created, err := st.CreateGroup("empty")
	if err != nil || !created {
		t.Fatalf("CreateGroup failed: %v, created=%v", err, created)
	}
	created, err = st.CreateGroup("empty")
	if err != nil || created {
		t.Fatalf("Expected second CreateGroup to report existing, got %v, created=%v", err, created)
	}

	nonEmpty, err := st.ListGroups(false)
	if err != nil {
		t.Fatalf("ListGroups failed: %v", err)
	}
	if len(nonEmpty) != 1 || nonEmpty[0] != "filled" {
		t.Errorf("Expected only filled group, got %v", nonEmpty)
	}

	all, err := st.ListGroups(true)
	if err != nil {
		t.Fatalf("ListGroups failed: %v", err)
	}
	if len(all) != 2 || all[0] != "empty" || all[1] != "filled" {
		t.Errorf("Expected both groups sorted, got %v", all)
	}
}

func TestTagCounts(t *testing.T) {
	st := newTestStore(t)
	mustCreate(t, st, &prompt.Prompt{Name: "a", SystemPrompt: "x", Tags: []string{"dev", "review"}})
	mustCreate(t, st, &prompt.Prompt{Name: "b", SystemPrompt: "x", Group: "g", Tags: []string{"dev"}})

	counts, err := st.TagCounts()
	if err != nil {
		t.Fatalf("TagCounts failed: %v", err)
	}
	if len(counts) != 2 {
		t.Fatalf("Expected 2 tags, got %v", counts)
	}
	if counts[0].Tag != "dev" || counts[0].Count != 2 {
		t.Errorf("Expected dev counted twice, got %+v", counts[0])
	}
	if counts[1].Tag != "review" || counts[1].Count != 1 {
		t.Errorf("Expected review counted once, got %+v", counts[1])
	}
}

func TestPathRejectsSeparatorInGroup(t *testing.T) {
	st := newTestStore(t)
	_, err := st.Get("name", "a/b")
	var verr *prompt.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Expected ValidationError for group with separator, got %v", err)
	}
}
