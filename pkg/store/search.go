package store

import (
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/entrhq/butler/pkg/prompt"
)

const (
	// DefaultSearchLimit caps results when the caller passes no limit.
	DefaultSearchLimit = 10

	// searchThreshold is the minimum similarity score (0-100 scale) a
	// prompt must reach to appear in search results.
	searchThreshold = 50
)

// Search returns at most limit prompts ranked by fuzzy similarity between
// the query and each prompt's name, description, and tags. An empty query
// returns the first limit prompts in List's canonical (group, name) order,
// unranked. Results are sorted by descending score; ties keep their scan
// order, so identical corpora always rank identically. Every call rescans
// the corpus; there is no persistent index.
func (s *Store) Search(query string, limit int) ([]*prompt.Prompt, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	all, err := s.List(ListOptions{})
	if err != nil {
		return nil, err
	}
	if query == "" {
		if len(all) > limit {
			all = all[:limit]
		}
		return all, nil
	}

	type scored struct {
		p     *prompt.Prompt
		score int
	}
	var results []scored
	for _, p := range all {
		score := similarity(query, p.Name, p.Searchable())
		if score < searchThreshold {
			continue
		}
		results = append(results, scored{p: p, score: score})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})
	if len(results) > limit {
		results = results[:limit]
	}
	out := make([]*prompt.Prompt, len(results))
	for i, r := range results {
		out[i] = r.p
	}
	return out, nil
}

// similarity scores a query against a prompt on a 0-100 scale,
// case-insensitive. An exact name match scores 100, a substring hit
// anywhere in the searchable text scores 90, and a fuzzy subsequence match
// lands between 50 and 89 depending on match quality. Anything weaker
// scores 0.
func similarity(query, name, searchable string) int {
	q := strings.ToLower(query)
	if strings.ToLower(name) == q {
		return 100
	}
	target := strings.ToLower(searchable)
	if strings.Contains(target, q) {
		return 90
	}
	matches := fuzzy.Find(q, []string{target})
	if len(matches) == 0 {
		return 0
	}
	bonus := matches[0].Score
	if bonus < 0 {
		bonus = 0
	}
	if bonus > 39 {
		bonus = 39
	}
	return searchThreshold + bonus
}
