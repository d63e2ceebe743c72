// Package resolve maps free-text component queries onto scanned components:
// exact id, exact name, file path, then fuzzy fallbacks. Resolution misses
// return nil rather than errors; callers decide whether that is user-facing.
package resolve

import (
	"sort"
	"strings"

	"archmap/internal/model"
	"archmap/internal/paths"
)

// DefaultMaxCandidates bounds FindCandidates output
const DefaultMaxCandidates = 5

// Resolve finds the component a query refers to. Matching strategies are
// tried in order; the first match wins:
//  1. exact id match
//  2. exact case-insensitive name match
//  3. file-path lookup via fileMap (normalized), when a fileMap is provided
//  4. case-insensitive substring match between query and name, either way
//  5. substring match against the component's recorded config files
//
// An empty query or empty component list resolves to nothing.
func Resolve(query string, components []*model.Component, fileMap map[string]string) *model.Component {
	if query == "" || len(components) == 0 {
		return nil
	}

	// 1. Exact id
	for _, c := range components {
		if c.ID == query {
			return c
		}
	}

	// 2. Exact name, case-insensitive
	lowerQuery := strings.ToLower(query)
	for _, c := range components {
		if strings.ToLower(c.Name) == lowerQuery {
			return c
		}
	}

	// 3. File path via fileMap
	if fileMap != nil {
		normalized := paths.NormalizePath(query)
		if id, ok := fileMap[normalized]; ok {
			for _, c := range components {
				if c.ID == id {
					return c
				}
			}
		}
	}

	// 4. Substring in either direction
	for _, c := range components {
		lowerName := strings.ToLower(c.Name)
		if strings.Contains(lowerName, lowerQuery) || strings.Contains(lowerQuery, lowerName) {
			return c
		}
	}

	// 5. Config file substring
	for _, c := range components {
		for _, cf := range c.Source.ConfigFiles {
			if strings.Contains(strings.ToLower(cf), lowerQuery) {
				return c
			}
		}
	}

	return nil
}

// Candidate is a scored fuzzy match
type Candidate struct {
	Component *model.Component `json:"component"`
	Score     int              `json:"score"`
}

// FindCandidates scores every component name against the query and returns
// the top maxResults (DefaultMaxCandidates when <=0). Scoring: common-prefix
// length earns a bonus, absolute length difference a penalty, substring
// containment a bonus. An exact match always ranks first.
func FindCandidates(query string, components []*model.Component, maxResults int) []Candidate {
	if query == "" || len(components) == 0 {
		return nil
	}
	if maxResults <= 0 {
		maxResults = DefaultMaxCandidates
	}

	lowerQuery := strings.ToLower(query)
	candidates := make([]Candidate, 0, len(components))
	for _, c := range components {
		score := scoreName(lowerQuery, strings.ToLower(c.Name))
		if score <= 0 {
			continue
		}
		candidates = append(candidates, Candidate{Component: c, Score: score})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	if len(candidates) > maxResults {
		candidates = candidates[:maxResults]
	}
	return candidates
}

const exactMatchScore = 1000

func scoreName(query, name string) int {
	if query == name {
		return exactMatchScore
	}

	score := 0

	// Common prefix bonus
	prefix := 0
	for prefix < len(query) && prefix < len(name) && query[prefix] == name[prefix] {
		prefix++
	}
	score += prefix * 10

	// Length difference penalty
	diff := len(query) - len(name)
	if diff < 0 {
		diff = -diff
	}
	score -= diff

	// Containment bonus
	if strings.Contains(name, query) || strings.Contains(query, name) {
		score += 20
	}

	return score
}
