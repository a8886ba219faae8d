package pokedex

import (
	"cmp"
	"slices"
	"strings"

	"github.com/ferro-labs/pokedex/pokeapi"
)

// FilterAll matches every learn method or version group.
const FilterAll = "all"

var learnMethodPriority = map[string]int{
	"level-up": 1,
	"machine":  2,
	"tutor":    3,
	"egg":      4,
}

// MoveEntry is one (move, version group) row of a pokemon's move table.
type MoveEntry struct {
	Name         string `json:"name"`
	URL          string `json:"url"`
	Level        int    `json:"level"`
	LearnMethod  string `json:"learn_method"`
	VersionGroup string `json:"version_group"`
}

// MoveFilter narrows and paginates a move table. Empty LearnMethod or
// VersionGroup, or FilterAll, match anything. Search is a case-insensitive
// substring of the move name. Page is 1-based.
type MoveFilter struct {
	Search       string
	LearnMethod  string
	VersionGroup string
	Page         int
	PerPage      int
}

// MoveTable is one page of a filtered move table plus the filter options
// available for the pokemon.
type MoveTable struct {
	Entries       []MoveEntry `json:"entries"`
	Total         int         `json:"total"`
	Page          int         `json:"page"`
	PerPage       int         `json:"per_page"`
	TotalPages    int         `json:"total_pages"`
	LearnMethods  []string    `json:"learn_methods"`
	VersionGroups []string    `json:"version_groups"`
}

// BuildMoveTable flattens every move of p across its version groups,
// applies f and returns the requested page. A page past the end is empty,
// however large page or PerPage are.
func BuildMoveTable(p *pokeapi.Pokemon, f MoveFilter) MoveTable {
	var rows []MoveEntry
	methods := map[string]struct{}{}
	groups := map[string]struct{}{}
	for _, m := range p.Moves {
		for _, d := range m.VersionGroupDetails {
			rows = append(rows, MoveEntry{
				Name:         m.Move.Name,
				URL:          m.Move.URL,
				Level:        d.LevelLearnedAt,
				LearnMethod:  d.MoveLearnMethod.Name,
				VersionGroup: d.VersionGroup.Name,
			})
			methods[d.MoveLearnMethod.Name] = struct{}{}
			groups[d.VersionGroup.Name] = struct{}{}
		}
	}

	search := strings.ToLower(strings.TrimSpace(f.Search))
	filtered := make([]MoveEntry, 0, len(rows))
	for _, r := range rows {
		if search != "" && !strings.Contains(strings.ToLower(r.Name), search) {
			continue
		}
		if !matchesFilter(f.LearnMethod, r.LearnMethod) || !matchesFilter(f.VersionGroup, r.VersionGroup) {
			continue
		}
		filtered = append(filtered, r)
	}

	perPage := f.PerPage
	if perPage < 1 {
		perPage = DefaultMovesPerPage
	}
	page := f.Page
	if page < 1 {
		page = 1
	}
	total := len(filtered)
	start := total
	if page-1 <= total/perPage {
		start = (page - 1) * perPage
	}
	end := start + min(perPage, total-start)
	pages := total / perPage
	if total%perPage != 0 {
		pages++
	}

	versionGroups := keys(groups)
	slices.Sort(versionGroups)

	return MoveTable{
		Entries:       filtered[start:end],
		Total:         total,
		Page:          page,
		PerPage:       perPage,
		TotalPages:    pages,
		LearnMethods:  SortLearnMethods(keys(methods)),
		VersionGroups: versionGroups,
	}
}

func matchesFilter(want, got string) bool {
	return want == "" || want == FilterAll || want == got
}

// SortLearnMethods orders learn methods level-up, machine, tutor, egg,
// then any other method alphabetically. It sorts in place and returns ms.
func SortLearnMethods(ms []string) []string {
	slices.SortFunc(ms, func(a, b string) int {
		if c := cmp.Compare(methodRank(a), methodRank(b)); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})
	return ms
}

func methodRank(m string) int {
	if r, ok := learnMethodPriority[m]; ok {
		return r
	}
	return len(learnMethodPriority) + 1
}

func keys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
