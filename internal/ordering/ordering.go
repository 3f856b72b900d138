// Package ordering decides which casinos appear for a category and in what order,
// plans category reorders, and enforces the one-banner-per-slot rule.
//
// Everything here is pure: callers load records, ask the engine, then persist.
package ordering

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/casinohub/backend/internal/apperr"
	"github.com/casinohub/backend/internal/models"
)

// Query selects casinos for a listing.
type Query struct {
	Category        models.Category // empty lists every category
	Search          string          // case-insensitive name substring
	IncludeInactive bool
}

// ParseCategory validates a category coming from a request. Empty input means no filter.
func ParseCategory(raw string) (models.Category, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	c, ok := models.ParseCategory(raw)
	if !ok {
		return "", apperr.Validation("Invalid category")
	}
	return c, nil
}

// List filters casinos by q and returns them in display order. The input slice is not modified.
func List(casinos []models.Casino, q Query) []models.Casino {
	out := Filter(casinos, q)
	Sort(out, q.Category)
	return out
}

// Filter keeps casinos matching q, preserving input order.
func Filter(casinos []models.Casino, q Query) []models.Casino {
	out := make([]models.Casino, 0, len(casinos))
	for i := range casinos {
		c := &casinos[i]
		if !q.IncludeInactive && !c.IsActive {
			continue
		}
		if q.Category != "" && !c.HasCategory(q.Category) {
			continue
		}
		if !c.MatchesName(q.Search) {
			continue
		}
		out = append(out, *c)
	}
	return out
}

// Sort orders casinos in place. With a category: rank ascending, then newest first.
// Without one: newest first. Only the category's own rank is consulted.
func Sort(casinos []models.Casino, category models.Category) {
	sort.SliceStable(casinos, func(i, j int) bool {
		return Less(&casinos[i], &casinos[j], category)
	})
}

// Less is the display-order comparator used by Sort.
func Less(a, b *models.Casino, category models.Category) bool {
	if category != "" {
		ra, _ := a.Rank(category)
		rb, _ := b.Rank(category)
		if ra != rb {
			return ra < rb
		}
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID.String() < b.ID.String()
}

// ReorderPlan is a validated set of rank assignments for one category.
type ReorderPlan struct {
	Category models.Category
	IDs      []uuid.UUID
	Ranks    map[uuid.UUID]int
}

// PlanReorder validates ids against the current members of the category and assigns
// each listed casino its zero-based index as rank. Members not listed keep their rank.
//
// current must contain every casino referenced by ids that exists in the store; an id
// missing from current, an id whose casino is not tagged with category, or a repeated
// id rejects the whole plan.
func PlanReorder(category models.Category, ids []uuid.UUID, current []models.Casino) (ReorderPlan, error) {
	if !category.Valid() {
		return ReorderPlan{}, apperr.Validation("Invalid category")
	}
	if ids == nil {
		return ReorderPlan{}, apperr.Validation("Category and ordered casino IDs array are required")
	}

	byID := make(map[uuid.UUID]*models.Casino, len(current))
	for i := range current {
		byID[current[i].ID] = &current[i]
	}

	plan := ReorderPlan{Category: category, IDs: ids, Ranks: make(map[uuid.UUID]int, len(ids))}
	for idx, id := range ids {
		if _, dup := plan.Ranks[id]; dup {
			return ReorderPlan{}, apperr.Validation(fmt.Sprintf("casino %s is listed more than once", id))
		}
		c, ok := byID[id]
		if !ok {
			return ReorderPlan{}, apperr.Validation(fmt.Sprintf("casino %s does not exist", id))
		}
		if !c.HasCategory(category) {
			return ReorderPlan{}, apperr.Validation(fmt.Sprintf("casino %s is not in category %s", id, category))
		}
		plan.Ranks[id] = idx
	}
	return plan, nil
}

// Apply writes the plan's ranks onto the matching casinos in place.
func (p ReorderPlan) Apply(casinos []models.Casino) {
	for i := range casinos {
		rank, ok := p.Ranks[casinos[i].ID]
		if !ok {
			continue
		}
		if casinos[i].CategoryOrder == nil {
			casinos[i].CategoryOrder = make(map[models.Category]int, 1)
		}
		casinos[i].CategoryOrder[p.Category] = rank
	}
}
