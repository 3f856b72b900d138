package ordering

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"pgregory.net/rapid"

	"github.com/casinohub/backend/internal/models"
)

func genCasinos(t *rapid.T) []models.Casino {
	n := rapid.IntRange(0, 12).Draw(t, "n")
	out := make([]models.Casino, n)
	for i := 0; i < n; i++ {
		var cats []models.Category
		order := map[models.Category]int{}
		for _, c := range models.Categories {
			if rapid.Bool().Draw(t, "tagged") {
				cats = append(cats, c)
			}
			// ranks may exist for untagged categories and may collide
			if rapid.Bool().Draw(t, "ranked") {
				order[c] = rapid.IntRange(0, 4).Draw(t, "rank")
			}
		}
		out[i] = models.Casino{
			ID:            uuid.New(),
			Name:          "casino",
			Categories:    cats,
			CategoryOrder: order,
			IsActive:      rapid.IntRange(0, 4).Draw(t, "active") > 0,
			// distinct timestamps
			CreatedAt: epoch.Add(time.Duration(i*7+rapid.IntRange(0, 6).Draw(t, "jitter")) * time.Second),
		}
	}
	return out
}

func members(casinos []models.Casino, k models.Category) []uuid.UUID {
	var ids []uuid.UUID
	for _, c := range casinos {
		if c.HasCategory(k) {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

func TestUnfilteredListIsNewestFirstProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		list := List(genCasinos(t), Query{})
		for i := 1; i < len(list); i++ {
			if !list[i-1].CreatedAt.After(list[i].CreatedAt) {
				t.Fatalf("position %d not strictly older than %d", i, i-1)
			}
		}
	})
}

func TestCategoryListMembershipProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		casinos := genCasinos(t)
		k := rapid.SampledFrom(models.Categories).Draw(t, "category")
		list := List(casinos, Query{Category: k})

		want := 0
		for _, c := range casinos {
			if c.IsActive && c.HasCategory(k) {
				want++
			}
		}
		if len(list) != want {
			t.Fatalf("expected %d casinos, got %d", want, len(list))
		}
		for i, c := range list {
			if !c.IsActive || !c.HasCategory(k) {
				t.Fatalf("casino %d should not be listed under %s", i, k)
			}
			if i > 0 {
				prev, _ := list[i-1].Rank(k)
				cur, _ := c.Rank(k)
				if prev > cur {
					t.Fatalf("rank order broken at %d: %d > %d", i, prev, cur)
				}
				if prev == cur && !list[i-1].CreatedAt.After(c.CreatedAt) {
					t.Fatalf("tie at %d not broken newest first", i)
				}
			}
		}
	})
}

func TestReorderIsReflectedProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		casinos := genCasinos(t)
		k := rapid.SampledFrom(models.Categories).Draw(t, "category")
		other := rapid.SampledFrom(models.Categories).Filter(func(c models.Category) bool { return c != k }).Draw(t, "other")

		ids := rapid.Permutation(members(casinos, k)).Draw(t, "order")
		if ids == nil {
			ids = []uuid.UUID{}
		}
		before := List(casinos, Query{Category: other})

		plan, err := PlanReorder(k, ids, casinos)
		if err != nil {
			t.Fatalf("plan: %v", err)
		}
		plan.Apply(casinos)

		pos := make(map[uuid.UUID]int, len(ids))
		for i, id := range ids {
			pos[id] = i
		}
		list := List(casinos, Query{Category: k})
		for i := 1; i < len(list); i++ {
			if pos[list[i-1].ID] > pos[list[i].ID] {
				t.Fatalf("listing %s does not follow the submitted order at %d", k, i)
			}
		}

		after := List(casinos, Query{Category: other})
		if len(before) != len(after) {
			t.Fatalf("listing %s changed size", other)
		}
		for i := range before {
			if before[i].ID != after[i].ID {
				t.Fatalf("listing %s changed order at %d", other, i)
			}
		}
	})
}

func TestReorderSubsetKeepsOmittedRanksProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		casinos := genCasinos(t)
		k := rapid.SampledFrom(models.Categories).Draw(t, "category")
		all := members(casinos, k)
		if len(all) == 0 {
			t.Skip("no members")
		}
		keep := rapid.IntRange(0, len(all)).Draw(t, "keep")
		ids := rapid.Permutation(all).Draw(t, "order")[:keep]

		prior := make(map[uuid.UUID]int)
		for _, c := range casinos {
			prior[c.ID] = c.CategoryOrder[k]
		}

		plan, err := PlanReorder(k, ids, casinos)
		if err != nil {
			t.Fatalf("plan: %v", err)
		}
		plan.Apply(casinos)

		for _, c := range casinos {
			if _, listed := plan.Ranks[c.ID]; listed {
				continue
			}
			if c.CategoryOrder[k] != prior[c.ID] {
				t.Fatalf("omitted casino rank changed from %d to %d", prior[c.ID], c.CategoryOrder[k])
			}
		}
	})
}

func TestBannerSlotUniquenessProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var stored []models.Banner
		steps := rapid.IntRange(1, 40).Draw(t, "steps")
		for s := 0; s < steps; s++ {
			candidate := models.Banner{
				ID:       uuid.New(),
				PageType: rapid.SampledFrom(models.Placements).Draw(t, "page"),
				Position: rapid.IntRange(0, 4).Draw(t, "position"),
				IsActive: rapid.Bool().Draw(t, "active"),
			}
			update := len(stored) > 0 && rapid.Bool().Draw(t, "update")
			idx := -1
			if update {
				idx = rapid.IntRange(0, len(stored)-1).Draw(t, "target")
				candidate.ID = stored[idx].ID
			}
			if err := CheckPosition(stored, candidate); err != nil {
				continue
			}
			if idx >= 0 {
				stored[idx] = candidate
			} else {
				stored = append(stored, candidate)
			}
		}

		seen := map[models.Placement]map[int]bool{}
		for _, b := range stored {
			if !b.IsActive {
				continue
			}
			if seen[b.PageType] == nil {
				seen[b.PageType] = map[int]bool{}
			}
			if seen[b.PageType][b.Position] {
				t.Fatalf("two active banners at %s/%d", b.PageType, b.Position)
			}
			seen[b.PageType][b.Position] = true
		}
	})
}
