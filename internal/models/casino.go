package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Category is a listing tag a casino can carry. Each category keeps its own ordering.
type Category string

const (
	CategoryTopRated Category = "Top-rated"
	CategoryNew      Category = "New"
	CategoryTopPnP   Category = "Top P&P"
	CategoryFeatured Category = "Featured"
)

// Categories lists every valid category tag.
var Categories = []Category{CategoryTopRated, CategoryNew, CategoryTopPnP, CategoryFeatured}

// ParseCategory returns the category matching s exactly.
func ParseCategory(s string) (Category, bool) {
	for _, c := range Categories {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// Valid reports whether c is one of the four tags.
func (c Category) Valid() bool {
	_, ok := ParseCategory(string(c))
	return ok
}

// Casino is a listed operator.
type Casino struct {
	ID            uuid.UUID        `json:"id"`
	Name          string           `json:"name"`
	Logo          string           `json:"logo"`
	Rating        float64          `json:"rating"`
	DepositBonus  string           `json:"depositBonus"`
	FreeSpins     int              `json:"freeSpins"`
	SignupSpins   int              `json:"signupSpins"`
	PlayNowURL    string           `json:"playNowUrl"`
	Features      []string         `json:"features"`
	Categories    []Category       `json:"categories"`
	CategoryOrder map[Category]int `json:"categoryOrder"`
	IsActive      bool             `json:"isActive"`
	CreatedAt     time.Time        `json:"createdAt"`
}

// HasCategory reports whether the casino is tagged with k.
func (c *Casino) HasCategory(k Category) bool {
	for _, cat := range c.Categories {
		if cat == k {
			return true
		}
	}
	return false
}

// Rank returns the casino's rank within k. Untagged casinos have no rank; an unset rank reads as 0.
func (c *Casino) Rank(k Category) (int, bool) {
	if !c.HasCategory(k) {
		return 0, false
	}
	return c.CategoryOrder[k], true
}

// MatchesName reports whether the name contains term, case-insensitively.
func (c *Casino) MatchesName(term string) bool {
	term = strings.TrimSpace(term)
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(c.Name), strings.ToLower(term))
}
