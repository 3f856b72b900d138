package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Giveaway defaults applied on create when a field is omitted.
const (
	DefaultDepositRequirements = "Every 25€ deposit gives you 1 ticket, no max tickets."
	DefaultPrizePool           = "2000€"
	DefaultPrizeDistribution   = "1st place - 750€\n2nd-3rd place - 500€\n4th place - 250€\n5th-9th place - 50€"
	DefaultAdditionalNotes     = "Prize cash will be added to your player account"
	DefaultButtonText          = "Join Giveaway"
)

// GiveawayStatus is derived from the campaign window.
type GiveawayStatus string

const (
	GiveawayUpcoming GiveawayStatus = "upcoming"
	GiveawayRunning  GiveawayStatus = "running"
	GiveawayEnded    GiveawayStatus = "ended"
)

// Giveaway is a time-boxed campaign tied to one casino.
type Giveaway struct {
	ID                  uuid.UUID `json:"id"`
	Title               string    `json:"title"`
	Description         string    `json:"description"`
	CasinoID            uuid.UUID `json:"casinoId"`
	Image               string    `json:"image,omitempty"`
	BackgroundColor     string    `json:"backgroundColor"`
	StartDate           time.Time `json:"startDate"`
	EndDate             time.Time `json:"endDate"`
	DepositRequirements string    `json:"depositRequirements"`
	PrizePool           string    `json:"prizePool"`
	PrizeDistribution   string    `json:"prizeDistribution"`
	AdditionalNotes     string    `json:"additionalNotes"`
	CustomLink          string    `json:"customLink,omitempty"`
	ButtonText          string    `json:"buttonText"`
	Requirements        string    `json:"requirements,omitempty"`
	BonusDetails        string    `json:"bonusDetails"`
	IsActive            bool      `json:"isActive"`
	CreatedAt           time.Time `json:"createdAt"`
}

// CasinoRef is the casino data inlined into giveaway responses.
type CasinoRef struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Logo       string    `json:"logo"`
	PlayNowURL string    `json:"playNowUrl"`
}

// GiveawayView is a giveaway with its casino and the fields derived from both.
type GiveawayView struct {
	Giveaway
	Casino        CasinoRef      `json:"casino"`
	Link          string         `json:"link"`
	DisplayImage  string         `json:"displayImage"`
	Prizes        []string       `json:"prizes"`
	Status        GiveawayStatus `json:"status"`
	DaysRemaining int            `json:"daysRemaining"`
}

// NewGiveawayView resolves link, image, prize lines and status against now.
func NewGiveawayView(g Giveaway, casino CasinoRef, now time.Time) GiveawayView {
	v := GiveawayView{Giveaway: g, Casino: casino}
	v.Link = g.CustomLink
	if strings.TrimSpace(v.Link) == "" {
		v.Link = casino.PlayNowURL
	}
	v.DisplayImage = g.Image
	if v.DisplayImage == "" {
		v.DisplayImage = casino.Logo
	}
	v.Prizes = PrizeLines(g.PrizeDistribution)
	v.Status = g.Status(now)
	v.DaysRemaining = g.DaysRemaining(now)
	return v
}

// PrizeLines splits a newline-delimited distribution, dropping blank lines.
func PrizeLines(distribution string) []string {
	lines := []string{}
	for _, l := range strings.Split(distribution, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// Status places now relative to the campaign window.
func (g *Giveaway) Status(now time.Time) GiveawayStatus {
	switch {
	case now.Before(g.StartDate):
		return GiveawayUpcoming
	case now.After(g.EndDate):
		return GiveawayEnded
	default:
		return GiveawayRunning
	}
}

// DaysRemaining counts whole days left until the end date, rounded up. Ended campaigns have 0.
func (g *Giveaway) DaysRemaining(now time.Time) int {
	left := g.EndDate.Sub(now)
	if left <= 0 {
		return 0
	}
	days := int(left / (24 * time.Hour))
	if left%(24*time.Hour) != 0 {
		days++
	}
	return days
}
