package models

import (
	"time"

	"github.com/google/uuid"
)

// Placement is the page a banner is shown on.
type Placement string

const (
	PlacementHome       Placement = "home"
	PlacementAllCasinos Placement = "allCasinos"
	PlacementNewCasinos Placement = "newCasinos"
	PlacementTopPayment Placement = "topPayment"
)

// Placements lists every valid placement.
var Placements = []Placement{PlacementHome, PlacementAllCasinos, PlacementNewCasinos, PlacementTopPayment}

// ParsePlacement returns the placement matching s exactly.
func ParsePlacement(s string) (Placement, bool) {
	for _, p := range Placements {
		if string(p) == s {
			return p, true
		}
	}
	return "", false
}

// Banner slots per placement.
const (
	MinBannerPosition = 1
	MaxBannerPosition = 3
)

// Banner defaults applied on create when a field is omitted.
const (
	DefaultBannerRTP        = "95.0%"
	DefaultBannerPayoutTime = "Instant"
	DefaultBannerPlayNowURL = "#"
	DefaultBackgroundColor  = "#1a1e2c"
)

// PaymentMethods flags which payment icons a banner shows.
type PaymentMethods struct {
	Bitcoin    bool `json:"bitcoin"`
	Visa       bool `json:"visa"`
	Mastercard bool `json:"mastercard"`
	Ethereum   bool `json:"ethereum"`
}

// AllPaymentMethods is the default: every method shown.
func AllPaymentMethods() PaymentMethods {
	return PaymentMethods{Bitcoin: true, Visa: true, Mastercard: true, Ethereum: true}
}

// Banner is a promotional hero slot on one page.
type Banner struct {
	ID              uuid.UUID      `json:"id"`
	PageType        Placement      `json:"pageType"`
	Image           string         `json:"image"`
	Title           string         `json:"title"`
	WelcomeBonus    string         `json:"welcomeBonus"`
	FreeSpinsText   string         `json:"freeSpinsText"`
	RTP             string         `json:"rtp"`
	PayoutTime      string         `json:"payoutTime"`
	PaymentMethods  PaymentMethods `json:"paymentMethods"`
	PlayNowURL      string         `json:"playNowUrl"`
	BackgroundColor string         `json:"backgroundColor"`
	Position        int            `json:"position"`
	IsActive        bool           `json:"isActive"`
	CreatedAt       time.Time      `json:"createdAt"`
}

// BannerSlots is the position lookup result for one placement.
type BannerSlots struct {
	PageType  Placement `json:"pageType"`
	Taken     []int     `json:"taken"`
	Available []int     `json:"available"`
}
