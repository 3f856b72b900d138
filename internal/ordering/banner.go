package ordering

import (
	"github.com/google/uuid"

	"github.com/casinohub/backend/internal/apperr"
	"github.com/casinohub/backend/internal/models"
)

// ValidatePosition checks the slot number is on the page.
func ValidatePosition(position int) error {
	if position < models.MinBannerPosition || position > models.MaxBannerPosition {
		return apperr.Validation("Position must be 1, 2, or 3")
	}
	return nil
}

// CheckPosition fails when another active banner on the candidate's page already holds
// its position. Inactive candidates never conflict. existing may include the candidate.
func CheckPosition(existing []models.Banner, candidate models.Banner) error {
	if err := ValidatePosition(candidate.Position); err != nil {
		return err
	}
	if !candidate.IsActive {
		return nil
	}
	if holder := Holder(existing, candidate); holder != nil {
		return apperr.PositionTaken(candidate.Position, string(candidate.PageType))
	}
	return nil
}

// Holder returns the other active banner occupying the candidate's slot, if any.
func Holder(existing []models.Banner, candidate models.Banner) *models.Banner {
	for i := range existing {
		b := &existing[i]
		if b.ID == candidate.ID || !b.IsActive {
			continue
		}
		if b.PageType == candidate.PageType && b.Position == candidate.Position {
			return b
		}
	}
	return nil
}

// Slots reports which positions on a page are held by active banners other than exclude.
// Pass uuid.Nil to count every banner.
func Slots(existing []models.Banner, page models.Placement, exclude uuid.UUID) models.BannerSlots {
	held := make(map[int]bool, models.MaxBannerPosition)
	for i := range existing {
		b := &existing[i]
		if !b.IsActive || b.PageType != page {
			continue
		}
		if exclude != uuid.Nil && b.ID == exclude {
			continue
		}
		held[b.Position] = true
	}
	slots := models.BannerSlots{PageType: page, Taken: []int{}, Available: []int{}}
	for p := models.MinBannerPosition; p <= models.MaxBannerPosition; p++ {
		if held[p] {
			slots.Taken = append(slots.Taken, p)
		} else {
			slots.Available = append(slots.Available, p)
		}
	}
	return slots
}
