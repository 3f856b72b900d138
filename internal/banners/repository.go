package banners

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/casinohub/backend/internal/apperr"
	"github.com/casinohub/backend/internal/models"
	"github.com/casinohub/backend/internal/ordering"
	"github.com/casinohub/backend/pkg/database"
)

// activeSlotIndex is the partial unique index on (page_type, position) WHERE is_active.
const activeSlotIndex = "uq_banners_active_slot"

// Filter selects banners for a listing.
type Filter struct {
	PageType        models.Placement // empty lists every page
	IncludeInactive bool
}

// Repository handles banner persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a banner repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const bannerColumns = `id, page_type, image, title, welcome_bonus, free_spins_text, rtp, payout_time,
	payment_methods, play_now_url, background_color, position, is_active, created_at`

func scanBanner(row pgx.Row) (*models.Banner, error) {
	var (
		b       models.Banner
		page    string
		methods []byte
	)
	err := row.Scan(&b.ID, &page, &b.Image, &b.Title, &b.WelcomeBonus, &b.FreeSpinsText, &b.RTP, &b.PayoutTime,
		&methods, &b.PlayNowURL, &b.BackgroundColor, &b.Position, &b.IsActive, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Banner")
		}
		return nil, err
	}
	b.PageType = models.Placement(page)
	if err := json.Unmarshal(methods, &b.PaymentMethods); err != nil {
		return nil, fmt.Errorf("decode payment_methods for %s: %w", b.ID, err)
	}
	return &b, nil
}

func collectBanners(rows pgx.Rows) ([]models.Banner, error) {
	defer rows.Close()
	list := []models.Banner{}
	for rows.Next() {
		b, err := scanBanner(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *b)
	}
	return list, rows.Err()
}

// List returns banners matching f ordered by position.
func (r *Repository) List(ctx context.Context, f Filter) ([]models.Banner, error) {
	var (
		conds []string
		args  []interface{}
	)
	if !f.IncludeInactive {
		conds = append(conds, "is_active")
	}
	if f.PageType != "" {
		args = append(args, string(f.PageType))
		conds = append(conds, fmt.Sprintf("page_type = $%d", len(args)))
	}
	q := `SELECT ` + bannerColumns + ` FROM banners`
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY position, created_at DESC"

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	return collectBanners(rows)
}

// GetByID returns a banner by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Banner, error) {
	return scanBanner(r.pool.QueryRow(ctx, `SELECT `+bannerColumns+` FROM banners WHERE id = $1`, id))
}

// lockPage loads and locks the active banners of page for the rest of tx.
func lockPage(ctx context.Context, tx pgx.Tx, page models.Placement) ([]models.Banner, error) {
	rows, err := tx.Query(ctx, `SELECT `+bannerColumns+` FROM banners WHERE page_type = $1 AND is_active
		ORDER BY position FOR UPDATE`, string(page))
	if err != nil {
		return nil, err
	}
	return collectBanners(rows)
}

// slotError maps a lost race on the active slot index to the same error the check returns.
func slotError(err error, b *models.Banner) error {
	if database.IsUniqueViolation(err, activeSlotIndex) {
		return apperr.PositionTaken(b.Position, string(b.PageType))
	}
	return err
}

// Create inserts b after checking its slot is free.
func (r *Repository) Create(ctx context.Context, b *models.Banner) error {
	methods, err := json.Marshal(b.PaymentMethods)
	if err != nil {
		return fmt.Errorf("encode payment_methods: %w", err)
	}
	return database.InTx(ctx, r.pool, func(tx pgx.Tx) error {
		existing, err := lockPage(ctx, tx, b.PageType)
		if err != nil {
			return err
		}
		if err := ordering.CheckPosition(existing, *b); err != nil {
			return err
		}
		const q = `INSERT INTO banners (page_type, image, title, welcome_bonus, free_spins_text, rtp, payout_time,
				payment_methods, play_now_url, background_color, position, is_active)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8::jsonb, $9, $10, $11, $12)
			RETURNING id, created_at`
		err = tx.QueryRow(ctx, q, string(b.PageType), b.Image, b.Title, b.WelcomeBonus, b.FreeSpinsText, b.RTP,
			b.PayoutTime, string(methods), b.PlayNowURL, b.BackgroundColor, b.Position, b.IsActive).
			Scan(&b.ID, &b.CreatedAt)
		return slotError(err, b)
	})
}

// Update writes every mutable field of b after checking its slot is free.
func (r *Repository) Update(ctx context.Context, b *models.Banner) error {
	methods, err := json.Marshal(b.PaymentMethods)
	if err != nil {
		return fmt.Errorf("encode payment_methods: %w", err)
	}
	return database.InTx(ctx, r.pool, func(tx pgx.Tx) error {
		existing, err := lockPage(ctx, tx, b.PageType)
		if err != nil {
			return err
		}
		if err := ordering.CheckPosition(existing, *b); err != nil {
			return err
		}
		const q = `UPDATE banners SET page_type = $2, image = $3, title = $4, welcome_bonus = $5,
				free_spins_text = $6, rtp = $7, payout_time = $8, payment_methods = $9::jsonb, play_now_url = $10,
				background_color = $11, position = $12, is_active = $13
			WHERE id = $1`
		tag, err := tx.Exec(ctx, q, b.ID, string(b.PageType), b.Image, b.Title, b.WelcomeBonus, b.FreeSpinsText,
			b.RTP, b.PayoutTime, string(methods), b.PlayNowURL, b.BackgroundColor, b.Position, b.IsActive)
		if err != nil {
			return slotError(err, b)
		}
		if tag.RowsAffected() == 0 {
			return apperr.NotFound("Banner")
		}
		return nil
	})
}

// Delete removes a banner.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM banners WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Banner")
	}
	return nil
}
