package giveaways

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/casinohub/backend/internal/apperr"
	"github.com/casinohub/backend/internal/models"
	"github.com/casinohub/backend/pkg/database"
)

// Entry is a giveaway joined with its casino.
type Entry struct {
	Giveaway models.Giveaway
	Casino   models.CasinoRef
}

// Repository handles giveaway persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a giveaway repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const entrySelect = `SELECT g.id, g.title, g.description, g.casino_id, g.image, g.background_color, g.start_date,
		g.end_date, g.deposit_requirements, g.prize_pool, g.prize_distribution, g.additional_notes, g.custom_link,
		g.button_text, g.requirements, g.bonus_details, g.is_active, g.created_at,
		c.id, c.name, c.logo, c.play_now_url
	FROM giveaways g JOIN casinos c ON c.id = g.casino_id`

func scanEntry(row pgx.Row) (*Entry, error) {
	var e Entry
	g := &e.Giveaway
	err := row.Scan(&g.ID, &g.Title, &g.Description, &g.CasinoID, &g.Image, &g.BackgroundColor, &g.StartDate,
		&g.EndDate, &g.DepositRequirements, &g.PrizePool, &g.PrizeDistribution, &g.AdditionalNotes, &g.CustomLink,
		&g.ButtonText, &g.Requirements, &g.BonusDetails, &g.IsActive, &g.CreatedAt,
		&e.Casino.ID, &e.Casino.Name, &e.Casino.Logo, &e.Casino.PlayNowURL)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Giveaway")
		}
		return nil, err
	}
	return &e, nil
}

// List returns giveaways newest first, active ones only unless includeInactive.
func (r *Repository) List(ctx context.Context, includeInactive bool) ([]Entry, error) {
	q := entrySelect
	if !includeInactive {
		q += ` WHERE g.is_active`
	}
	q += ` ORDER BY g.created_at DESC, g.id`

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *e)
	}
	return list, rows.Err()
}

// GetByID returns a giveaway with its casino.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Entry, error) {
	return scanEntry(r.pool.QueryRow(ctx, entrySelect+` WHERE g.id = $1`, id))
}

// CasinoRef loads the casino fields inlined into giveaway responses.
func (r *Repository) CasinoRef(ctx context.Context, id uuid.UUID) (models.CasinoRef, error) {
	var ref models.CasinoRef
	err := r.pool.QueryRow(ctx, `SELECT id, name, logo, play_now_url FROM casinos WHERE id = $1`, id).
		Scan(&ref.ID, &ref.Name, &ref.Logo, &ref.PlayNowURL)
	if errors.Is(err, pgx.ErrNoRows) {
		return ref, apperr.NotFound("Casino")
	}
	return ref, err
}

// missingCasino maps a foreign key failure on casino_id to the same error the handler reports.
func missingCasino(err error) error {
	if database.IsForeignKeyViolation(err) {
		return apperr.Validation("Casino not found")
	}
	return err
}

// Create inserts g and fills its ID and creation time.
func (r *Repository) Create(ctx context.Context, g *models.Giveaway) error {
	const q = `INSERT INTO giveaways (title, description, casino_id, image, background_color, start_date, end_date,
			deposit_requirements, prize_pool, prize_distribution, additional_notes, custom_link, button_text,
			requirements, bonus_details, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id, created_at`
	err := r.pool.QueryRow(ctx, q, g.Title, g.Description, g.CasinoID, g.Image, g.BackgroundColor, g.StartDate,
		g.EndDate, g.DepositRequirements, g.PrizePool, g.PrizeDistribution, g.AdditionalNotes, g.CustomLink,
		g.ButtonText, g.Requirements, g.BonusDetails, g.IsActive).Scan(&g.ID, &g.CreatedAt)
	return missingCasino(err)
}

// Update writes every mutable field of g.
func (r *Repository) Update(ctx context.Context, g *models.Giveaway) error {
	const q = `UPDATE giveaways SET title = $2, description = $3, casino_id = $4, image = $5, background_color = $6,
			start_date = $7, end_date = $8, deposit_requirements = $9, prize_pool = $10, prize_distribution = $11,
			additional_notes = $12, custom_link = $13, button_text = $14, requirements = $15, bonus_details = $16,
			is_active = $17
		WHERE id = $1`
	tag, err := r.pool.Exec(ctx, q, g.ID, g.Title, g.Description, g.CasinoID, g.Image, g.BackgroundColor,
		g.StartDate, g.EndDate, g.DepositRequirements, g.PrizePool, g.PrizeDistribution, g.AdditionalNotes,
		g.CustomLink, g.ButtonText, g.Requirements, g.BonusDetails, g.IsActive)
	if err != nil {
		return missingCasino(err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Giveaway")
	}
	return nil
}

// Delete removes a giveaway.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM giveaways WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Giveaway")
	}
	return nil
}
