package casinos

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

// Repository handles casino persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a casino repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const casinoColumns = `id, name, logo, rating, deposit_bonus, free_spins, signup_spins, play_now_url,
	features, categories, category_order, is_active, created_at`

func scanCasino(row pgx.Row) (*models.Casino, error) {
	var (
		c          models.Casino
		categories []string
		order      []byte
	)
	err := row.Scan(&c.ID, &c.Name, &c.Logo, &c.Rating, &c.DepositBonus, &c.FreeSpins, &c.SignupSpins, &c.PlayNowURL,
		&c.Features, &categories, &order, &c.IsActive, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Casino")
		}
		return nil, err
	}
	c.Categories = make([]models.Category, len(categories))
	for i, k := range categories {
		c.Categories[i] = models.Category(k)
	}
	c.CategoryOrder = map[models.Category]int{}
	if len(order) > 0 {
		if err := json.Unmarshal(order, &c.CategoryOrder); err != nil {
			return nil, fmt.Errorf("decode category_order for %s: %w", c.ID, err)
		}
	}
	if c.Features == nil {
		c.Features = []string{}
	}
	return &c, nil
}

func collectCasinos(rows pgx.Rows) ([]models.Casino, error) {
	defer rows.Close()
	list := []models.Casino{}
	for rows.Next() {
		c, err := scanCasino(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *c)
	}
	return list, rows.Err()
}

func categoryStrings(cats []models.Category) []string {
	out := make([]string, len(cats))
	for i, k := range cats {
		out[i] = string(k)
	}
	return out
}

func encodeOrder(order map[models.Category]int) (string, error) {
	if order == nil {
		return "{}", nil
	}
	b, err := json.Marshal(order)
	if err != nil {
		return "", fmt.Errorf("encode category_order: %w", err)
	}
	return string(b), nil
}

// escapeLike quotes the LIKE wildcards in a user supplied search term.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// List returns casinos matching q, newest first. Category ranking is left to the ordering engine.
func (r *Repository) List(ctx context.Context, q ordering.Query) ([]models.Casino, error) {
	var (
		conds []string
		args  []interface{}
	)
	if !q.IncludeInactive {
		conds = append(conds, "is_active")
	}
	if q.Category != "" {
		args = append(args, string(q.Category))
		conds = append(conds, fmt.Sprintf("$%d = ANY(categories)", len(args)))
	}
	if term := strings.TrimSpace(q.Search); term != "" {
		args = append(args, "%"+escapeLike(term)+"%")
		conds = append(conds, fmt.Sprintf("name ILIKE $%d", len(args)))
	}
	query := `SELECT ` + casinoColumns + ` FROM casinos`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC, id"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectCasinos(rows)
}

// GetByID returns a casino by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Casino, error) {
	return scanCasino(r.pool.QueryRow(ctx, `SELECT `+casinoColumns+` FROM casinos WHERE id = $1`, id))
}

// Create inserts c and fills its ID and creation time.
func (r *Repository) Create(ctx context.Context, c *models.Casino) error {
	order, err := encodeOrder(c.CategoryOrder)
	if err != nil {
		return err
	}
	const q = `INSERT INTO casinos (name, logo, rating, deposit_bonus, free_spins, signup_spins, play_now_url,
			features, categories, category_order, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10::jsonb, $11)
		RETURNING id, created_at`
	return r.pool.QueryRow(ctx, q, c.Name, c.Logo, c.Rating, c.DepositBonus, c.FreeSpins, c.SignupSpins, c.PlayNowURL,
		c.Features, categoryStrings(c.Categories), order, c.IsActive).Scan(&c.ID, &c.CreatedAt)
}

// Update writes the editable fields of c. Ranks belong to Reorder and are
// read back into c.CategoryOrder instead of being written.
func (r *Repository) Update(ctx context.Context, c *models.Casino) error {
	const q = `UPDATE casinos SET name = $2, logo = $3, rating = $4, deposit_bonus = $5, free_spins = $6,
			signup_spins = $7, play_now_url = $8, features = $9, categories = $10, is_active = $11
		WHERE id = $1
		RETURNING category_order`
	var order []byte
	err := r.pool.QueryRow(ctx, q, c.ID, c.Name, c.Logo, c.Rating, c.DepositBonus, c.FreeSpins, c.SignupSpins,
		c.PlayNowURL, c.Features, categoryStrings(c.Categories), c.IsActive).Scan(&order)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.NotFound("Casino")
		}
		return err
	}
	c.CategoryOrder = map[models.Category]int{}
	if len(order) > 0 {
		if err := json.Unmarshal(order, &c.CategoryOrder); err != nil {
			return fmt.Errorf("decode category_order for %s: %w", c.ID, err)
		}
	}
	return nil
}

// Delete removes a casino. Casinos still referenced by giveaways cannot be removed.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	var refs int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM giveaways WHERE casino_id = $1`, id).Scan(&refs); err != nil {
		return err
	}
	if refs > 0 {
		return referencedError(refs)
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM casinos WHERE id = $1`, id)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return apperr.Conflict("Casino is referenced by giveaways; delete them first")
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Casino")
	}
	return nil
}

func referencedError(n int) error {
	noun := "giveaways"
	if n == 1 {
		noun = "giveaway"
	}
	return apperr.Conflict(fmt.Sprintf("Casino is referenced by %d %s; delete them first", n, noun))
}

// Reorder assigns each listed casino its index as rank in category, in one transaction.
// The listed rows are locked while the plan is validated against them.
func (r *Repository) Reorder(ctx context.Context, category models.Category, ids []uuid.UUID) error {
	return database.InTx(ctx, r.pool, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `SELECT `+casinoColumns+` FROM casinos WHERE id = ANY($1) ORDER BY id FOR UPDATE`, ids)
		if err != nil {
			return err
		}
		current, err := collectCasinos(rows)
		if err != nil {
			return err
		}

		plan, err := ordering.PlanReorder(category, ids, current)
		if err != nil {
			return err
		}

		batch := &pgx.Batch{}
		for _, id := range plan.IDs {
			batch.Queue(`UPDATE casinos SET category_order = jsonb_set(category_order, ARRAY[$1::text], to_jsonb($2::int))
				WHERE id = $3`, string(plan.Category), plan.Ranks[id], id)
		}
		return tx.SendBatch(ctx, batch).Close()
	})
}
