package casinos

import (
	"context"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/casinohub/backend/internal/apperr"
	"github.com/casinohub/backend/internal/formdata"
	"github.com/casinohub/backend/internal/media"
	"github.com/casinohub/backend/internal/middleware"
	"github.com/casinohub/backend/internal/models"
	"github.com/casinohub/backend/internal/ordering"
	"github.com/casinohub/backend/pkg/response"
	"github.com/casinohub/backend/pkg/validation"
)

// Store is the casino persistence the handler needs.
type Store interface {
	List(ctx context.Context, q ordering.Query) ([]models.Casino, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Casino, error)
	Create(ctx context.Context, c *models.Casino) error
	Update(ctx context.Context, c *models.Casino) error
	Delete(ctx context.Context, id uuid.UUID) error
	Reorder(ctx context.Context, category models.Category, ids []uuid.UUID) error
}

// ReorderRequest is the body for PUT /casinos/reorder.
type ReorderRequest struct {
	Category  string   `json:"category"`
	CasinoIDs []string `json:"casinoIds"`
}

// casinoRules are the field constraints checked after a form is merged into a casino.
type casinoRules struct {
	Name         string   `json:"name" validate:"required,max=120"`
	Rating       float64  `json:"rating" validate:"gte=0,lte=5"`
	DepositBonus string   `json:"depositBonus" validate:"required"`
	FreeSpins    int      `json:"freeSpins" validate:"gte=0"`
	SignupSpins  int      `json:"signupSpins" validate:"gte=0"`
	PlayNowURL   string   `json:"playNowUrl" validate:"required,link"`
	Features     []string `json:"features" validate:"dive,required"`
	Categories   []string `json:"categories" validate:"dive,category"`
}

// Handler handles casino HTTP endpoints.
type Handler struct {
	store    Store
	files    media.Store
	cleaner  *media.Cleaner
	maxBytes int64
	logger   *zap.Logger
}

// NewHandler creates a casino handler. Logos are saved to files and discarded through cleaner.
func NewHandler(store Store, files media.Store, cleaner *media.Cleaner, maxBytes int64, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, files: files, cleaner: cleaner, maxBytes: maxBytes, logger: logger}
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid casino id")
		return uuid.Nil, false
	}
	return id, true
}

// List handles GET /casinos?category=&search=&includeInactive=.
// includeInactive is only honored for admins.
func (h *Handler) List(c *gin.Context) {
	category, err := ordering.ParseCategory(c.Query("category"))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	q := ordering.Query{Category: category, Search: c.Query("search")}
	if inc, _ := strconv.ParseBool(c.Query("includeInactive")); inc && middleware.IsAdmin(c) {
		q.IncludeInactive = true
	}

	list, err := h.store.List(c.Request.Context(), q)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, ordering.List(list, q))
}

// GetByID handles GET /casinos/:id. Inactive casinos are visible to admins only.
func (h *Handler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	casino, err := h.store.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	if !casino.IsActive && !middleware.IsAdmin(c) {
		response.Error(c, h.logger, apperr.NotFound("Casino"))
		return
	}
	response.OK(c, casino)
}

// Create handles POST /casinos (admin, multipart with a required logo).
func (h *Handler) Create(c *gin.Context) {
	ctx := c.Request.Context()
	logo, err := media.FormFile(c, "logo", h.maxBytes)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	if logo == nil {
		response.BadRequest(c, "Please upload a logo image")
		return
	}

	casino := &models.Casino{
		Features:      []string{},
		Categories:    []models.Category{},
		CategoryOrder: map[models.Category]int{},
		IsActive:      true,
	}
	if err := bindForm(c, casino); err != nil {
		response.Error(c, h.logger, err)
		return
	}
	if err := validate(casino); err != nil {
		response.Error(c, h.logger, err)
		return
	}

	ref, err := h.files.Save(ctx, logo)
	if err != nil {
		response.Error(c, h.logger, apperr.Internal("failed to store logo", err))
		return
	}
	casino.Logo = ref
	if err := h.store.Create(ctx, casino); err != nil {
		h.cleaner.Discard(ctx, ref, "casino create failed")
		response.Error(c, h.logger, err)
		return
	}
	h.logger.Info("casino created", zap.String("casino_id", casino.ID.String()), zap.String("name", casino.Name))
	response.Created(c, casino)
}

// Update handles PUT /casinos/:id (admin, multipart). Omitted fields keep their value;
// a new logo replaces the old one.
func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	casino, err := h.store.GetByID(ctx, id)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	logo, err := media.FormFile(c, "logo", h.maxBytes)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	if err := bindForm(c, casino); err != nil {
		response.Error(c, h.logger, err)
		return
	}
	if err := validate(casino); err != nil {
		response.Error(c, h.logger, err)
		return
	}

	oldLogo := ""
	if logo != nil {
		ref, err := h.files.Save(ctx, logo)
		if err != nil {
			response.Error(c, h.logger, apperr.Internal("failed to store logo", err))
			return
		}
		oldLogo, casino.Logo = casino.Logo, ref
	}
	if err := h.store.Update(ctx, casino); err != nil {
		if oldLogo != "" {
			h.cleaner.Discard(ctx, casino.Logo, "casino update failed")
		}
		response.Error(c, h.logger, err)
		return
	}
	h.cleaner.Discard(ctx, oldLogo, "casino logo replaced")
	response.OK(c, casino)
}

// Delete handles DELETE /casinos/:id (admin). The logo is removed after the record.
func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	casino, err := h.store.GetByID(ctx, id)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	if err := h.store.Delete(ctx, id); err != nil {
		response.Error(c, h.logger, err)
		return
	}
	h.cleaner.Discard(ctx, casino.Logo, "casino deleted")
	h.logger.Info("casino deleted", zap.String("casino_id", id.String()))
	response.OK(c, gin.H{"message": "Casino removed"})
}

// Reorder handles PUT /casinos/reorder (admin) and returns the category's new listing.
func (h *Handler) Reorder(c *gin.Context) {
	var req ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Category == "" || req.CasinoIDs == nil {
		response.BadRequest(c, "Category and ordered casino IDs array are required")
		return
	}
	category, err := ordering.ParseCategory(req.Category)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	ids := make([]uuid.UUID, 0, len(req.CasinoIDs))
	for _, raw := range req.CasinoIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(c, fmt.Sprintf("invalid casino id %q", raw))
			return
		}
		ids = append(ids, id)
	}

	ctx := c.Request.Context()
	if err := h.store.Reorder(ctx, category, ids); err != nil {
		response.Error(c, h.logger, err)
		return
	}
	q := ordering.Query{Category: category}
	list, err := h.store.List(ctx, q)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	h.logger.Info("casinos reordered", zap.String("category", string(category)), zap.Int("count", len(ids)))
	response.OK(c, ordering.List(list, q))
}

// bindForm merges the multipart fields that were sent into casino.
func bindForm(c *gin.Context, casino *models.Casino) error {
	if v, ok := formdata.String(c, "name"); ok {
		casino.Name = v
	}
	if v, ok := formdata.String(c, "depositBonus"); ok {
		casino.DepositBonus = v
	}
	if v, ok := formdata.String(c, "playNowUrl"); ok {
		casino.PlayNowURL = v
	}
	if v, ok, err := formdata.Float(c, "rating"); err != nil {
		return err
	} else if ok {
		casino.Rating = v
	}
	if v, ok, err := formdata.Int(c, "freeSpins"); err != nil {
		return err
	} else if ok {
		casino.FreeSpins = v
	}
	if v, ok, err := formdata.Int(c, "signupSpins"); err != nil {
		return err
	} else if ok {
		casino.SignupSpins = v
	}
	if v, ok, err := formdata.Bool(c, "isActive"); err != nil {
		return err
	} else if ok {
		casino.IsActive = v
	}
	if v, ok, err := formdata.StringList(c, "features"); err != nil {
		return err
	} else if ok {
		casino.Features = v
	}
	if v, ok, err := formdata.StringList(c, "categories"); err != nil {
		return err
	} else if ok {
		casino.Categories = uniqueCategories(v)
	}
	return nil
}

func uniqueCategories(raw []string) []models.Category {
	seen := make(map[string]bool, len(raw))
	out := make([]models.Category, 0, len(raw))
	for _, s := range raw {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, models.Category(s))
	}
	return out
}

func validate(casino *models.Casino) error {
	return validation.Struct(casinoRules{
		Name:         casino.Name,
		Rating:       casino.Rating,
		DepositBonus: casino.DepositBonus,
		FreeSpins:    casino.FreeSpins,
		SignupSpins:  casino.SignupSpins,
		PlayNowURL:   casino.PlayNowURL,
		Features:     casino.Features,
		Categories:   categoryStrings(casino.Categories),
	})
}
