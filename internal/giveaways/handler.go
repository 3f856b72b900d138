package giveaways

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/casinohub/backend/internal/apperr"
	"github.com/casinohub/backend/internal/formdata"
	"github.com/casinohub/backend/internal/media"
	"github.com/casinohub/backend/internal/middleware"
	"github.com/casinohub/backend/internal/models"
	"github.com/casinohub/backend/pkg/response"
	"github.com/casinohub/backend/pkg/validation"
)

// Store is the giveaway persistence the handler needs.
type Store interface {
	List(ctx context.Context, includeInactive bool) ([]Entry, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Entry, error)
	CasinoRef(ctx context.Context, id uuid.UUID) (models.CasinoRef, error)
	Create(ctx context.Context, g *models.Giveaway) error
	Update(ctx context.Context, g *models.Giveaway) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type giveawayRules struct {
	Title               string `json:"title" validate:"required,max=200"`
	Description         string `json:"description" validate:"required"`
	BonusDetails        string `json:"bonusDetails" validate:"required"`
	DepositRequirements string `json:"depositRequirements" validate:"required"`
	PrizePool           string `json:"prizePool" validate:"required"`
	PrizeDistribution   string `json:"prizeDistribution" validate:"required"`
	ButtonText          string `json:"buttonText" validate:"required,max=60"`
	CustomLink          string `json:"customLink" validate:"omitempty,link"`
	BackgroundColor     string `json:"backgroundColor" validate:"required,hexcolor"`
}

// Handler handles giveaway HTTP endpoints.
type Handler struct {
	store    Store
	files    media.Store
	cleaner  *media.Cleaner
	maxBytes int64
	logger   *zap.Logger
	now      func() time.Time
}

// NewHandler creates a giveaway handler.
func NewHandler(store Store, files media.Store, cleaner *media.Cleaner, maxBytes int64, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, files: files, cleaner: cleaner, maxBytes: maxBytes, logger: logger, now: time.Now}
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid giveaway id")
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) view(e Entry) models.GiveawayView {
	return models.NewGiveawayView(e.Giveaway, e.Casino, h.now())
}

// List handles GET /giveaways. Active giveaways newest first; admins may pass includeInactive=true.
func (h *Handler) List(c *gin.Context) {
	inc, _ := strconv.ParseBool(c.Query("includeInactive"))
	entries, err := h.store.List(c.Request.Context(), inc && middleware.IsAdmin(c))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	views := make([]models.GiveawayView, 0, len(entries))
	for _, e := range entries {
		views = append(views, h.view(e))
	}
	response.OK(c, views)
}

// GetByID handles GET /giveaways/:id. Inactive giveaways are visible to admins only.
func (h *Handler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	e, err := h.store.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	if !e.Giveaway.IsActive && !middleware.IsAdmin(c) {
		response.Error(c, h.logger, apperr.NotFound("Giveaway"))
		return
	}
	response.OK(c, h.view(*e))
}

// Create handles POST /giveaways (admin, multipart with an optional image).
func (h *Handler) Create(c *gin.Context) {
	ctx := c.Request.Context()
	image, err := media.FormFile(c, "image", h.maxBytes)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	g := &models.Giveaway{
		BackgroundColor:     models.DefaultBackgroundColor,
		DepositRequirements: models.DefaultDepositRequirements,
		PrizePool:           models.DefaultPrizePool,
		PrizeDistribution:   models.DefaultPrizeDistribution,
		AdditionalNotes:     models.DefaultAdditionalNotes,
		ButtonText:          models.DefaultButtonText,
		IsActive:            true,
	}
	if err := bindForm(c, g); err != nil {
		response.Error(c, h.logger, err)
		return
	}
	if g.CasinoID == uuid.Nil {
		response.BadRequest(c, "casino is required")
		return
	}
	if g.StartDate.IsZero() || g.EndDate.IsZero() {
		response.BadRequest(c, "startDate and endDate are required")
		return
	}
	casino, err := h.checkWrite(ctx, g)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	if image != nil {
		if g.Image, err = h.files.Save(ctx, image); err != nil {
			response.Error(c, h.logger, apperr.Internal("failed to store giveaway image", err))
			return
		}
	}
	if err := h.store.Create(ctx, g); err != nil {
		h.cleaner.Discard(ctx, g.Image, "giveaway create failed")
		response.Error(c, h.logger, err)
		return
	}
	h.logger.Info("giveaway created", zap.String("giveaway_id", g.ID.String()), zap.String("casino_id", g.CasinoID.String()))
	response.Created(c, h.view(Entry{Giveaway: *g, Casino: casino}))
}

// Update handles PUT /giveaways/:id (admin, multipart). Omitted fields keep their value.
func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	e, err := h.store.GetByID(ctx, id)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	image, err := media.FormFile(c, "image", h.maxBytes)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	g := &e.Giveaway
	if err := bindForm(c, g); err != nil {
		response.Error(c, h.logger, err)
		return
	}
	casino, err := h.checkWrite(ctx, g)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	oldImage := ""
	if image != nil {
		ref, err := h.files.Save(ctx, image)
		if err != nil {
			response.Error(c, h.logger, apperr.Internal("failed to store giveaway image", err))
			return
		}
		oldImage, g.Image = g.Image, ref
	}
	if err := h.store.Update(ctx, g); err != nil {
		if image != nil {
			h.cleaner.Discard(ctx, g.Image, "giveaway update failed")
		}
		response.Error(c, h.logger, err)
		return
	}
	h.cleaner.Discard(ctx, oldImage, "giveaway image replaced")
	response.OK(c, h.view(Entry{Giveaway: *g, Casino: casino}))
}

// Delete handles DELETE /giveaways/:id (admin).
func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	e, err := h.store.GetByID(ctx, id)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	if err := h.store.Delete(ctx, id); err != nil {
		response.Error(c, h.logger, err)
		return
	}
	h.cleaner.Discard(ctx, e.Giveaway.Image, "giveaway deleted")
	response.OK(c, gin.H{"message": "Giveaway removed"})
}

// checkWrite validates g and resolves its casino.
func (h *Handler) checkWrite(ctx context.Context, g *models.Giveaway) (models.CasinoRef, error) {
	if g.EndDate.Before(g.StartDate) {
		return models.CasinoRef{}, apperr.Validation("endDate must not be before startDate")
	}
	err := validation.Struct(giveawayRules{
		Title:               g.Title,
		Description:         g.Description,
		BonusDetails:        g.BonusDetails,
		DepositRequirements: g.DepositRequirements,
		PrizePool:           g.PrizePool,
		PrizeDistribution:   g.PrizeDistribution,
		ButtonText:          g.ButtonText,
		CustomLink:          g.CustomLink,
		BackgroundColor:     g.BackgroundColor,
	})
	if err != nil {
		return models.CasinoRef{}, err
	}
	casino, err := h.store.CasinoRef(ctx, g.CasinoID)
	if apperr.Is(err, apperr.CodeNotFound) {
		return models.CasinoRef{}, apperr.Validation("Casino not found")
	}
	return casino, err
}

func bindForm(c *gin.Context, g *models.Giveaway) error {
	casinoKey := "casino"
	if _, ok := c.GetPostForm(casinoKey); !ok {
		casinoKey = "casinoId"
	}
	if v, ok := formdata.String(c, casinoKey); ok && v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return apperr.Validation("Casino not found")
		}
		g.CasinoID = id
	}

	// Required texts keep their value when sent empty.
	for key, dst := range map[string]*string{
		"title":               &g.Title,
		"description":         &g.Description,
		"bonusDetails":        &g.BonusDetails,
		"depositRequirements": &g.DepositRequirements,
		"prizePool":           &g.PrizePool,
		"prizeDistribution":   &g.PrizeDistribution,
		"buttonText":          &g.ButtonText,
		"backgroundColor":     &g.BackgroundColor,
	} {
		if v, ok := formdata.String(c, key); ok && v != "" {
			*dst = v
		}
	}
	// Optional texts may be cleared.
	for key, dst := range map[string]*string{
		"requirements":    &g.Requirements,
		"additionalNotes": &g.AdditionalNotes,
		"customLink":      &g.CustomLink,
	} {
		if v, ok := formdata.String(c, key); ok {
			*dst = v
		}
	}

	if v, ok, err := formdata.Time(c, "startDate"); err != nil {
		return err
	} else if ok {
		g.StartDate = v
	}
	if v, ok, err := formdata.Time(c, "endDate"); err != nil {
		return err
	} else if ok {
		g.EndDate = v
	}
	if v, ok, err := formdata.Bool(c, "isActive"); err != nil {
		return err
	} else if ok {
		g.IsActive = v
	}
	return nil
}
