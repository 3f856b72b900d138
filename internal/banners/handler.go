package banners

import (
	"context"
	"strconv"
	"strings"

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

// Store is the banner persistence the handler needs. Create and Update enforce
// one active banner per slot.
type Store interface {
	List(ctx context.Context, f Filter) ([]models.Banner, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Banner, error)
	Create(ctx context.Context, b *models.Banner) error
	Update(ctx context.Context, b *models.Banner) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type bannerRules struct {
	PageType        string `json:"pageType" validate:"placement"`
	Title           string `json:"title" validate:"required,max=200"`
	WelcomeBonus    string `json:"welcomeBonus" validate:"required"`
	PlayNowURL      string `json:"playNowUrl" validate:"required,link"`
	BackgroundColor string `json:"backgroundColor" validate:"required,hexcolor"`
}

// Handler handles banner HTTP endpoints.
type Handler struct {
	store    Store
	files    media.Store
	cleaner  *media.Cleaner
	maxBytes int64
	logger   *zap.Logger
}

// NewHandler creates a banner handler.
func NewHandler(store Store, files media.Store, cleaner *media.Cleaner, maxBytes int64, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, files: files, cleaner: cleaner, maxBytes: maxBytes, logger: logger}
}

func parsePlacement(raw string) (models.Placement, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	p, ok := models.ParsePlacement(raw)
	if !ok {
		return "", apperr.Validation("Invalid page type")
	}
	return p, nil
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid banner id")
		return uuid.Nil, false
	}
	return id, true
}

// List handles GET /banners?pageType=. Active banners by position; admins may pass includeInactive=true.
func (h *Handler) List(c *gin.Context) {
	page, err := parsePlacement(c.Query("pageType"))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	f := Filter{PageType: page}
	if inc, _ := strconv.ParseBool(c.Query("includeInactive")); inc && middleware.IsAdmin(c) {
		f.IncludeInactive = true
	}
	list, err := h.store.List(c.Request.Context(), f)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, list)
}

// Positions handles GET /banners/positions?pageType=&excludeId=. pageType defaults to home.
func (h *Handler) Positions(c *gin.Context) {
	page, err := parsePlacement(c.Query("pageType"))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	if page == "" {
		page = models.PlacementHome
	}
	exclude := uuid.Nil
	if raw := c.Query("excludeId"); raw != "" {
		if exclude, err = uuid.Parse(raw); err != nil {
			response.BadRequest(c, "invalid excludeId")
			return
		}
	}
	list, err := h.store.List(c.Request.Context(), Filter{PageType: page})
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.OK(c, ordering.Slots(list, page, exclude))
}

// GetByID handles GET /banners/:id. Inactive banners are visible to admins only.
func (h *Handler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	b, err := h.store.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	if !b.IsActive && !middleware.IsAdmin(c) {
		response.Error(c, h.logger, apperr.NotFound("Banner"))
		return
	}
	response.OK(c, b)
}

// Create handles POST /banners (admin, multipart with a required image and position).
func (h *Handler) Create(c *gin.Context) {
	ctx := c.Request.Context()
	image, err := media.FormFile(c, "image", h.maxBytes)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	if image == nil {
		response.BadRequest(c, "Please upload a banner image")
		return
	}

	b := &models.Banner{
		PageType:        models.PlacementHome,
		RTP:             models.DefaultBannerRTP,
		PayoutTime:      models.DefaultBannerPayoutTime,
		PaymentMethods:  models.AllPaymentMethods(),
		PlayNowURL:      models.DefaultBannerPlayNowURL,
		BackgroundColor: models.DefaultBackgroundColor,
		IsActive:        true,
	}
	if _, sent := c.GetPostForm("position"); !sent {
		response.Error(c, h.logger, ordering.ValidatePosition(0))
		return
	}
	if err := bindForm(c, b); err != nil {
		response.Error(c, h.logger, err)
		return
	}
	if err := validate(b); err != nil {
		response.Error(c, h.logger, err)
		return
	}

	ref, err := h.files.Save(ctx, image)
	if err != nil {
		response.Error(c, h.logger, apperr.Internal("failed to store banner image", err))
		return
	}
	b.Image = ref
	if err := h.store.Create(ctx, b); err != nil {
		h.cleaner.Discard(ctx, ref, "banner create failed")
		response.Error(c, h.logger, err)
		return
	}
	h.logger.Info("banner created",
		zap.String("banner_id", b.ID.String()),
		zap.String("page_type", string(b.PageType)),
		zap.Int("position", b.Position),
	)
	response.Created(c, b)
}

// Update handles PUT /banners/:id (admin, multipart). Omitted fields keep their value.
func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	b, err := h.store.GetByID(ctx, id)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	image, err := media.FormFile(c, "image", h.maxBytes)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	if err := bindForm(c, b); err != nil {
		response.Error(c, h.logger, err)
		return
	}
	if err := validate(b); err != nil {
		response.Error(c, h.logger, err)
		return
	}

	oldImage := ""
	if image != nil {
		ref, err := h.files.Save(ctx, image)
		if err != nil {
			response.Error(c, h.logger, apperr.Internal("failed to store banner image", err))
			return
		}
		oldImage, b.Image = b.Image, ref
	}
	if err := h.store.Update(ctx, b); err != nil {
		if oldImage != "" {
			h.cleaner.Discard(ctx, b.Image, "banner update failed")
		}
		response.Error(c, h.logger, err)
		return
	}
	h.cleaner.Discard(ctx, oldImage, "banner image replaced")
	response.OK(c, b)
}

// Delete handles DELETE /banners/:id (admin).
func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	b, err := h.store.GetByID(ctx, id)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	if err := h.store.Delete(ctx, id); err != nil {
		response.Error(c, h.logger, err)
		return
	}
	h.cleaner.Discard(ctx, b.Image, "banner deleted")
	response.OK(c, gin.H{"message": "Banner removed"})
}

func bindForm(c *gin.Context, b *models.Banner) error {
	if v, ok := formdata.String(c, "pageType"); ok && v != "" {
		b.PageType = models.Placement(v)
	}
	for key, dst := range map[string]*string{
		"title":           &b.Title,
		"welcomeBonus":    &b.WelcomeBonus,
		"rtp":             &b.RTP,
		"payoutTime":      &b.PayoutTime,
		"playNowUrl":      &b.PlayNowURL,
		"backgroundColor": &b.BackgroundColor,
	} {
		if v, ok := formdata.String(c, key); ok && v != "" {
			*dst = v
		}
	}
	// freeSpinsText may be cleared.
	if v, ok := formdata.String(c, "freeSpinsText"); ok {
		b.FreeSpinsText = v
	}
	if v, ok, err := formdata.Int(c, "position"); err != nil {
		return ordering.ValidatePosition(0)
	} else if ok {
		if err := ordering.ValidatePosition(v); err != nil {
			return err
		}
		b.Position = v
	}
	if v, ok, err := formdata.Bool(c, "isActive"); err != nil {
		return err
	} else if ok {
		b.IsActive = v
	}
	if _, err := formdata.JSON(c, "paymentMethods", &b.PaymentMethods); err != nil {
		return err
	}
	return nil
}

func validate(b *models.Banner) error {
	if err := ordering.ValidatePosition(b.Position); err != nil {
		return err
	}
	return validation.Struct(bannerRules{
		PageType:        string(b.PageType),
		Title:           b.Title,
		WelcomeBonus:    b.WelcomeBonus,
		PlayNowURL:      b.PlayNowURL,
		BackgroundColor: b.BackgroundColor,
	})
}
