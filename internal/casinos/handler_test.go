package casinos

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casinohub/backend/internal/apperr"
	"github.com/casinohub/backend/internal/media"
	"github.com/casinohub/backend/internal/media/mediatest"
	"github.com/casinohub/backend/internal/middleware"
	"github.com/casinohub/backend/internal/middleware/middlewaretest"
	"github.com/casinohub/backend/internal/models"
	"github.com/casinohub/backend/internal/ordering"
)

// memStore mirrors Repository over a map.
type memStore struct {
	mu       sync.Mutex
	casinos  map[uuid.UUID]models.Casino
	refs     map[uuid.UUID]int // giveaways per casino
	clock    time.Time
	failNext error
}

func newMemStore() *memStore {
	return &memStore{
		casinos: map[uuid.UUID]models.Casino{},
		refs:    map[uuid.UUID]int{},
		clock:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *memStore) List(_ context.Context, q ordering.Query) ([]models.Casino, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := make([]models.Casino, 0, len(m.casinos))
	for _, c := range m.casinos {
		all = append(all, c)
	}
	return ordering.Filter(all, q), nil
}

func (m *memStore) GetByID(_ context.Context, id uuid.UUID) (*models.Casino, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.casinos[id]
	if !ok {
		return nil, apperr.NotFound("Casino")
	}
	return &c, nil
}

func (m *memStore) Create(_ context.Context, c *models.Casino) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failNext != nil {
		err := m.failNext
		m.failNext = nil
		return err
	}
	m.clock = m.clock.Add(time.Minute)
	c.ID = uuid.New()
	c.CreatedAt = m.clock
	m.casinos[c.ID] = *c
	return nil
}

func (m *memStore) Update(_ context.Context, c *models.Casino) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	prev, ok := m.casinos[c.ID]
	if !ok {
		return apperr.NotFound("Casino")
	}
	c.CategoryOrder = prev.CategoryOrder
	m.casinos[c.ID] = *c
	return nil
}

func (m *memStore) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n := m.refs[id]; n > 0 {
		return referencedError(n)
	}
	if _, ok := m.casinos[id]; !ok {
		return apperr.NotFound("Casino")
	}
	delete(m.casinos, id)
	return nil
}

func (m *memStore) Reorder(_ context.Context, category models.Category, ids []uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var current []models.Casino
	for _, id := range ids {
		if c, ok := m.casinos[id]; ok {
			current = append(current, c)
		}
	}
	plan, err := ordering.PlanReorder(category, ids, current)
	if err != nil {
		return err
	}
	plan.Apply(current)
	for _, c := range current {
		m.casinos[c.ID] = c
	}
	return nil
}

func (m *memStore) add(name string, active bool, cats ...models.Category) models.Casino {
	c := models.Casino{
		Name: name, Logo: "/uploads/" + name + ".png", DepositBonus: "100%", PlayNowURL: "https://example.com",
		Features: []string{}, Categories: cats, CategoryOrder: map[models.Category]int{}, IsActive: active,
	}
	_ = m.Create(context.Background(), &c)
	return c
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
}

type fixture struct {
	store  *memStore
	files  *mediatest.Store
	router *gin.Engine
}

func newFixture(id *middleware.Identity) *fixture {
	gin.SetMode(gin.TestMode)
	f := &fixture{store: newMemStore(), files: mediatest.NewStore()}
	h := NewHandler(f.store, f.files, media.NewCleaner(f.files, nil, nil), 1<<20, nil)
	r := gin.New()
	if id != nil {
		r.Use(middlewaretest.WithIdentity(*id))
	}
	r.GET("/casinos", h.List)
	r.PUT("/casinos/reorder", h.Reorder)
	r.GET("/casinos/:id", h.GetByID)
	r.POST("/casinos", h.Create)
	r.PUT("/casinos/:id", h.Update)
	r.DELETE("/casinos/:id", h.Delete)
	f.router = r
	return f
}

func (f *fixture) do(t *testing.T, req *http.Request) (int, envelope) {
	t.Helper()
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	var body envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return w.Code, body
}

func decodeList(t *testing.T, raw json.RawMessage) []models.Casino {
	t.Helper()
	var list []models.Casino
	require.NoError(t, json.Unmarshal(raw, &list))
	return list
}

func names(list []models.Casino) []string {
	out := make([]string, len(list))
	for i, c := range list {
		out[i] = c.Name
	}
	return out
}

func validForm() mediatest.Form {
	return mediatest.Form{
		Fields: map[string][]string{
			"name":         {"Lucky Spin"},
			"rating":       {"4.5"},
			"depositBonus": {"100% up to 500€"},
			"freeSpins":    {"50"},
			"playNowUrl":   {"https://lucky.example/play"},
			"features":     {`["Fast payouts","Crypto"]`},
			"categories":   {`["Top-rated","New"]`},
		},
		Files: []mediatest.File{{Field: "logo", Filename: "lucky.png", Content: mediatest.PNG}},
	}
}

func TestCreate(t *testing.T) {
	t.Run("stores logo and defaults", func(t *testing.T) {
		f := newFixture(&middlewaretest.Admin)
		code, body := f.do(t, validForm().Request(t, http.MethodPost, "/casinos"))
		require.Equal(t, http.StatusCreated, code, body.Error)

		var got models.Casino
		require.NoError(t, json.Unmarshal(body.Data, &got))
		assert.Equal(t, "Lucky Spin", got.Name)
		assert.Equal(t, 4.5, got.Rating)
		assert.Equal(t, 50, got.FreeSpins)
		assert.Equal(t, 0, got.SignupSpins)
		assert.True(t, got.IsActive)
		assert.Equal(t, []models.Category{models.CategoryTopRated, models.CategoryNew}, got.Categories)
		assert.Equal(t, []string{"Fast payouts", "Crypto"}, got.Features)
		assert.True(t, f.files.Has(got.Logo))
	})

	t.Run("logo required", func(t *testing.T) {
		f := newFixture(&middlewaretest.Admin)
		form := validForm()
		form.Files = nil
		code, body := f.do(t, form.Request(t, http.MethodPost, "/casinos"))
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "Please upload a logo image", body.Error)
	})

	t.Run("invalid category", func(t *testing.T) {
		f := newFixture(&middlewaretest.Admin)
		form := validForm()
		form.Fields["categories"] = []string{`["Hot"]`}
		code, body := f.do(t, form.Request(t, http.MethodPost, "/casinos"))
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Contains(t, body.Error, "invalid category")
		assert.Empty(t, f.files.Saved, "nothing stored for a rejected form")
	})

	t.Run("rating out of range", func(t *testing.T) {
		f := newFixture(&middlewaretest.Admin)
		form := validForm()
		form.Fields["rating"] = []string{"7"}
		code, body := f.do(t, form.Request(t, http.MethodPost, "/casinos"))
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "rating must be at most 5", body.Error)
	})

	t.Run("store failure removes the saved logo", func(t *testing.T) {
		f := newFixture(&middlewaretest.Admin)
		f.store.failNext = assert.AnError
		code, body := f.do(t, validForm().Request(t, http.MethodPost, "/casinos"))
		assert.Equal(t, http.StatusInternalServerError, code)
		assert.Equal(t, "internal server error", body.Error)
		assert.Empty(t, f.files.Saved)
		assert.Len(t, f.files.RemovedRefs(), 1)
	})
}

func TestList(t *testing.T) {
	f := newFixture(nil)
	a := f.store.add("Alpha", true, models.CategoryFeatured)
	b := f.store.add("Bravo", true, models.CategoryFeatured, models.CategoryNew)
	f.store.add("Hidden", false, models.CategoryFeatured)
	f.store.add("Charlie", true, models.CategoryNew)

	t.Run("unfiltered newest first", func(t *testing.T) {
		code, body := f.do(t, httptest.NewRequest(http.MethodGet, "/casinos", nil))
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, []string{"Charlie", "Bravo", "Alpha"}, names(decodeList(t, body.Data)))
	})

	t.Run("category with equal ranks newest first", func(t *testing.T) {
		code, body := f.do(t, httptest.NewRequest(http.MethodGet, "/casinos?category=Featured", nil))
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, []string{"Bravo", "Alpha"}, names(decodeList(t, body.Data)))
	})

	t.Run("reorder is reflected", func(t *testing.T) {
		require.NoError(t, f.store.Reorder(context.Background(), models.CategoryFeatured, []uuid.UUID{a.ID, b.ID}))
		_, body := f.do(t, httptest.NewRequest(http.MethodGet, "/casinos?category=Featured", nil))
		assert.Equal(t, []string{"Alpha", "Bravo"}, names(decodeList(t, body.Data)))
	})

	t.Run("search", func(t *testing.T) {
		_, body := f.do(t, httptest.NewRequest(http.MethodGet, "/casinos?search=ar", nil))
		assert.Equal(t, []string{"Charlie"}, names(decodeList(t, body.Data)))
	})

	t.Run("invalid category", func(t *testing.T) {
		code, body := f.do(t, httptest.NewRequest(http.MethodGet, "/casinos?category=Hot", nil))
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "Invalid category", body.Error)
	})

	t.Run("includeInactive ignored for the public", func(t *testing.T) {
		_, body := f.do(t, httptest.NewRequest(http.MethodGet, "/casinos?includeInactive=true", nil))
		assert.NotContains(t, names(decodeList(t, body.Data)), "Hidden")
	})
}

func TestList_AdminIncludeInactive(t *testing.T) {
	f := newFixture(&middlewaretest.Admin)
	f.store.add("Live", true)
	f.store.add("Hidden", false)

	_, body := f.do(t, httptest.NewRequest(http.MethodGet, "/casinos?includeInactive=true", nil))
	assert.Equal(t, []string{"Hidden", "Live"}, names(decodeList(t, body.Data)))
}

func TestGetByID(t *testing.T) {
	f := newFixture(nil)
	live := f.store.add("Live", true)
	hidden := f.store.add("Hidden", false)

	code, _ := f.do(t, httptest.NewRequest(http.MethodGet, "/casinos/"+live.ID.String(), nil))
	assert.Equal(t, http.StatusOK, code)

	code, body := f.do(t, httptest.NewRequest(http.MethodGet, "/casinos/"+hidden.ID.String(), nil))
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Casino not found", body.Error)

	code, _ = f.do(t, httptest.NewRequest(http.MethodGet, "/casinos/"+uuid.NewString(), nil))
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = f.do(t, httptest.NewRequest(http.MethodGet, "/casinos/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestUpdate(t *testing.T) {
	f := newFixture(&middlewaretest.Admin)
	_, body := f.do(t, validForm().Request(t, http.MethodPost, "/casinos"))
	var created models.Casino
	require.NoError(t, json.Unmarshal(body.Data, &created))

	t.Run("partial update keeps other fields", func(t *testing.T) {
		form := mediatest.Form{Fields: map[string][]string{"name": {"Lucky Spin II"}, "isActive": {"false"}}}
		code, body := f.do(t, form.Request(t, http.MethodPut, "/casinos/"+created.ID.String()))
		require.Equal(t, http.StatusOK, code, body.Error)

		var got models.Casino
		require.NoError(t, json.Unmarshal(body.Data, &got))
		assert.Equal(t, "Lucky Spin II", got.Name)
		assert.False(t, got.IsActive)
		assert.Equal(t, created.DepositBonus, got.DepositBonus)
		assert.Equal(t, created.Logo, got.Logo)
	})

	t.Run("new logo replaces the old one", func(t *testing.T) {
		form := mediatest.Form{Files: []mediatest.File{{Field: "logo", Filename: "new.webp", Content: mediatest.PNG}}}
		code, body := f.do(t, form.Request(t, http.MethodPut, "/casinos/"+created.ID.String()))
		require.Equal(t, http.StatusOK, code, body.Error)

		var got models.Casino
		require.NoError(t, json.Unmarshal(body.Data, &got))
		assert.NotEqual(t, created.Logo, got.Logo)
		assert.True(t, f.files.Has(got.Logo))
		assert.False(t, f.files.Has(created.Logo))
	})

	t.Run("unknown id", func(t *testing.T) {
		form := mediatest.Form{Fields: map[string][]string{"name": {"x"}}}
		code, _ := f.do(t, form.Request(t, http.MethodPut, "/casinos/"+uuid.NewString()))
		assert.Equal(t, http.StatusNotFound, code)
	})
}

func TestDelete(t *testing.T) {
	f := newFixture(&middlewaretest.Admin)
	c := f.store.add("Gone", true)
	kept := f.store.add("Referenced", true)
	f.store.refs[kept.ID] = 2

	code, body := f.do(t, httptest.NewRequest(http.MethodDelete, "/casinos/"+c.ID.String(), nil))
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"message":"Casino removed"}`, string(body.Data))
	assert.Equal(t, []string{c.Logo}, f.files.RemovedRefs())

	code, body = f.do(t, httptest.NewRequest(http.MethodDelete, "/casinos/"+kept.ID.String(), nil))
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, apperr.CodeConflict, body.Code)
	assert.Contains(t, body.Error, "2 giveaways")

	code, _ = f.do(t, httptest.NewRequest(http.MethodDelete, "/casinos/"+c.ID.String(), nil))
	assert.Equal(t, http.StatusNotFound, code)
}

func reorderRequest(t *testing.T, category string, ids ...uuid.UUID) *http.Request {
	t.Helper()
	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = id.String()
	}
	b, err := json.Marshal(ReorderRequest{Category: category, CasinoIDs: raw})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPut, "/casinos/reorder", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestReorder(t *testing.T) {
	f := newFixture(&middlewaretest.Admin)
	a := f.store.add("A", true, models.CategoryFeatured, models.CategoryNew)
	b := f.store.add("B", true, models.CategoryFeatured, models.CategoryNew)
	other := f.store.add("Other", true, models.CategoryTopPnP)

	code, body := f.do(t, reorderRequest(t, "Featured", b.ID, a.ID))
	require.Equal(t, http.StatusOK, code, body.Error)
	assert.Equal(t, []string{"B", "A"}, names(decodeList(t, body.Data)))

	code, body = f.do(t, reorderRequest(t, "New", a.ID, b.ID))
	require.Equal(t, http.StatusOK, code, body.Error)
	assert.Equal(t, []string{"A", "B"}, names(decodeList(t, body.Data)))

	_, body = f.do(t, httptest.NewRequest(http.MethodGet, "/casinos?category=Featured", nil))
	assert.Equal(t, []string{"B", "A"}, names(decodeList(t, body.Data)), "reordering New leaves Featured alone")

	tests := []struct {
		name    string
		req     *http.Request
		message string
	}{
		{"invalid category", reorderRequest(t, "Hot", a.ID), "Invalid category"},
		{"missing ids", httptest.NewRequest(http.MethodPut, "/casinos/reorder", bytes.NewReader([]byte(`{"category":"New"}`))),
			"Category and ordered casino IDs array are required"},
		{"foreign id", reorderRequest(t, "Featured", a.ID, other.ID), "is not in category"},
		{"duplicate id", reorderRequest(t, "Featured", a.ID, a.ID), "more than once"},
		{"unknown id", reorderRequest(t, "Featured", uuid.New()), "does not exist"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := f.do(t, tt.req)
			assert.Equal(t, http.StatusBadRequest, code)
			assert.Contains(t, body.Error, tt.message)
		})
	}

	_, body = f.do(t, httptest.NewRequest(http.MethodGet, "/casinos?category=Featured", nil))
	assert.Equal(t, []string{"B", "A"}, names(decodeList(t, body.Data)), "rejected reorders change nothing")
}
