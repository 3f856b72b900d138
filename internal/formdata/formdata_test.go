package formdata

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casinohub/backend/internal/apperr"
)

func ctxWith(values url.Values) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	c.Request = req
	return c
}

func TestScalars(t *testing.T) {
	c := ctxWith(url.Values{
		"name":     {"  Lucky  "},
		"rating":   {"4.5"},
		"spins":    {"20"},
		"bad":      {"x"},
		"isActive": {"false"},
		"empty":    {""},
	})

	s, ok := String(c, "name")
	assert.True(t, ok)
	assert.Equal(t, "Lucky", s)

	f, ok, err := Float(c, "rating")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 4.5, f)

	n, ok, err := Int(c, "spins")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 20, n)

	_, _, err = Int(c, "bad")
	assert.True(t, apperr.Is(err, apperr.CodeValidation))

	b, ok, err := Bool(c, "isActive")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.False(t, b)

	_, ok, err = Int(c, "empty")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = Int(c, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStringList(t *testing.T) {
	c := ctxWith(url.Values{
		"features":   {`["Fast payouts", " Crypto "]`},
		"categories": {"New", "Featured"},
		"cleared":    {""},
		"broken":     {`["unterminated`},
	})

	l, ok, err := StringList(c, "features")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"Fast payouts", "Crypto"}, l)

	l, _, err = StringList(c, "categories")
	require.NoError(t, err)
	assert.Equal(t, []string{"New", "Featured"}, l)

	l, ok, err = StringList(c, "cleared")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, l)

	_, _, err = StringList(c, "broken")
	assert.True(t, apperr.Is(err, apperr.CodeValidation))

	_, ok, _ = StringList(c, "absent")
	assert.False(t, ok)
}

func TestTimeAndJSON(t *testing.T) {
	c := ctxWith(url.Values{
		"startDate": {"2026-05-01"},
		"endDate":   {"2026-05-31T23:59:00+02:00"},
		"methods":   {`{"visa":false}`},
	})

	start, ok, err := Time(c, "startDate")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC), start)

	end, _, err := Time(c, "endDate")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 5, 31, 21, 59, 0, 0, time.UTC), end)

	var dst struct {
		Visa bool `json:"visa"`
	}
	dst.Visa = true
	ok, err = JSON(c, "methods", &dst)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.False(t, dst.Visa)
}
