// Package formdata reads typed values out of multipart admin forms.
//
// Every getter reports whether the field was sent at all, so update handlers
// can leave omitted fields untouched.
package formdata

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/casinohub/backend/internal/apperr"
)

// String returns the trimmed value of key.
func String(c *gin.Context, key string) (string, bool) {
	v, ok := c.GetPostForm(key)
	return strings.TrimSpace(v), ok
}

// Int parses key as an integer. An empty value counts as not sent.
func Int(c *gin.Context, key string) (int, bool, error) {
	v, ok := String(c, key)
	if !ok || v == "" {
		return 0, false, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, true, apperr.Validation(fmt.Sprintf("%s must be a whole number", key))
	}
	return n, true, nil
}

// Float parses key as a decimal number. An empty value counts as not sent.
func Float(c *gin.Context, key string) (float64, bool, error) {
	v, ok := String(c, key)
	if !ok || v == "" {
		return 0, false, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, true, apperr.Validation(fmt.Sprintf("%s must be a number", key))
	}
	return f, true, nil
}

// Bool parses key as a boolean ("true", "false", "1", "0"). An empty value counts as not sent.
func Bool(c *gin.Context, key string) (bool, bool, error) {
	v, ok := String(c, key)
	if !ok || v == "" {
		return false, false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, true, apperr.Validation(fmt.Sprintf("%s must be true or false", key))
	}
	return b, true, nil
}

// StringList reads key as a JSON array string, the way the admin panel sends it,
// or as repeated form fields.
func StringList(c *gin.Context, key string) ([]string, bool, error) {
	values, ok := c.GetPostFormArray(key)
	if !ok {
		return nil, false, nil
	}
	if len(values) == 1 && strings.HasPrefix(strings.TrimSpace(values[0]), "[") {
		var out []string
		if err := json.Unmarshal([]byte(values[0]), &out); err != nil {
			return nil, true, apperr.Validation(fmt.Sprintf("%s must be a JSON array of strings", key))
		}
		return trimAll(out), true, nil
	}
	if len(values) == 1 && strings.TrimSpace(values[0]) == "" {
		return []string{}, true, nil
	}
	return trimAll(values), true, nil
}

// JSON decodes key as a JSON object into dst.
func JSON(c *gin.Context, key string, dst interface{}) (bool, error) {
	v, ok := String(c, key)
	if !ok || v == "" {
		return false, nil
	}
	if err := json.Unmarshal([]byte(v), dst); err != nil {
		return true, apperr.Validation(fmt.Sprintf("%s must be a JSON object", key))
	}
	return true, nil
}

// Time parses key as RFC 3339 or a plain date (YYYY-MM-DD, midnight UTC).
func Time(c *gin.Context, key string) (time.Time, bool, error) {
	v, ok := String(c, key)
	if !ok || v == "" {
		return time.Time{}, false, nil
	}
	t, err := ParseTime(v)
	if err != nil {
		return time.Time{}, true, apperr.Validation(fmt.Sprintf("%s must be a date (YYYY-MM-DD) or RFC 3339 timestamp", key))
	}
	return t, true, nil
}

// ParseTime accepts RFC 3339 or YYYY-MM-DD.
func ParseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	return time.Parse("2006-01-02", s)
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
