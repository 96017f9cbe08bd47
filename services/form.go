package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"engagement-prediction-api/models"
)

var ErrIncompleteForm = errors.New("incomplete form")

// FieldGetter is satisfied by url.Values and by gin's PostForm lookups.
type FieldGetter interface {
	Get(key string) string
}

// PostForm is the typed view of a submitted form. Unparsed holds the names
// of numeric fields that were present but not a number.
type PostForm struct {
	models.PostAttributes
	Unparsed []string
}

type numericField struct {
	name     string
	fallback int
	dest     func(*models.PostAttributes) *int
}

var numericFields = []numericField{
	{"month", 1, func(a *models.PostAttributes) *int { return &a.Month }},
	{"day", 1, func(a *models.PostAttributes) *int { return &a.Day }},
	{"weekday", 0, func(a *models.PostAttributes) *int { return &a.Weekday }},
	{"hour", 12, func(a *models.PostAttributes) *int { return &a.Hour }},
	{"minute", 0, func(a *models.PostAttributes) *int { return &a.Minute }},
}

func ReadForm(values FieldGetter) PostForm {
	var form PostForm
	form.Platform = values.Get("platform")
	form.PostType = values.Get("post_type")
	form.Trending = values.Get("trending")

	for _, f := range numericFields {
		n, ok := parseField(values.Get(f.name), f.fallback)
		if !ok {
			form.Unparsed = append(form.Unparsed, f.name)
		}
		*f.dest(&form.PostAttributes) = n
	}
	return form
}

// PredictRequest is the JSON body of the predictions API. Numeric fields
// accept numbers or strings, matching what the HTML form posts.
type PredictRequest struct {
	Platform string          `json:"platform"`
	PostType string          `json:"post_type"`
	Trending string          `json:"trending"`
	Month    json.RawMessage `json:"month"`
	Day      json.RawMessage `json:"day"`
	Weekday  json.RawMessage `json:"weekday"`
	Hour     json.RawMessage `json:"hour"`
	Minute   json.RawMessage `json:"minute"`
}

// Get lets a PredictRequest flow through ReadForm.
func (r PredictRequest) Get(key string) string {
	switch key {
	case "platform":
		return r.Platform
	case "post_type":
		return r.PostType
	case "trending":
		return r.Trending
	case "month":
		return rawString(r.Month)
	case "day":
		return rawString(r.Day)
	case "weekday":
		return rawString(r.Weekday)
	case "hour":
		return rawString(r.Hour)
	case "minute":
		return rawString(r.Minute)
	}
	return ""
}

func rawString(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

func ValidateForm(form PostForm) error {
	var missing []string
	if form.Platform == "" {
		missing = append(missing, "platform")
	}
	if form.PostType == "" {
		missing = append(missing, "post_type")
	}
	if form.Trending == "" {
		missing = append(missing, "trending")
	}
	missing = append(missing, form.Unparsed...)

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrIncompleteForm, strings.Join(missing, ", "))
	}
	return nil
}

// parseField reads an integer the way a browser parseInt does: leading
// whitespace, an optional sign, then as many digits as are present.
// An empty value yields the fallback.
func parseField(raw string, fallback int) (int, bool) {
	if raw == "" {
		return fallback, true
	}
	s := strings.TrimLeft(raw, " \t\n\r\f\v")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
