package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrMissingField is matched by every *MissingFieldError.
	ErrMissingField = errors.New("missing field")

	// ErrRatingRange is returned when a rating is not an integer between 1 and 5.
	ErrRatingRange = errors.New("Rating must be a number 1-5")

	// ErrInvalidURL is returned when a url is not an absolute http(s) URL.
	ErrInvalidURL = errors.New("url must be a valid URL")

	// ErrNoUpdateFields is returned when a partial update carries none of the
	// updatable fields.
	ErrNoUpdateFields = errors.New("Request body must contain either 'title', 'url', 'description' or 'rating'")

	validate = validator.New(validator.WithRequiredStructEnabled())
)

// MissingFieldError names the first required field absent from a request.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("Missing '%s' in request body", e.Field)
}

func (e *MissingFieldError) Is(target error) bool { return target == ErrMissingField }

// IsValidationError reports whether err was produced by ValidateNew or
// ValidatePatch and is safe to show to the caller.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrMissingField) ||
		errors.Is(err, ErrRatingRange) ||
		errors.Is(err, ErrInvalidURL) ||
		errors.Is(err, ErrNoUpdateFields)
}

// BookmarkInput is the allow-listed projection of a create or update body.
// A nil field was absent or null. Rating holds whatever JSON value was sent
// (json.Number, float64, string, bool...) so a wrong type is reported as a
// rating error rather than a malformed body.
type BookmarkInput struct {
	Title       *string
	URL         *string
	Description *string
	Rating      any
}

// ValidateNew checks a create request. Required fields are checked in the
// order title, url, rating and only the first missing one is reported; then
// the rating range, then the URL.
func ValidateNew(in BookmarkInput) (NewBookmark, error) {
	required := []struct {
		name    string
		present bool
	}{
		{"title", in.Title != nil && strings.TrimSpace(*in.Title) != ""},
		{"url", in.URL != nil && strings.TrimSpace(*in.URL) != ""},
		{"rating", in.Rating != nil},
	}
	for _, f := range required {
		if !f.present {
			return NewBookmark{}, &MissingFieldError{Field: f.name}
		}
	}

	rating, err := ValidateRating(in.Rating)
	if err != nil {
		return NewBookmark{}, err
	}
	if err := ValidateURL(*in.URL); err != nil {
		return NewBookmark{}, err
	}

	nb := NewBookmark{
		Title:  *in.Title,
		URL:    *in.URL,
		Rating: rating,
	}
	if in.Description != nil {
		nb.Description = *in.Description
	}
	return nb, nil
}

// ValidatePatch checks a partial update. Blank strings and a zero or false
// rating do not count as supplied. A blank title or url is dropped from the
// patch; a blank description still clears the stored one when other fields
// are supplied alongside it.
func ValidatePatch(in BookmarkInput) (BookmarkPatch, error) {
	if !nonEmpty(in.Title) && !nonEmpty(in.URL) && !nonEmpty(in.Description) && !truthy(in.Rating) {
		return BookmarkPatch{}, ErrNoUpdateFields
	}

	var patch BookmarkPatch
	if in.Rating != nil {
		rating, err := ValidateRating(in.Rating)
		if err != nil {
			return BookmarkPatch{}, err
		}
		patch.Rating = &rating
	}
	if nonEmpty(in.URL) {
		if err := ValidateURL(*in.URL); err != nil {
			return BookmarkPatch{}, err
		}
		patch.URL = in.URL
	}
	if nonEmpty(in.Title) {
		patch.Title = in.Title
	}
	if in.Description != nil {
		patch.Description = in.Description
	}
	return patch, nil
}

// ValidateRating converts a decoded JSON value to a rating in [1, 5].
func ValidateRating(v any) (int, error) {
	var f float64
	switch n := v.(type) {
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, ErrRatingRange
		}
		f = parsed
	case float64:
		f = n
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	default:
		return 0, ErrRatingRange
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, ErrRatingRange
	}
	if f < math.MinInt32 || f > math.MaxInt32 {
		return 0, ErrRatingRange
	}

	rating := int(f)
	if err := validate.Var(rating, "min=1,max=5"); err != nil {
		return 0, ErrRatingRange
	}
	return rating, nil
}

// ValidateURL checks that raw is an absolute http or https URL with a host.
func ValidateURL(raw string) error {
	if err := validate.Var(raw, "required,http_url"); err != nil {
		return ErrInvalidURL
	}
	return nil
}

func nonEmpty(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}

func truthy(v any) bool {
	switch n := v.(type) {
	case nil:
		return false
	case bool:
		return n
	case string:
		return n != ""
	case json.Number:
		f, err := n.Float64()
		return err != nil || f != 0
	case float64:
		return n != 0
	case int:
		return n != 0
	case int64:
		return n != 0
	default:
		return true
	}
}
