package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/yigit/esgchampions/internal/app/models"
)

// Validation rule patterns
var (
	EmailPattern = `^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`

	// Catalog ids are short human ids such as "9" or "9-1"
	CatalogIDPattern = `^[A-Za-z0-9][A-Za-z0-9_-]{0,31}$`

	PasswordMinLength = 8

	NameMinLength = 1
	NameMaxLength = 100
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Email     *regexp.Regexp
	CatalogID *regexp.Regexp
}{
	Email:     regexp.MustCompile(EmailPattern),
	CatalogID: regexp.MustCompile(CatalogIDPattern),
}

// IsValidEmail checks an address case-insensitively
func IsValidEmail(email string) bool {
	return CompiledPatterns.Email.MatchString(strings.ToLower(strings.TrimSpace(email)))
}

// RegisterRules installs the domain tags used in binding tags
func RegisterRules(v *validator.Validate) error {
	rules := map[string]validator.Func{
		"esg_category": func(fl validator.FieldLevel) bool {
			return models.Category(fl.Field().String()).Valid()
		},
		"necessity": func(fl validator.FieldLevel) bool {
			return models.Necessity(fl.Field().String()).Valid()
		},
		"review_status": func(fl validator.FieldLevel) bool {
			return models.ReviewStatus(fl.Field().String()).Valid()
		},
		"catalog_id": func(fl validator.FieldLevel) bool {
			return CompiledPatterns.CatalogID.MatchString(fl.Field().String())
		},
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register %s rule: %w", tag, err)
		}
	}
	return nil
}

// StringValidation checks a single string value
type StringValidation struct {
	Value    string
	MinLen   int
	MaxLen   int
	Required bool
	Pattern  *regexp.Regexp
}

// NewStringValidation creates a new string validation
func NewStringValidation(value string) *StringValidation {
	return &StringValidation{
		Value:    value,
		Required: true,
	}
}

// WithMinLength sets minimum length
func (v *StringValidation) WithMinLength(min int) *StringValidation {
	v.MinLen = min
	return v
}

// WithMaxLength sets maximum length
func (v *StringValidation) WithMaxLength(max int) *StringValidation {
	v.MaxLen = max
	return v
}

// WithPattern sets regex pattern
func (v *StringValidation) WithPattern(pattern *regexp.Regexp) *StringValidation {
	v.Pattern = pattern
	return v
}

// WithRequired sets if field is required
func (v *StringValidation) WithRequired(required bool) *StringValidation {
	v.Required = required
	return v
}

// Validate performs validation
func (v *StringValidation) Validate() bool {
	if v.Value == "" {
		return !v.Required
	}

	if v.MinLen > 0 && len(v.Value) < v.MinLen {
		return false
	}

	if v.MaxLen > 0 && len(v.Value) > v.MaxLen {
		return false
	}

	if v.Pattern != nil && !v.Pattern.MatchString(v.Value) {
		return false
	}

	return true
}

// RangeValidation checks that an integer lies in [Min, Max]
type RangeValidation struct {
	Value int
	Min   int
	Max   int
}

// NewRangeValidation creates an inclusive range check
func NewRangeValidation(value, min, max int) *RangeValidation {
	return &RangeValidation{Value: value, Min: min, Max: max}
}

// Validate performs validation
func (v *RangeValidation) Validate() bool {
	return v.Value >= v.Min && v.Value <= v.Max
}

// IsValidRating reports whether r is an allowed review rating
func IsValidRating(r int) bool {
	return NewRangeValidation(r, models.MinRating, models.MaxRating).Validate()
}
