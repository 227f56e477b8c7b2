package models

import (
	"fmt"
	"strings"

	lev "github.com/agnivade/levenshtein"
	"github.com/fenilmodi00/shadowtrace-backend/shared"
)

// SearchCategory selects which mock template a lookup uses
type SearchCategory string

const (
	CategoryPhone    SearchCategory = "phone"
	CategoryEmail    SearchCategory = "email"
	CategoryIP       SearchCategory = "ip"
	CategoryUsername SearchCategory = "username"
	CategoryDomain   SearchCategory = "domain"
)

// maxSuggestionDistance bounds how far a mistyped category may be from a known one
const maxSuggestionDistance = 2

// CategoryInfo is the display metadata the dashboard search box needs per category
type CategoryInfo struct {
	Value       SearchCategory `json:"value"`
	Label       string         `json:"label"`
	Placeholder string         `json:"placeholder"`
}

var categoryInfos = []CategoryInfo{
	{Value: CategoryPhone, Label: "Phone", Placeholder: "+1 234 567 8900"},
	{Value: CategoryEmail, Label: "Email", Placeholder: "example@domain.com"},
	{Value: CategoryIP, Label: "IP Address", Placeholder: "192.168.1.1"},
	{Value: CategoryUsername, Label: "Username", Placeholder: "@username"},
	{Value: CategoryDomain, Label: "Domain", Placeholder: "example.com"},
}

// AllCategories returns every category in dashboard order
func AllCategories() []SearchCategory {
	categories := make([]SearchCategory, 0, len(categoryInfos))
	for _, info := range categoryInfos {
		categories = append(categories, info.Value)
	}
	return categories
}

// AllCategoryInfos returns display metadata for every category
func AllCategoryInfos() []CategoryInfo {
	infos := make([]CategoryInfo, len(categoryInfos))
	copy(infos, categoryInfos)
	return infos
}

// Info returns the display metadata for the category
func (c SearchCategory) Info() (CategoryInfo, bool) {
	for _, info := range categoryInfos {
		if info.Value == c {
			return info, true
		}
	}
	return CategoryInfo{}, false
}

// IsValid reports whether c is one of the enumerated categories
func (c SearchCategory) IsValid() bool {
	_, ok := c.Info()
	return ok
}

func (c SearchCategory) String() string {
	return string(c)
}

// ParseSearchCategory parses a category case-insensitively.
// Unknown values produce an UNKNOWN_CATEGORY error, with a suggestion when a
// known category is close enough.
func ParseSearchCategory(raw string) (SearchCategory, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	candidate := SearchCategory(normalized)
	if candidate.IsValid() {
		return candidate, nil
	}

	message := fmt.Sprintf("unknown search category %q", raw)
	if suggestion, ok := SuggestCategory(normalized); ok {
		message = fmt.Sprintf("%s, did you mean %q?", message, suggestion)
	}

	return "", shared.NewServiceError(
		shared.ErrorCategoryValidation,
		shared.ErrCodeUnknownCategory,
		message,
		"models",
		"ParseSearchCategory",
		false,
		nil,
	)
}

// SuggestCategory returns the closest known category within maxSuggestionDistance
func SuggestCategory(raw string) (SearchCategory, bool) {
	if raw == "" {
		return "", false
	}

	best := SearchCategory("")
	bestDistance := maxSuggestionDistance + 1
	for _, info := range categoryInfos {
		distance := lev.ComputeDistance(raw, string(info.Value))
		if distance < bestDistance {
			best = info.Value
			bestDistance = distance
		}
	}

	if bestDistance > maxSuggestionDistance {
		return "", false
	}
	return best, true
}
