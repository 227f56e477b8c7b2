package models

import (
	"fmt"
	"slices"
	"time"

	"github.com/fenilmodi00/shadowtrace-backend/shared"
)

const (
	MinRiskScore = 0
	MaxRiskScore = 100
)

// LookupFields holds the category-specific part of a result.
// Nil pointers mean the field is absent for the category.
type LookupFields struct {
	Location   *string
	Region     *string
	Latitude   *float64
	Longitude  *float64
	Carrier    *string
	Timezones  []string
	IsValid    *bool
	IsPossible *bool
}

// LookupResult is the outcome of a single lookup.
// Values are treated as immutable after construction; use Clone before handing
// a stored result to code that may modify it.
type LookupResult struct {
	Input     string         `json:"input"`
	Category  SearchCategory `json:"type"`
	Location  *string        `json:"location,omitempty"`
	Region    *string        `json:"state,omitempty"`
	Latitude  *float64       `json:"latitude,omitempty"`
	Longitude *float64       `json:"longitude,omitempty"`
	Carrier   *string        `json:"carrier,omitempty"`
	Timezones []string       `json:"timezones,omitempty"`
	IsValid   *bool          `json:"valid,omitempty"`
	// IsPossible is only populated for phone lookups and is not displayed.
	IsPossible *bool     `json:"possible,omitempty"`
	RiskScore  int       `json:"riskScore"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewLookupResult assembles a result from template fields, a score and a timestamp.
// Only the numeric invariants and the category are checked.
func NewLookupResult(input string, category SearchCategory, fields LookupFields, riskScore int, timestamp time.Time) (LookupResult, error) {
	if !category.IsValid() {
		return LookupResult{}, invalidResult(fmt.Sprintf("unknown category %q", category))
	}
	if riskScore < MinRiskScore || riskScore > MaxRiskScore {
		return LookupResult{}, invalidResult(fmt.Sprintf("risk score %d outside [%d,%d]", riskScore, MinRiskScore, MaxRiskScore))
	}
	// NaN fails both comparisons, so the ranges are written as inclusions
	if fields.Latitude != nil && !(*fields.Latitude >= -90 && *fields.Latitude <= 90) {
		return LookupResult{}, invalidResult(fmt.Sprintf("latitude %f outside [-90,90]", *fields.Latitude))
	}
	if fields.Longitude != nil && !(*fields.Longitude >= -180 && *fields.Longitude <= 180) {
		return LookupResult{}, invalidResult(fmt.Sprintf("longitude %f outside [-180,180]", *fields.Longitude))
	}

	result := LookupResult{
		Input:      input,
		Category:   category,
		Location:   cloneString(fields.Location),
		Region:     cloneString(fields.Region),
		Latitude:   cloneFloat(fields.Latitude),
		Longitude:  cloneFloat(fields.Longitude),
		Carrier:    cloneString(fields.Carrier),
		Timezones:  cloneStrings(fields.Timezones),
		IsValid:    cloneBool(fields.IsValid),
		IsPossible: cloneBool(fields.IsPossible),
		RiskScore:  riskScore,
		// ISO-8601 with millisecond precision, as the dashboard exports it
		Timestamp: timestamp.UTC().Truncate(time.Millisecond),
	}
	return result, nil
}

// Clone returns a deep copy of the result
func (r LookupResult) Clone() LookupResult {
	clone := r
	clone.Location = cloneString(r.Location)
	clone.Region = cloneString(r.Region)
	clone.Latitude = cloneFloat(r.Latitude)
	clone.Longitude = cloneFloat(r.Longitude)
	clone.Carrier = cloneString(r.Carrier)
	clone.Timezones = cloneStrings(r.Timezones)
	clone.IsValid = cloneBool(r.IsValid)
	clone.IsPossible = cloneBool(r.IsPossible)
	return clone
}

// Equal compares two results field by field, timestamps by instant
func (r LookupResult) Equal(other LookupResult) bool {
	return r.Input == other.Input &&
		r.Category == other.Category &&
		equalPtr(r.Location, other.Location) &&
		equalPtr(r.Region, other.Region) &&
		equalPtr(r.Latitude, other.Latitude) &&
		equalPtr(r.Longitude, other.Longitude) &&
		equalPtr(r.Carrier, other.Carrier) &&
		slices.Equal(r.Timezones, other.Timezones) &&
		equalPtr(r.IsValid, other.IsValid) &&
		equalPtr(r.IsPossible, other.IsPossible) &&
		r.RiskScore == other.RiskScore &&
		r.Timestamp.Equal(other.Timestamp)
}

// HasCoordinates reports whether both latitude and longitude are present
func (r LookupResult) HasCoordinates() bool {
	return r.Latitude != nil && r.Longitude != nil
}

// Valid reports the validation flag, treating an absent flag as invalid
func (r LookupResult) Valid() bool {
	return r.IsValid != nil && *r.IsValid
}

func invalidResult(message string) error {
	return shared.NewServiceError(
		shared.ErrorCategoryValidation,
		shared.ErrCodeInvalidResult,
		message,
		"models",
		"NewLookupResult",
		false,
		nil,
	)
}

// StringPtr, FloatPtr and BoolPtr build optional template fields
func StringPtr(v string) *string { return &v }

func FloatPtr(v float64) *float64 { return &v }

func BoolPtr(v bool) *bool { return &v }

func cloneString(v *string) *string {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneBool(v *bool) *bool {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneStrings(v []string) []string {
	if len(v) == 0 {
		return nil
	}
	return slices.Clone(v)
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
