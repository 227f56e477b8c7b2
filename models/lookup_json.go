package models

import (
	"time"

	jsoniter "github.com/json-iterator/go"
)

// TimestampLayout is ISO-8601 in UTC with exactly three fractional digits
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

var resultJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// lookupResultWire is the exported JSON shape of a LookupResult
type lookupResultWire struct {
	Input      string         `json:"input"`
	Category   SearchCategory `json:"type"`
	Location   *string        `json:"location,omitempty"`
	Region     *string        `json:"state,omitempty"`
	Latitude   *float64       `json:"latitude,omitempty"`
	Longitude  *float64       `json:"longitude,omitempty"`
	Carrier    *string        `json:"carrier,omitempty"`
	Timezones  []string       `json:"timezones,omitempty"`
	IsValid    *bool          `json:"valid,omitempty"`
	IsPossible *bool          `json:"possible,omitempty"`
	RiskScore  int            `json:"riskScore"`
	Timestamp  string         `json:"timestamp"`
}

func (r LookupResult) wire() lookupResultWire {
	return lookupResultWire{
		Input:      r.Input,
		Category:   r.Category,
		Location:   r.Location,
		Region:     r.Region,
		Latitude:   r.Latitude,
		Longitude:  r.Longitude,
		Carrier:    r.Carrier,
		Timezones:  r.Timezones,
		IsValid:    r.IsValid,
		IsPossible: r.IsPossible,
		RiskScore:  r.RiskScore,
		Timestamp:  FormatTimestamp(r.Timestamp),
	}
}

// FormatTimestamp renders t in TimestampLayout, always in UTC
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// MarshalJSON writes the timestamp with millisecond precision even when the
// fractional part is zero. Decoding uses the default RFC 3339 parsing.
func (r LookupResult) MarshalJSON() ([]byte, error) {
	return resultJSON.Marshal(r.wire())
}

// MarshalIndentJSON renders the canonical export text with the given indent.
// jsoniter does not re-indent MarshalJSON output, so the wire form is encoded directly.
func (r LookupResult) MarshalIndentJSON(indent string) ([]byte, error) {
	return resultJSON.MarshalIndent(r.wire(), "", indent)
}
