package services

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/dustin/go-humanize"
	"github.com/fenilmodi00/shadowtrace-backend/models"
	"github.com/fenilmodi00/shadowtrace-backend/shared"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

var (
	resultJSON          = jsoniter.ConfigCompatibleWithStandardLibrary
	exportNameSanitizer = regexp.MustCompile(`[^a-zA-Z0-9]`)
)

const searchedAtLayout = "Jan 2, 2006, 3:04:05 PM MST"

// Clipboard writes text to the system clipboard
type Clipboard interface {
	WriteAll(text string) error
}

// SystemClipboard uses the host clipboard (xclip/xsel, pbcopy or the Windows API)
type SystemClipboard struct{}

// WriteAll implements Clipboard
func (SystemClipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}

// ResultView is the read-only projection of a result shown on the dashboard
type ResultView struct {
	Header         string                `json:"header"`
	Input          string                `json:"input"`
	Category       models.SearchCategory `json:"type"`
	Gauge          models.RiskGauge      `json:"gauge"`
	Location       string                `json:"location,omitempty"`
	Region         string                `json:"state,omitempty"`
	Carrier        string                `json:"carrier,omitempty"`
	Timezones      string                `json:"timezones,omitempty"`
	Valid          bool                  `json:"valid"`
	ValidationText string                `json:"validation_text"`
	Coordinates    string                `json:"coordinates,omitempty"`
	SearchedAt     time.Time             `json:"searched_at"`
	SearchedAtText string                `json:"searched_at_text"`
	SearchedAgo    string                `json:"searched_ago"`
}

// HistoryEntryView is the compact line shown in the recent searches list
type HistoryEntryView struct {
	Index     int                   `json:"index"`
	Input     string                `json:"input"`
	Category  models.SearchCategory `json:"type"`
	RiskScore int                   `json:"riskScore"`
	Summary   string                `json:"summary"`
}

// ResultPresenter renders results and performs the copy and export side effects
type ResultPresenter struct {
	clipboard Clipboard
	exportDir string
	now       func() time.Time
	logger    *logrus.Entry
}

// NewResultPresenter creates a presenter writing exports under exportDir
func NewResultPresenter(cb Clipboard, exportDir string) *ResultPresenter {
	if cb == nil {
		cb = SystemClipboard{}
	}
	return &ResultPresenter{
		clipboard: cb,
		exportDir: exportDir,
		now:       time.Now,
		logger:    logrus.WithField("component", "ResultPresenter"),
	}
}

// Present projects a result into display fields without modifying it
func (p *ResultPresenter) Present(result models.LookupResult) ResultView {
	view := ResultView{
		Header:         strings.ToUpper(result.Category.String()) + " Lookup",
		Input:          result.Input,
		Category:       result.Category,
		Gauge:          NewRiskGauge(result.RiskScore),
		Valid:          result.Valid(),
		SearchedAt:     result.Timestamp,
		SearchedAtText: "Searched at " + result.Timestamp.Local().Format(searchedAtLayout),
		SearchedAgo:    humanize.RelTime(result.Timestamp, p.now(), "ago", "from now"),
	}

	if result.Location != nil {
		view.Location = *result.Location
		// Region is only shown underneath a location
		if result.Region != nil {
			view.Region = *result.Region
		}
	}
	if result.Carrier != nil {
		view.Carrier = *result.Carrier
	}
	if len(result.Timezones) > 0 {
		view.Timezones = strings.Join(result.Timezones, ", ")
	}

	validity := "Invalid"
	if view.Valid {
		validity = "Valid"
	}
	view.ValidationText = fmt.Sprintf("%s %s", validity, result.Category)

	if result.HasCoordinates() {
		view.Coordinates = fmt.Sprintf("%.6f, %.6f", *result.Latitude, *result.Longitude)
	}

	return view
}

// PresentHistory projects history entries into list lines
func (p *ResultPresenter) PresentHistory(history []models.LookupResult) []HistoryEntryView {
	views := make([]HistoryEntryView, 0, len(history))
	for i, result := range history {
		views = append(views, HistoryEntryView{
			Index:     i,
			Input:     result.Input,
			Category:  result.Category,
			RiskScore: result.RiskScore,
			Summary:   fmt.Sprintf("%s • Risk: %d%%", result.Category, result.RiskScore),
		})
	}
	return views
}

// MarshalResult serializes a result to its canonical JSON text (2-space indent)
func MarshalResult(result models.LookupResult) ([]byte, error) {
	return result.MarshalIndentJSON("  ")
}

// UnmarshalResult parses the canonical JSON text back into a result
func UnmarshalResult(data []byte) (models.LookupResult, error) {
	var result models.LookupResult
	if err := resultJSON.Unmarshal(data, &result); err != nil {
		return models.LookupResult{}, shared.NewServiceError(
			shared.ErrorCategoryValidation,
			shared.ErrCodeInvalidResult,
			"failed to parse lookup result JSON",
			"ResultPresenter",
			"UnmarshalResult",
			false,
			err,
		)
	}
	return result, nil
}

// ExportFileName builds the download name from the query, replacing every
// non-alphanumeric character with '-'
func ExportFileName(input string) string {
	return "osint-result-" + exportNameSanitizer.ReplaceAllString(input, "-") + ".json"
}

// CopyToClipboard places the result's JSON text on the clipboard.
// Only the clipboard write can fail the operation.
func (p *ResultPresenter) CopyToClipboard(result models.LookupResult) error {
	payload, err := MarshalResult(result)
	if err != nil {
		return shared.WrapError(err, shared.ErrorCategoryProcessing, shared.ErrCodeInvalidResult,
			"ResultPresenter", "CopyToClipboard", false)
	}

	if err := p.clipboard.WriteAll(string(payload)); err != nil {
		serviceErr := shared.NewServiceError(
			shared.ErrorCategoryIO,
			shared.ErrCodeClipboardWriteFailed,
			"failed to write result to clipboard",
			"ResultPresenter",
			"CopyToClipboard",
			false,
			err,
		)
		serviceErr.LogError()
		return serviceErr
	}

	p.logger.WithField("input", result.Input).Info("Results copied to clipboard")
	return nil
}

// ExportAsFile writes the result's JSON text into the export directory and
// returns the file path
func (p *ResultPresenter) ExportAsFile(result models.LookupResult) (string, error) {
	payload, err := MarshalResult(result)
	if err != nil {
		return "", shared.WrapError(err, shared.ErrorCategoryProcessing, shared.ErrCodeInvalidResult,
			"ResultPresenter", "ExportAsFile", false)
	}

	path := filepath.Join(p.exportDir, ExportFileName(result.Input))
	if err := os.MkdirAll(p.exportDir, 0o755); err != nil {
		return "", p.exportFailed(path, err)
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return "", p.exportFailed(path, err)
	}

	p.logger.WithFields(logrus.Fields{
		"input": result.Input,
		"path":  path,
		"bytes": humanize.Bytes(uint64(len(payload))),
	}).Info("Results exported as JSON")
	return path, nil
}

func (p *ResultPresenter) exportFailed(path string, cause error) error {
	serviceErr := shared.NewServiceError(
		shared.ErrorCategoryIO,
		shared.ErrCodeExportFailed,
		fmt.Sprintf("failed to export result to %s", path),
		"ResultPresenter",
		"ExportAsFile",
		false,
		cause,
	)
	serviceErr.LogError()
	return serviceErr
}
