package models

import (
	"testing"

	"github.com/fenilmodi00/shadowtrace-backend/shared"
)

func TestParseSearchCategory(t *testing.T) {
	tests := []struct {
		raw  string
		want SearchCategory
	}{
		{"phone", CategoryPhone},
		{"EMAIL", CategoryEmail},
		{" ip ", CategoryIP},
		{"Username", CategoryUsername},
		{"domain", CategoryDomain},
	}

	for _, tt := range tests {
		got, err := ParseSearchCategory(tt.raw)
		if err != nil {
			t.Fatalf("ParseSearchCategory(%q) returned error: %v", tt.raw, err)
		}
		if got != tt.want {
			t.Errorf("ParseSearchCategory(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestParseSearchCategoryUnknownSuggestsClosest(t *testing.T) {
	_, err := ParseSearchCategory("emial")
	if !shared.HasErrorCode(err, shared.ErrCodeUnknownCategory) {
		t.Fatalf("expected UNKNOWN_CATEGORY, got %v", err)
	}

	serviceErr, _ := shared.AsServiceError(err)
	if want := `unknown search category "emial", did you mean "email"?`; serviceErr.Message != want {
		t.Errorf("message = %q, want %q", serviceErr.Message, want)
	}
}

func TestSuggestCategoryRejectsDistantInput(t *testing.T) {
	if got, ok := SuggestCategory("cryptowallet"); ok {
		t.Errorf("SuggestCategory returned %q for a distant input", got)
	}
	if _, ok := SuggestCategory(""); ok {
		t.Error("SuggestCategory should not suggest for empty input")
	}
}

func TestCategoryInfos(t *testing.T) {
	if len(AllCategories()) != 5 {
		t.Fatalf("expected 5 categories, got %d", len(AllCategories()))
	}

	info, ok := CategoryIP.Info()
	if !ok {
		t.Fatal("ip category has no info")
	}
	if info.Label != "IP Address" || info.Placeholder != "192.168.1.1" {
		t.Errorf("unexpected ip info: %+v", info)
	}

	if SearchCategory("fax").IsValid() {
		t.Error("fax should not be a valid category")
	}
}
