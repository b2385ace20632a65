package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "duplicate registration",
			code:    "H001",
			wantMsg: "History has already been defined",
			wantCat: CategoryRegistry,
		},
		{
			name:    "protocol error",
			code:    "H010",
			wantMsg: "Malformed location frame",
			wantCat: CategoryProtocol,
		},
		{
			name:    "config error",
			code:    "H021",
			wantMsg: "Invalid configuration",
			wantCat: CategoryConfig,
		},
		{
			name:    "unknown error code",
			code:    "H999",
			wantMsg: "Unknown error",
			wantCat: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestNewf(t *testing.T) {
	err := Newf(CategoryCLI, "flag %q is required", "config")
	if err.Message != `flag "config" is required` {
		t.Errorf("Message = %q", err.Message)
	}
	if err.Code != "" {
		t.Errorf("Code = %q, want empty", err.Code)
	}
	if err.Error() != err.Message {
		t.Errorf("Error() = %q, want %q", err.Error(), err.Message)
	}
}

func TestWrapAndUnwrap(t *testing.T) {
	cause := fmt.Errorf("disk on fire")
	err := New("H020").Wrap(cause)

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
	if !strings.Contains(err.Error(), "disk on fire") {
		t.Errorf("Error() = %q, should include cause", err.Error())
	}
	if !errors.Is(err, New("H020")) {
		t.Error("errors.Is should match by code")
	}
	if errors.Is(err, New("H021")) {
		t.Error("errors.Is should not match a different code")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "H020") != nil {
		t.Error("FromError(nil) should be nil")
	}

	original := New("H001")
	wrapped := fmt.Errorf("register: %w", original)
	if got := FromError(wrapped, "H020"); got != original {
		t.Errorf("FromError should return the existing HistoryError, got %v", got)
	}

	plain := fmt.Errorf("boom")
	got := FromError(plain, "H011")
	if got.Code != "H011" || got.Wrapped != plain {
		t.Errorf("FromError(plain) = %+v", got)
	}
}

func TestHasCode(t *testing.T) {
	err := fmt.Errorf("outer: %w", New("H002"))
	if !HasCode(err, "H002") {
		t.Error("HasCode should see through wrapping")
	}
	if HasCode(err, "H001") {
		t.Error("HasCode matched the wrong code")
	}
	if HasCode(fmt.Errorf("plain"), "H002") {
		t.Error("HasCode matched a plain error")
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer func() { colorEnabled = true }()

	err := New("H001").WithSuggestion("Use a distinct key")
	out := err.Format()

	for _, want := range []string{"ERROR H001: History has already been defined", "Hint: Use a distinct key"} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q:\n%s", want, out)
		}
	}

	if got := err.FormatCompact(); got != "H001: History has already been defined" {
		t.Errorf("FormatCompact() = %q", got)
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText("one two three four", 10)
	if len(lines) != 2 || lines[0] != "one two" || lines[1] != "three four" {
		t.Errorf("wrapText = %q", lines)
	}
	if wrapText("", 10) != nil {
		t.Error("wrapText of empty string should be nil")
	}
}

func TestAllCodesHaveTemplates(t *testing.T) {
	codes := GetAllCodes()
	if !sort.StringsAreSorted(codes) {
		t.Errorf("GetAllCodes() not sorted: %q", codes)
	}
	for _, code := range codes {
		tpl, ok := GetTemplate(code)
		if !ok {
			t.Fatalf("GetTemplate(%q) missing", code)
		}
		if tpl.Message == "" || tpl.Category == "" {
			t.Errorf("code %s has incomplete template", code)
		}
	}
}
