package main

import (
	"bytes"
	stderrors "errors"
	"strings"
	"testing"

	"github.com/vango-dev/history/internal/errors"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	errors.DisableColors()

	cmd := newRootCmd()
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestExplain_ListsEveryCode(t *testing.T) {
	out, err := execute(t, "explain")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != len(errors.GetAllCodes()) {
		t.Errorf("got %d lines, want %d:\n%s", len(lines), len(errors.GetAllCodes()), out)
	}
	if lines[0] != "H001: History has already been defined" {
		t.Errorf("first line = %q", lines[0])
	}
}

func TestExplain_OneCode(t *testing.T) {
	out, err := execute(t, "explain", "h002")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if !strings.HasPrefix(out, "H002 [registry] History not defined") {
		t.Errorf("output = %q", out)
	}
}

func TestExplain_UnknownCode(t *testing.T) {
	_, err := execute(t, "explain", "H999")

	var he *errors.HistoryError
	if !stderrors.As(err, &he) || he.Category != errors.CategoryCLI {
		t.Fatalf("err = %v, want cli HistoryError", err)
	}
	if !strings.Contains(formatError(err), `unknown error code "H999"`) {
		t.Errorf("formatError = %q", formatError(err))
	}
}

func TestFlagErrorsAreCLIErrors(t *testing.T) {
	_, err := execute(t, "version", "--bogus")

	var he *errors.HistoryError
	if !stderrors.As(err, &he) || he.Category != errors.CategoryCLI {
		t.Fatalf("err = %v, want cli HistoryError", err)
	}
	if !strings.Contains(he.Suggestion, "historyd version --help") {
		t.Errorf("suggestion = %q", he.Suggestion)
	}
}

func TestFormatError_PlainErrorGetsCode(t *testing.T) {
	errors.DisableColors()

	out := formatError(stderrors.New("listen tcp: address in use"))
	for _, want := range []string{"ERROR H030: Command failed", "Cause: listen tcp: address in use"} {
		if !strings.Contains(out, want) {
			t.Errorf("formatError missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\033[") {
		t.Errorf("formatError emitted color codes with colors disabled: %q", out)
	}
}

func TestNoColorFlag(t *testing.T) {
	if _, err := execute(t, "--no-color", "version", "--short"); err != nil {
		t.Fatalf("version: %v", err)
	}
}
