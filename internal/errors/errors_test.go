package errors

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"testing"
)

func TestAppErrorFormatting(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "without cause",
			err:  NewValidationError(ErrCodeInvalidInput, "resume text is empty", nil),
			want: "INVALID_INPUT: resume text is empty",
		},
		{
			name: "with cause",
			err:  NewTimeoutError(ErrCodeAnalysisTimeout, "analysis timed out", context.DeadlineExceeded),
			want: "ANALYSIS_TIMEOUT: analysis timed out (caused by: context deadline exceeded)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTypePredicatesSeeThroughWrapping(t *testing.T) {
	base := NewTimeoutError(ErrCodeAnalysisTimeout, "analysis timed out", context.DeadlineExceeded)
	wrapped := fmt.Errorf("cli: %w", base)

	if !IsTimeout(wrapped) {
		t.Error("IsTimeout() = false for wrapped timeout error")
	}
	if IsValidation(wrapped) {
		t.Error("IsValidation() = true for timeout error")
	}
	if IsTimeout(fmt.Errorf("plain")) {
		t.Error("IsTimeout() = true for plain error")
	}
}

func TestLogErrorIncludesContext(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, slog.LevelDebug)

	err := NewAIError(ErrCodeAIServiceFailed, "embedding failed", nil).WithContext("model", "text-embedding-004")
	logger.LogError(err, "analysis degraded")

	var entry map[string]any
	if jsonErr := json.Unmarshal(buf.Bytes(), &entry); jsonErr != nil {
		t.Fatalf("log output is not JSON: %v (%s)", jsonErr, buf.String())
	}
	if entry["error_code"] != ErrCodeAIServiceFailed {
		t.Errorf("error_code = %v", entry["error_code"])
	}
	if entry["model"] != "text-embedding-004" {
		t.Errorf("model = %v", entry["model"])
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New("verbose"); err == nil || !strings.Contains(err.Error(), "invalid log level") {
		t.Errorf("New(verbose) error = %v", err)
	}
	for _, level := range []string{"debug", "info", "warn", "error"} {
		if _, err := New(level); err != nil {
			t.Errorf("New(%s) error = %v", level, err)
		}
	}
}
