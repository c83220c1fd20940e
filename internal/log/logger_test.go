package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"", slog.LevelInfo, false},
		{"INFO", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"loud", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLoggerTagsComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelDebug, Component: ComponentLedger, Output: &buf, JSON: true})

	fields := NewFields().
		WithOperation(OpRecord).
		WithTransaction(7, "deposit", 500).
		WithError(errors.New("boom"), func(error) string { return ErrorTypeDatabase })
	logger.Info("transaction recorded", fields.ToSlice()...)

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("decode log record: %v (%s)", err, buf.String())
	}
	if rec[FieldComponent] != ComponentLedger {
		t.Errorf("component = %v", rec[FieldComponent])
	}
	if rec[FieldTransactionID] != float64(7) || rec[FieldAmountCents] != float64(500) {
		t.Errorf("transaction fields missing: %v", rec)
	}
	if rec[FieldErrorType] != ErrorTypeDatabase {
		t.Errorf("error_type = %v", rec[FieldErrorType])
	}

	buf.Reset()
	logger.WithComponent(ComponentBudget).Debug("evaluated")
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("decode log record: %v", err)
	}
	if rec[FieldComponent] != ComponentBudget {
		t.Errorf("component = %v", rec[FieldComponent])
	}
}

func TestErrorType(t *testing.T) {
	errMissing := errors.New("missing")
	kinds := map[error]string{errMissing: ErrorTypeNotFound}
	if got := ErrorType(errors.Join(errMissing, errors.New("ctx")), kinds); got != ErrorTypeNotFound {
		t.Errorf("ErrorType = %q", got)
	}
	if got := ErrorType(errors.New("other"), kinds); got != ErrorTypeInternal {
		t.Errorf("ErrorType = %q", got)
	}
}
