package errors

import (
	"fmt"
	"os"
	"strings"
	"testing"
)

func TestNewSchemaError(t *testing.T) {
	tests := []struct {
		name       string
		policy     string
		missing    []string
		unexpected []string
		wantMsg    string
	}{
		{
			name:    "strict missing column",
			policy:  "strict",
			missing: []string{"Recall"},
			wantMsg: "prcurve: schema: curve/KNN_GFD.csv must contain exactly the columns 'Precision' and 'Recall' (missing: Recall)",
		},
		{
			name:       "strict extra column",
			policy:     "strict",
			unexpected: []string{"Threshold"},
			wantMsg:    "prcurve: schema: curve/KNN_GFD.csv must contain exactly the columns 'Precision' and 'Recall' (unexpected: Threshold)",
		},
		{
			name:    "lenient missing both",
			policy:  "lenient",
			missing: []string{"Precision", "Recall"},
			wantMsg: "prcurve: schema: curve/KNN_GFD.csv must contain the columns 'Precision' and 'Recall' (missing: Precision, Recall)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewSchemaError("curve/KNN_GFD.csv", tt.policy, tt.missing, tt.unexpected)

			if err.Error() != tt.wantMsg {
				t.Errorf("Error() = %v, want %v", err.Error(), tt.wantMsg)
			}

			// スタックトレースの存在確認
			formatted := fmt.Sprintf("%+v", err)
			if !strings.Contains(formatted, "errors_test.go") {
				t.Error("Expected stack trace to contain test file name")
			}

			var schemaErr *SchemaError
			if !As(err, &schemaErr) {
				t.Fatal("Error should be castable to *SchemaError")
			}
			if schemaErr.Source != "curve/KNN_GFD.csv" {
				t.Errorf("Source = %q", schemaErr.Source)
			}
		})
	}
}

func TestNewIOError(t *testing.T) {
	err := NewIOError("open", "curve/SVM_ART.csv", os.ErrNotExist)

	want := "prcurve: open curve/SVM_ART.csv: file does not exist"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	// Unwrap による原因の判定
	if !Is(err, os.ErrNotExist) {
		t.Error("Expected Is(err, os.ErrNotExist) to be true")
	}

	var ioErr *IOError
	if !As(err, &ioErr) {
		t.Error("Error should be castable to *IOError")
	}
}

func TestNewConfigurationError(t *testing.T) {
	err := NewConfigurationError("RF_ART", "RF", "no color ramp registered")
	want := "prcurve: configuration: label 'RF_ART' (family 'RF'): no color ramp registered"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	err = NewConfigurationError("", "RF", "unknown ramp")
	want = "prcurve: configuration: family 'RF': unknown ramp"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var cfgErr *ConfigurationError
	if !As(err, &cfgErr) {
		t.Error("Error should be castable to *ConfigurationError")
	}
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("schema", "must be strict or lenient", "loose")
	want := "prcurve: validation failed for parameter 'schema': must be strict or lenient (got: loose)"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}
}

func TestCheckFinite(t *testing.T) {
	if err := CheckFinite("KNN_ART", "Recall", []float64{0, 0.5, 1}); err != nil {
		t.Fatalf("CheckFinite() = %v, want nil", err)
	}

	nan := []float64{0.1, 0.2}
	nan = append(nan, zero()/zero())
	err := CheckFinite("KNN_ART", "Precision", nan)
	var nfErr *NonFiniteValueError
	if !As(err, &nfErr) {
		t.Fatalf("Expected *NonFiniteValueError, got %v", err)
	}
	if nfErr.Row != 2 || nfErr.Column != "Precision" || nfErr.Label != "KNN_ART" {
		t.Errorf("unexpected error fields: %+v", nfErr)
	}
}

func zero() float64 { return 0 }

func TestWarn(t *testing.T) {
	prev := warningHandler
	var got []error
	SetWarningHandler(func(w error) { got = append(got, w) })
	defer SetWarningHandler(prev)

	Warn(NewIgnoredColumnsWarning("a.csv", []string{"Threshold", "F1"}))
	if len(got) != 1 {
		t.Fatalf("handler called %d times, want 1", len(got))
	}
	if got[0].Error() != "a.csv: ignoring extra columns [Threshold, F1]" {
		t.Errorf("warning = %q", got[0].Error())
	}

	// zerolog関数が設定されている場合はそちらが優先される
	var viaZerolog int
	SetZerologWarnFunc(func(error) { viaZerolog++ })
	defer SetZerologWarnFunc(nil)
	Warn(NewIgnoredColumnsWarning("b.csv", []string{"X"}))
	if viaZerolog != 1 || len(got) != 1 {
		t.Errorf("zerolog func calls = %d, handler calls = %d", viaZerolog, len(got))
	}
}

func TestWrapAndIs(t *testing.T) {
	wrapped := Wrapf(ErrMissingHeader, "reading %s", "curve/MLP_E34.csv")

	if !Is(wrapped, ErrMissingHeader) {
		t.Error("Expected Is(wrapped, ErrMissingHeader) to be true")
	}
	if !strings.Contains(wrapped.Error(), "reading curve/MLP_E34.csv") {
		t.Error("Expected wrapped error to contain wrapping message")
	}

	// IOErrorを介したチェーン
	chained := NewIOError("parse", "curve/MLP_E34.csv", Wrap(ErrMalformedValue, "row 3"))
	if !Is(chained, ErrMalformedValue) {
		t.Error("Expected error chain to reach ErrMalformedValue")
	}
}
