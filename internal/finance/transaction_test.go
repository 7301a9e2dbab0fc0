package finance

import (
	"testing"
	"time"

	droneerrors "github.com/aboldguess/Nerfdrone/internal/errors"
)

func TestParseTransactionType(t *testing.T) {
	tests := []struct {
		input string
		want  TransactionType
	}{
		{"income", TypeIncome},
		{"expense", TypeExpense},
		{"  InCome  ", TypeIncome},
		{"EXPENSE", TypeExpense},
	}
	for _, tt := range tests {
		got, err := ParseTransactionType(tt.input)
		if err != nil {
			t.Errorf("ParseTransactionType(%q) error = %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseTransactionType(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestParseTransactionType_Unsupported(t *testing.T) {
	_, err := ParseTransactionType("transfer")
	if !droneerrors.Is(err, droneerrors.ErrValidation) {
		t.Fatalf("ParseTransactionType() error = %v, want validation", err)
	}
	if err.Error() != "VALIDATION: Unsupported transaction type: transfer" {
		t.Errorf("error = %q", err.Error())
	}
}

func TestParseDate(t *testing.T) {
	parsed, err := ParseDate("2024-06-01")
	if err != nil {
		t.Fatalf("ParseDate() error = %v", err)
	}
	if !parsed.Equal(time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("ParseDate() = %v", parsed)
	}

	if _, err := ParseDate("June 1st 2024"); err == nil {
		t.Error("ParseDate() accepted a non-ISO date")
	} else if err.Error() != "VALIDATION: Dates must be provided as ISO formatted strings" {
		t.Errorf("error = %q", err.Error())
	}
}

func TestParseOverrides(t *testing.T) {
	overrides, err := ParseOverrides(map[string]any{
		"transaction_type": "Income",
		"description":      "Bridge resurvey",
		"category":         "Commercial",
		"amount":           4050.5,
		"occurred_on":      "2024-06-01",
		"metadata":         map[string]any{"client": "City Council", "priority": 2},
	})
	if err != nil {
		t.Fatalf("ParseOverrides() error = %v", err)
	}
	if overrides.Type == nil || *overrides.Type != TypeIncome {
		t.Errorf("Type = %v", overrides.Type)
	}
	if overrides.Description == nil || *overrides.Description != "Bridge resurvey" {
		t.Errorf("Description = %v", overrides.Description)
	}
	if overrides.Amount == nil || *overrides.Amount != 4050.5 {
		t.Errorf("Amount = %v", overrides.Amount)
	}
	if overrides.OccurredOn == nil || overrides.OccurredOn.Format("2006-01-02") != "2024-06-01" {
		t.Errorf("OccurredOn = %v", overrides.OccurredOn)
	}
	if overrides.Metadata["priority"] != "2" {
		t.Errorf("Metadata = %v, want values coerced to strings", overrides.Metadata)
	}
}

func TestParseOverrides_NullValuesSkipped(t *testing.T) {
	overrides, err := ParseOverrides(map[string]any{
		"amount":   nil,
		"priority": nil, // unknown keys pass when the value is null
	})
	if err != nil {
		t.Fatalf("ParseOverrides() error = %v", err)
	}
	if overrides.Amount != nil {
		t.Errorf("Amount = %v, want nil", overrides.Amount)
	}
}

func TestParseOverrides_UnknownField(t *testing.T) {
	_, err := ParseOverrides(map[string]any{"priority": "high"})
	if !droneerrors.Is(err, droneerrors.ErrValidation) {
		t.Fatalf("ParseOverrides() error = %v, want validation", err)
	}
	if err.Error() != "VALIDATION: Override of field 'priority' is not supported" {
		t.Errorf("error = %q", err.Error())
	}
}

func TestParseOverrides_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		raw     map[string]any
		message string
	}{
		{
			name:    "metadata not a mapping",
			raw:     map[string]any{"metadata": "not-a-dict"},
			message: "Metadata overrides must be provided as a dictionary of string pairs",
		},
		{
			name:    "amount not numeric",
			raw:     map[string]any{"amount": "lots"},
			message: "Amount overrides must be numeric",
		},
		{
			name:    "date not a string",
			raw:     map[string]any{"occurred_on": 20240601},
			message: "Dates must be provided as ISO formatted strings",
		},
		{
			name:    "unsupported type",
			raw:     map[string]any{"transaction_type": "transfer"},
			message: "Unsupported transaction type: transfer",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseOverrides(tt.raw)
			if !droneerrors.Is(err, droneerrors.ErrValidation) {
				t.Fatalf("ParseOverrides() error = %v, want validation", err)
			}
			if err.Error() != "VALIDATION: "+tt.message {
				t.Errorf("error = %q, want %q", err.Error(), tt.message)
			}
		})
	}
}

func TestParseOverrides_AmountFromString(t *testing.T) {
	overrides, err := ParseOverrides(map[string]any{"amount": " 4050.25 "})
	if err != nil {
		t.Fatalf("ParseOverrides() error = %v", err)
	}
	if overrides.Amount == nil || *overrides.Amount != 4050.25 {
		t.Errorf("Amount = %v, want 4050.25", overrides.Amount)
	}
}

func TestTransactionRecord(t *testing.T) {
	transaction := seedTransaction()

	record := transaction.Record()
	if record.TransactionID != "txn_0001" || record.TransactionType != "expense" {
		t.Errorf("record = %+v", record)
	}
	if record.OccurredOn != "2024-05-01" {
		t.Errorf("OccurredOn = %q, want 2024-05-01", record.OccurredOn)
	}

	record.Metadata["role"] = "tampered"
	if transaction.Metadata["role"] != "Pilot" {
		t.Error("record aliases the transaction metadata")
	}
}
