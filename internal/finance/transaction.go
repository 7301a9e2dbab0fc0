// Package finance provides the in-memory transaction ledger behind the
// control centre's budgeting views.
package finance

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	droneerrors "github.com/aboldguess/Nerfdrone/internal/errors"
)

const dateLayout = "2006-01-02"

// TransactionType distinguishes income from expense entries.
type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// ParseTransactionType coerces arbitrary casing and padding into a valid
// transaction type.
func ParseTransactionType(value string) (TransactionType, error) {
	switch TransactionType(strings.ToLower(strings.TrimSpace(value))) {
	case TypeIncome:
		return TypeIncome, nil
	case TypeExpense:
		return TypeExpense, nil
	}
	return "", droneerrors.NewValidationf("Unsupported transaction type: %s", value)
}

// ParseDate parses an ISO formatted (YYYY-MM-DD) date string.
func ParseDate(value string) (time.Time, error) {
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, droneerrors.NewValidation("Dates must be provided as ISO formatted strings")
	}
	return parsed, nil
}

// Transaction is a single ledger entry.
type Transaction struct {
	// ID is the ledger-wide identifier, minted as txn_%04d.
	ID string
	// Type marks the entry as income or expense.
	Type TransactionType
	// Description is a free-text label for the entry.
	Description string
	// Category groups entries for reporting.
	Category string
	// Amount is the entry value in the operator's home currency.
	Amount float64
	// OccurredOn is the booking date. Only the date part is meaningful.
	OccurredOn time.Time
	// Metadata carries free-form string pairs. It is copied on write and
	// on export, never aliased.
	Metadata map[string]string
}

func (t Transaction) clone() Transaction {
	out := t
	out.Metadata = copyMetadata(t.Metadata)
	return out
}

func copyMetadata(metadata map[string]string) map[string]string {
	out := make(map[string]string, len(metadata))
	for key, value := range metadata {
		out[key] = value
	}
	return out
}

// Record is the flat wire form of a transaction.
type Record struct {
	TransactionID   string            `json:"transaction_id"`
	TransactionType string            `json:"transaction_type"`
	Description     string            `json:"description"`
	Category        string            `json:"category"`
	Amount          float64           `json:"amount"`
	OccurredOn      string            `json:"occurred_on"`
	Metadata        map[string]string `json:"metadata"`
}

// Record exports the transaction with serialisable values.
func (t Transaction) Record() Record {
	return Record{
		TransactionID:   t.ID,
		TransactionType: string(t.Type),
		Description:     t.Description,
		Category:        t.Category,
		Amount:          t.Amount,
		OccurredOn:      t.OccurredOn.Format(dateLayout),
		Metadata:        copyMetadata(t.Metadata),
	}
}

// Overrides selects the transaction fields a duplicate may replace. Nil
// fields keep the source value. Metadata, when set, replaces the source
// metadata wholesale.
type Overrides struct {
	Type        *TransactionType
	Description *string
	Category    *string
	Amount      *float64
	OccurredOn  *time.Time
	Metadata    map[string]string
}

func (o *Overrides) apply(source Transaction) Transaction {
	out := source.clone()
	if o == nil {
		return out
	}
	if o.Type != nil {
		out.Type = *o.Type
	}
	if o.Description != nil {
		out.Description = *o.Description
	}
	if o.Category != nil {
		out.Category = *o.Category
	}
	if o.Amount != nil {
		out.Amount = *o.Amount
	}
	if o.OccurredOn != nil {
		out.OccurredOn = *o.OccurredOn
	}
	if o.Metadata != nil {
		out.Metadata = copyMetadata(o.Metadata)
	}
	return out
}

// ParseOverrides validates and coerces a dynamic override payload, as
// submitted through the web API or tool calls, into typed Overrides.
// Null values are skipped field by field; unknown keys are rejected.
func ParseOverrides(raw map[string]any) (*Overrides, error) {
	overrides := &Overrides{}
	for key, value := range raw {
		if value == nil {
			continue
		}
		switch key {
		case "transaction_type":
			parsed, err := ParseTransactionType(toText(value))
			if err != nil {
				return nil, err
			}
			overrides.Type = &parsed
		case "occurred_on":
			text, ok := value.(string)
			if !ok {
				return nil, droneerrors.NewValidation("Dates must be provided as ISO formatted strings")
			}
			parsed, err := ParseDate(text)
			if err != nil {
				return nil, err
			}
			overrides.OccurredOn = &parsed
		case "description":
			text := toText(value)
			overrides.Description = &text
		case "category":
			text := toText(value)
			overrides.Category = &text
		case "amount":
			amount, err := toAmount(value)
			if err != nil {
				return nil, err
			}
			overrides.Amount = &amount
		case "metadata":
			metadata, err := toMetadata(value)
			if err != nil {
				return nil, err
			}
			overrides.Metadata = metadata
		default:
			return nil, droneerrors.NewValidationf("Override of field '%s' is not supported", key)
		}
	}
	return overrides, nil
}

func toText(value any) string {
	if text, ok := value.(string); ok {
		return text
	}
	return fmt.Sprintf("%v", value)
}

func toAmount(value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, droneerrors.NewValidation("Amount overrides must be numeric")
		}
		return parsed, nil
	}
	return 0, droneerrors.NewValidation("Amount overrides must be numeric")
}

func toMetadata(value any) (map[string]string, error) {
	switch mapping := value.(type) {
	case map[string]string:
		return copyMetadata(mapping), nil
	case map[string]any:
		metadata := make(map[string]string, len(mapping))
		for key, entry := range mapping {
			metadata[key] = toText(entry)
		}
		return metadata, nil
	}
	return nil, droneerrors.NewValidation("Metadata overrides must be provided as a dictionary of string pairs")
}
