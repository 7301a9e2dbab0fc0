package finance

import "time"

// seedDemo populates the ledger with the deterministic demo set used for
// UI previews. Ids are minted through the normal sequence so the first
// entry is always txn_0001.
func (l *Ledger) seedDemo() {
	demo := []Transaction{
		{
			Type:        TypeIncome,
			Description: "Recurring mapping contract",
			Category:    "Commercial",
			Amount:      12500.0,
			OccurredOn:  time.Date(2024, time.May, 28, 0, 0, 0, 0, time.UTC),
			Metadata:    map[string]string{"client": "City Council"},
		},
		{
			Type:        TypeIncome,
			Description: "Survey retainer",
			Category:    "Commercial",
			Amount:      5800.0,
			OccurredOn:  time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC),
			Metadata:    map[string]string{"client": "Greenbuild"},
		},
		{
			Type:        TypeExpense,
			Description: "Pilot salary",
			Category:    "Payroll",
			Amount:      4200.0,
			OccurredOn:  time.Date(2024, time.May, 31, 0, 0, 0, 0, time.UTC),
			Metadata:    map[string]string{"role": "Senior pilot"},
		},
		{
			Type:        TypeExpense,
			Description: "Insurance premium",
			Category:    "Operations",
			Amount:      950.0,
			OccurredOn:  time.Date(2024, time.May, 20, 0, 0, 0, 0, time.UTC),
			Metadata:    map[string]string{"provider": "AeroShield"},
		},
	}
	for _, transaction := range demo {
		transaction.ID = l.nextID()
		// Freshly minted ids cannot collide.
		_ = l.register(transaction)
	}
}
