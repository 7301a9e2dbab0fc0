package finance

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	droneerrors "github.com/aboldguess/Nerfdrone/internal/errors"
)

// Ledger manages a collection of transactions with duplication helpers.
// All methods are safe for concurrent use; returned transactions are
// detached copies of internal state.
type Ledger struct {
	mu           sync.RWMutex
	transactions map[string]Transaction
	sequence     int
}

// NewLedger creates a ledger seeded with the deterministic demo set.
func NewLedger() *Ledger {
	ledger := emptyLedger()
	ledger.seedDemo()
	return ledger
}

// NewLedgerWith creates a ledger holding exactly the given transactions,
// which may be none. Seeded ids must be unique and end in a numeric suffix;
// the id sequence continues past the highest suffix seen.
func NewLedgerWith(transactions ...Transaction) (*Ledger, error) {
	ledger := emptyLedger()
	for _, transaction := range transactions {
		if err := ledger.register(transaction.clone()); err != nil {
			return nil, err
		}
	}
	return ledger, nil
}

func emptyLedger() *Ledger {
	return &Ledger{transactions: make(map[string]Transaction)}
}

// nextID mints the next identifier in the txn_%04d sequence. Callers must
// hold the write lock.
func (l *Ledger) nextID() string {
	l.sequence++
	return fmt.Sprintf("txn_%04d", l.sequence)
}

// register stores a transaction and advances the sequence so freshly minted
// ids never collide with any id ever inserted. Callers must hold the write
// lock.
func (l *Ledger) register(transaction Transaction) error {
	if _, exists := l.transactions[transaction.ID]; exists {
		return droneerrors.NewValidationf("Transaction %s already exists", transaction.ID)
	}
	suffix, err := idSuffix(transaction.ID)
	if err != nil {
		return err
	}
	l.transactions[transaction.ID] = transaction
	if suffix > l.sequence {
		l.sequence = suffix
	}
	return nil
}

func idSuffix(transactionID string) (int, error) {
	trailing := transactionID[strings.LastIndex(transactionID, "_")+1:]
	suffix, err := strconv.Atoi(trailing)
	if err != nil {
		return 0, droneerrors.NewValidationf("Transaction id %s must end in a numeric suffix", transactionID)
	}
	return suffix, nil
}

// ListTransactions returns all transactions ordered by occurrence date
// descending, then id descending for equal dates.
func (l *Ledger) ListTransactions() []Transaction {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.listLocked()
}

func (l *Ledger) listLocked() []Transaction {
	transactions := make([]Transaction, 0, len(l.transactions))
	for _, transaction := range l.transactions {
		transactions = append(transactions, transaction.clone())
	}
	sort.Slice(transactions, func(i, j int) bool {
		a, b := transactions[i], transactions[j]
		if !a.OccurredOn.Equal(b.OccurredOn) {
			return a.OccurredOn.After(b.OccurredOn)
		}
		return a.ID > b.ID
	})
	return transactions
}

// GetTransaction retrieves a transaction by id.
func (l *Ledger) GetTransaction(transactionID string) (Transaction, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	transaction, exists := l.transactions[transactionID]
	if !exists {
		return Transaction{}, droneerrors.NewTransactionNotFound(transactionID)
	}
	return transaction.clone(), nil
}

// DuplicateTransaction copies an existing transaction under a freshly minted
// id, applying any overrides. The new transaction is returned.
func (l *Ledger) DuplicateTransaction(transactionID string, overrides *Overrides) (Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	source, exists := l.transactions[transactionID]
	if !exists {
		return Transaction{}, droneerrors.NewTransactionNotFound(transactionID)
	}
	duplicated := overrides.apply(source)
	duplicated.ID = l.nextID()
	if err := l.register(duplicated); err != nil {
		return Transaction{}, err
	}
	return duplicated.clone(), nil
}

// Snapshot groups transaction records by type for JSON responses. Both
// partitions keep the ListTransactions ordering.
type Snapshot struct {
	Income   []Record `json:"income"`
	Expenses []Record `json:"expenses"`
}

// Snapshot exports the ledger partitioned into income and expenses.
func (l *Ledger) Snapshot() Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()

	snapshot := Snapshot{Income: []Record{}, Expenses: []Record{}}
	for _, transaction := range l.listLocked() {
		record := transaction.Record()
		if transaction.Type == TypeIncome {
			snapshot.Income = append(snapshot.Income, record)
		} else {
			snapshot.Expenses = append(snapshot.Expenses, record)
		}
	}
	return snapshot
}
