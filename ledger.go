// Package ledger implements the transaction engine of a small-organization
// multi-currency fund ledger: the chart of accounts, the append-only entry
// store, the five transaction constructors, and the balance-sheet queries.
package ledger

import (
	"iter"
	"strings"
)

// Ledger is the system of record: an append-only ordered list of entries.
// Entries are immutable once appended; the whole ledger is held in memory
// and persisted only by an explicit save.
type Ledger struct {
	entries []Entry
	next    int
}

// NewLedger returns an empty ledger whose next transaction number is 1.
func NewLedger() *Ledger {
	return &Ledger{next: 1}
}

// Append adds one entry. No validation happens beyond keeping the
// transaction counter ahead of the highest number seen, which also
// initializes the counter when a saved ledger is loaded.
func (l *Ledger) Append(e Entry) {
	l.entries = append(l.entries, e)
	if e.Transaction >= l.next {
		l.next = e.Transaction + 1
	}
}

// Len returns the number of entries.
func (l *Ledger) Len() int {
	return len(l.entries)
}

// NextTransactionNumber reads the transaction counter.
func (l *Ledger) NextTransactionNumber() int {
	return l.next
}

// Entries yields every entry in ledger order.
func (l *Ledger) Entries() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for _, e := range l.entries {
			if !yield(e) {
				return
			}
		}
	}
}

// EntriesFor yields, in ledger order, the entries whose fund code equals
// the given code or extends it as a sub-account prefix. The sequence is
// restartable.
func (l *Ledger) EntriesFor(code string) iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for _, e := range l.entries {
			if e.Fund != code && !strings.HasPrefix(e.Fund, code) {
				continue
			}
			if !yield(e) {
				return
			}
		}
	}
}
