package ledger

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func trainingLedger() *Ledger {
	l := NewLedger()
	add := func(n int, fund, memo string) {
		l.Append(Entry{Transaction: n, Fund: "1010", Debit: dec("10"), Base: dec("10"), Memo: memo})
		l.Append(Entry{Transaction: n, Fund: fund, Credit: dec("10"), Base: dec("10"), Memo: memo})
	}
	n := 1
	for range 5 {
		add(n, "4010", "Sunday morning offering")
		n++
		add(n, "3020", "building repair donation")
		n++
	}
	return l
}

func TestSuggest(t *testing.T) {
	s := TrainSuggester(trainingLedger())
	assert.Equal(t, "4010", s.Suggest(strings.Fields("Sunday offering")))
	assert.Equal(t, "3020", s.Suggest(strings.Fields("repair donation")))
}

func TestSuggestInsufficientHistory(t *testing.T) {
	l := NewLedger()
	assert.Nil(t, TrainSuggester(l))
	// nil suggester answers without panicking
	assert.Equal(t, "", TrainSuggester(l).Suggest([]string{"anything"}))

	// a single credited fund is not enough to classify
	l.Append(Entry{Transaction: 1, Fund: "1010", Debit: dec("10"), Memo: "m"})
	l.Append(Entry{Transaction: 1, Fund: "4010", Credit: dec("10"), Memo: "m"})
	assert.Nil(t, TrainSuggester(l))
}

func TestSuggestUncertain(t *testing.T) {
	s := TrainSuggester(trainingLedger())
	assert.Equal(t, "", s.Suggest([]string{"zebra"}), "unseen word has no clear winner")
	assert.Equal(t, "", s.Suggest(nil))
}
