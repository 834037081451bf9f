package ledger

import (
	"strings"

	"github.com/jbrukh/bayesian"
)

// Suggester predicts the likely credit fund for a transaction from its
// memo and payee words, trained on ledger history.
type Suggester struct {
	classifier *bayesian.Classifier
}

// TrainSuggester learns memo/payee words against credited funds across
// the whole ledger. It returns nil when the history covers fewer than
// two distinct credit funds, which is not enough to classify.
func TrainSuggester(l *Ledger) *Suggester {
	uniqueFunds := make(map[string]bool)
	for e := range l.Entries() {
		if e.Credit.Sign() != 0 {
			uniqueFunds[e.Fund] = true
		}
	}
	if len(uniqueFunds) < 2 {
		return nil
	}

	classes := make([]bayesian.Class, 0, len(uniqueFunds))
	for code := range uniqueFunds {
		classes = append(classes, bayesian.Class(code))
	}

	classifier := bayesian.NewClassifier(classes...)
	for e := range l.Entries() {
		if e.Credit.Sign() == 0 {
			continue
		}
		words := strings.Fields(e.Memo + " " + e.Payee)
		if len(words) > 0 {
			classifier.Learn(words, bayesian.Class(e.Fund))
		}
	}
	return &Suggester{classifier: classifier}
}

// Suggest returns the fund code with the highest score for the input
// words, or empty when no class clearly wins. A log-score gap of 10
// between the top two candidates marks a high-confidence match.
func (s *Suggester) Suggest(words []string) string {
	if s == nil || len(words) == 0 {
		return ""
	}

	scores, _, _ := s.classifier.LogScores(words)
	best, second := 0, -1
	for j := range scores {
		if j == 0 {
			continue
		}
		if scores[j] > scores[best] {
			second = best
			best = j
		} else if second < 0 || scores[j] > scores[second] {
			second = j
		}
	}
	if second < 0 || scores[best]-scores[second] > 10 {
		return string(s.classifier.Classes[best])
	}
	return ""
}
