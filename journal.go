package ledger

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/andybalholm/brotli"
)

// WriteJournal writes the ledger in journal file format, grouping
// consecutive entries that share a transaction header into one block.
// Parsing the output reproduces the identical entry sequence.
func WriteJournal(w io.Writer, l *Ledger) error {
	buf := bufio.NewWriter(w)

	first := true
	var prev Entry
	for e := range l.Entries() {
		if first || !sameBlock(prev, e) {
			if !first {
				buf.WriteString("\n")
			}
			writeHeader(buf, e)
			first = false
		}
		writePosting(buf, e)
		prev = e
	}
	return buf.Flush()
}

func sameBlock(a, b Entry) bool {
	return a.Transaction == b.Transaction &&
		a.Date.Equal(b.Date) &&
		a.Memo == b.Memo &&
		a.Payee == b.Payee
}

func writeHeader(w *bufio.Writer, e Entry) {
	fmt.Fprintf(w, "%s (%d) %s", e.Date.Format(DateLayout), e.Transaction, e.Memo)
	if e.Payee != "" {
		fmt.Fprintf(w, " ; %s", e.Payee)
	}
	w.WriteString("\n")
}

func writePosting(w *bufio.Writer, e Entry) {
	amount := e.Debit
	if e.Credit.Sign() != 0 {
		amount = e.Credit.Neg()
	}
	fmt.Fprintf(w, "    %s  %s", e.Fund, amount.StringFixed(2))
	if e.Rate != nil {
		fmt.Fprintf(w, " @ %s", e.Rate.String())
	}
	w.WriteString("\n")
}

// LoadJournal reads the journal at path. A missing file is not an
// error on first run; it yields an empty ledger.
func LoadJournal(path string) (*Ledger, error) {
	l, err := ParseJournalFile(path)
	if os.IsNotExist(err) {
		return NewLedger(), nil
	}
	return l, err
}

// SaveJournal overwrites the journal wholesale. The previous file, when
// present, is kept beside it as a brotli-compressed .bak.br.
func SaveJournal(path string, l *Ledger) error {
	if prev, err := os.ReadFile(path); err == nil {
		if err := writeBackup(path+".bak.br", prev); err != nil {
			return fmt.Errorf("unable to back up journal: %w", err)
		}
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteJournal(f, l); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeBackup(path string, contents []byte) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	bw := brotli.NewWriter(f)
	if _, err := bw.Write(contents); err != nil {
		f.Close()
		return err
	}
	if err := bw.Close(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
