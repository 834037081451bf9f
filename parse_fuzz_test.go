//go:build go1.18

package ledger

import (
	"bytes"
	"strings"
	"testing"
)

func FuzzParseJournal(f *testing.F) {
	for _, tc := range parseCases {
		if tc.errText == "" {
			f.Add(tc.data)
		}
	}
	f.Fuzz(func(t *testing.T, s string) {
		l, err := ParseJournal(strings.NewReader(s))
		if err != nil {
			return
		}

		// whatever parses must survive a write/parse round trip intact
		var out bytes.Buffer
		if err := WriteJournal(&out, l); err != nil {
			t.Fatal(err)
		}
		reloaded, err := ParseJournal(bytes.NewReader(out.Bytes()))
		if err != nil {
			t.Fatalf("rewritten journal does not parse: %v\n%s", err, out.String())
		}
		if reloaded.Len() != l.Len() {
			t.Errorf("entry count changed: %d != %d", l.Len(), reloaded.Len())
		}

		var back bytes.Buffer
		if err := WriteJournal(&back, reloaded); err != nil {
			t.Fatal(err)
		}
		if back.String() != out.String() {
			t.Errorf("journal text not stable:\n%s\n----\n%s", out.String(), back.String())
		}
	})
}
