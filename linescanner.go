package ledger

import (
	"bufio"
	"io"
)

// linescanner wraps bufio.Scanner with the file name and line number
// needed for parse error positions.
type linescanner struct {
	name    string
	scanner *bufio.Scanner
	line    int
}

func newLineScanner(name string, r io.Reader) *linescanner {
	return &linescanner{name: name, scanner: bufio.NewScanner(r)}
}

func (s *linescanner) Scan() bool {
	if s.scanner.Scan() {
		s.line++
		return true
	}
	return false
}

func (s *linescanner) Text() string {
	return s.scanner.Text()
}

func (s *linescanner) Name() string {
	return s.name
}

func (s *linescanner) LineNumber() int {
	return s.line
}
