// Package parser handles batch command files and field normalization.
package parser

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Directive kinds understood in a batch command file.
const (
	DirectiveBorough = "-b"
	DirectiveAuthor  = "-a"
	DirectiveTitle   = "-t"
)

// Directive is one parsed line of a batch command file.
type Directive struct {
	Kind    string
	Content string
}

// ParseBatch reads a batch command file line by line. Each significant line
// starts with a directive token (-b, -a or -t) followed by the content;
// everything else is skipped. Lines with a token but no content are skipped
// too.
func ParseBatch(r io.Reader) ([]Directive, error) {
	var directives []Directive

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		parts := strings.Fields(scanner.Text())
		if len(parts) < 2 {
			continue
		}

		kind := parts[0]
		switch kind {
		case DirectiveBorough, DirectiveAuthor, DirectiveTitle:
			directives = append(directives, Directive{
				Kind:    kind,
				Content: strings.Join(parts[1:], " "),
			})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read batch file: %w", err)
	}

	return directives, nil
}

// NormalizeStatus trims the whitespace the catalogue wraps around status
// cells.
func NormalizeStatus(text string) string {
	return strings.TrimSpace(text)
}

// NormalizeText collapses runs of whitespace in extracted element text.
func NormalizeText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
