// Package gradesheet extracts semester result rows from uploaded PDF grade
// sheets. Extraction is deliberately tolerant: any row that cannot be parsed
// is skipped and counted, never aborting the import.
package gradesheet

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"
)

var (
	// Roll numbers: alphanumeric with optional slashes/dashes, at least 5 chars.
	rollPattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9/-]{4,}$`)
	// SGPA on the 0..10 scale with up to two decimals.
	sgpaPattern = regexp.MustCompile(`^(10(?:\.0+)?|[0-9](?:\.\d{1,2})?)$`)
)

// header words that mark a table header line rather than a data row
var headerWords = []string{"roll", "enroll", "sgpa", "backlog"}

// Row is one successfully extracted result line.
type Row struct {
	RollNo   string
	Name     string
	SGPA     float64
	Backlogs int
}

// Stats counts extraction outcomes for the import summary.
type Stats struct {
	Parsed  int `json:"parsed"`
	Skipped int `json:"skipped"`
}

// ParseFile extracts result rows from the PDF at path.
func ParseFile(path string) ([]Row, Stats, error) {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer file.Close()

	var (
		extracted []Row
		stats     Stats
	)

	for pageNo := 1; pageNo <= reader.NumPage(); pageNo++ {
		page := reader.Page(pageNo)
		if page.V.IsNull() {
			continue
		}
		textRows, err := page.GetTextByRow()
		if err != nil {
			// Pages without extractable text are not fatal for the import.
			continue
		}
		for _, textRow := range textRows {
			tokens := make([]string, 0, len(textRow.Content))
			for _, word := range textRow.Content {
				if s := strings.TrimSpace(word.S); s != "" {
					tokens = append(tokens, s)
				}
			}
			row, outcome := parseTokens(tokens)
			switch outcome {
			case rowParsed:
				extracted = append(extracted, row)
				stats.Parsed++
			case rowSkipped:
				stats.Skipped++
			}
		}
	}

	return extracted, stats, nil
}

type parseOutcome int

const (
	rowParsed parseOutcome = iota
	rowSkipped
	rowIgnored // blank lines and table headers
)

// parseTokens turns one line of positioned words into a result row. The
// column layout is discovered per line: the first roll-shaped token, the
// first SGPA-shaped token after it, and an optional integer backlog count
// after that. Everything between roll and SGPA is the student name.
func parseTokens(tokens []string) (Row, parseOutcome) {
	if len(tokens) == 0 {
		return Row{}, rowIgnored
	}
	if isHeaderLine(tokens) {
		return Row{}, rowIgnored
	}
	if len(tokens) < 2 {
		return Row{}, rowSkipped
	}

	rollIdx := -1
	for i, tok := range tokens {
		if rollPattern.MatchString(normalizeRoll(tok)) {
			rollIdx = i
			break
		}
	}
	if rollIdx == -1 {
		return Row{}, rowSkipped
	}

	sgpaIdx := -1
	for i := rollIdx + 1; i < len(tokens); i++ {
		if sgpaPattern.MatchString(tokens[i]) {
			sgpaIdx = i
			break
		}
	}
	if sgpaIdx == -1 {
		return Row{}, rowSkipped
	}

	sgpa, err := strconv.ParseFloat(tokens[sgpaIdx], 64)
	if err != nil {
		return Row{}, rowSkipped
	}

	backlogs := 0
	for i := sgpaIdx + 1; i < len(tokens); i++ {
		if n, err := strconv.Atoi(tokens[i]); err == nil && n >= 0 {
			backlogs = n
			break
		}
	}

	return Row{
		RollNo:   normalizeRoll(tokens[rollIdx]),
		Name:     strings.Join(tokens[rollIdx+1:sgpaIdx], " "),
		SGPA:     sgpa,
		Backlogs: backlogs,
	}, rowParsed
}

func normalizeRoll(tok string) string {
	return strings.ToUpper(strings.ReplaceAll(tok, " ", ""))
}

func isHeaderLine(tokens []string) bool {
	for _, tok := range tokens {
		lower := strings.ToLower(tok)
		for _, word := range headerWords {
			if strings.Contains(lower, word) {
				return true
			}
		}
	}
	return false
}
