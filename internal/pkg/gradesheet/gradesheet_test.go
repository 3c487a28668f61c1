package gradesheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTokensWellFormedRow(t *testing.T) {
	row, outcome := parseTokens([]string{"20CS104", "Jane", "Doe", "8.25", "1"})

	require.Equal(t, rowParsed, outcome)
	assert.Equal(t, "20CS104", row.RollNo)
	assert.Equal(t, "Jane Doe", row.Name)
	assert.Equal(t, 8.25, row.SGPA)
	assert.Equal(t, 1, row.Backlogs)
}

func TestParseTokensLowercaseRollIsNormalized(t *testing.T) {
	row, outcome := parseTokens([]string{"20cs104", "Jane", "9.0"})

	require.Equal(t, rowParsed, outcome)
	assert.Equal(t, "20CS104", row.RollNo)
}

func TestParseTokensNoBacklogColumn(t *testing.T) {
	row, outcome := parseTokens([]string{"2024/EC/041", "John", "Smith", "7.5"})

	require.Equal(t, rowParsed, outcome)
	assert.Equal(t, "2024/EC/041", row.RollNo)
	assert.Equal(t, 0, row.Backlogs)
}

func TestParseTokensHeaderLineIgnored(t *testing.T) {
	_, outcome := parseTokens([]string{"Roll", "No", "Name", "SGPA", "Backlogs"})
	assert.Equal(t, rowIgnored, outcome)

	_, outcome = parseTokens([]string{"Enrollment", "Number", "SGPA"})
	assert.Equal(t, rowIgnored, outcome)
}

func TestParseTokensBlankLineIgnored(t *testing.T) {
	_, outcome := parseTokens(nil)
	assert.Equal(t, rowIgnored, outcome)
}

func TestParseTokensMissingSGPASkipped(t *testing.T) {
	_, outcome := parseTokens([]string{"20CS104", "Jane", "Doe"})
	assert.Equal(t, rowSkipped, outcome)
}

func TestParseTokensSGPAOutOfRangeSkipped(t *testing.T) {
	// 11.5 does not match the 0..10 grade scale
	_, outcome := parseTokens([]string{"20CS104", "Jane", "11.5"})
	assert.Equal(t, rowSkipped, outcome)
}

func TestParseTokensNoRollNumberSkipped(t *testing.T) {
	_, outcome := parseTokens([]string{"???", "Jane", "8.0"})
	assert.Equal(t, rowSkipped, outcome)
}

func TestParseTokensTenIsValidSGPA(t *testing.T) {
	row, outcome := parseTokens([]string{"20CS104", "Jane", "10.0"})

	require.Equal(t, rowParsed, outcome)
	assert.Equal(t, 10.0, row.SGPA)
}

func TestParseTokensNegativeBacklogIgnored(t *testing.T) {
	row, outcome := parseTokens([]string{"20CS104", "Jane", "8.0", "-3"})

	require.Equal(t, rowParsed, outcome)
	assert.Equal(t, 0, row.Backlogs)
}
