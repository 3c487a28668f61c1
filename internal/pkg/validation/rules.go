package validation

import (
	"regexp"
)

// Input patterns for student records. The grade sheet importer uses a looser
// pattern because scanned PDFs mangle roll numbers; API input is held to the
// registrar format.
var (
	// RollNoPattern matches registrar roll numbers like 21CS042 or 20EC1103.
	RollNoPattern = `^[0-9]{2}[A-Z]{2,3}[0-9]{3,4}$`

	// BranchPattern matches branch codes like CSE, ECE, IT.
	BranchPattern = `^[A-Z]{2,5}$`

	SemesterMin = 1
	SemesterMax = 10

	NameMinLength = 2
	NameMaxLength = 100
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	RollNo *regexp.Regexp
	Branch *regexp.Regexp
}{
	RollNo: regexp.MustCompile(RollNoPattern),
	Branch: regexp.MustCompile(BranchPattern),
}

// ValidRollNo reports whether s is a well-formed roll number. Input is
// expected to be already trimmed and uppercased.
func ValidRollNo(s string) bool {
	return CompiledPatterns.RollNo.MatchString(s)
}

// ValidBranch reports whether s is a well-formed branch code.
func ValidBranch(s string) bool {
	return CompiledPatterns.Branch.MatchString(s)
}

// ValidName reports whether s is an acceptable student name.
func ValidName(s string) bool {
	return len(s) >= NameMinLength && len(s) <= NameMaxLength
}

// ValidSemester reports whether n is a valid semester number.
func ValidSemester(n int) bool {
	return n >= SemesterMin && n <= SemesterMax
}
