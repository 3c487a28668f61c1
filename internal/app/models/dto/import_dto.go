package dto

// ImportSummary reports what a gradesheet import did. Skipped rows are lines
// the parser could not shape into a (roll, sgpa) pair; lateral skips are rows
// for lateral-entry students in semesters before their entry point; branch
// mismatches are rows whose roll number belongs to a student in another branch.
type ImportSummary struct {
	SourceFile       string   `json:"sourceFile"`
	SemesterNo       int      `json:"semesterNo"`
	Credits          float64  `json:"credits"`
	RowsParsed       int      `json:"rowsParsed"`
	RowsSkipped      int      `json:"rowsSkipped"`
	RecordsImported  int      `json:"recordsImported"`
	StudentsCreated  int      `json:"studentsCreated"`
	LateralSkipped   int      `json:"lateralSkipped"`
	BranchMismatches int      `json:"branchMismatches"`
	CreatedRollNos   []string `json:"createdRollNos,omitempty"`
}
