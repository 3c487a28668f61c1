package models

// RoleType defines the user role type
type RoleType string

const (
	RoleAdmin       RoleType = "ADMIN"
	RoleCoordinator RoleType = "PLACEMENT_COORDINATOR"
	RoleStudent     RoleType = "STUDENT"
)

// EligibilityStatus is the placement eligibility state of a student.
// It is changed by policy actions (blocking selections, staff overrides),
// never directly by students.
type EligibilityStatus string

const (
	EligibilityEligible        EligibilityStatus = "ELIGIBLE"
	EligibilityExternalIntern  EligibilityStatus = "EXTERNAL_INTERN"
	EligibilityCampusIntern    EligibilityStatus = "CAMPUS_INTERN"
	EligibilityExternalPlaced  EligibilityStatus = "EXTERNAL_PLACED"
	EligibilityBlockedByPolicy EligibilityStatus = "BLOCKED_BY_POLICY"
)

// IsValid reports whether the status is one of the known variants.
func (s EligibilityStatus) IsValid() bool {
	switch s {
	case EligibilityEligible, EligibilityExternalIntern, EligibilityCampusIntern,
		EligibilityExternalPlaced, EligibilityBlockedByPolicy:
		return true
	}
	return false
}

// SelectionPolicy controls what a company's selection does to the
// student's other applications.
type SelectionPolicy string

const (
	// PolicyBlocking closes the student's other open applications once selected.
	PolicyBlocking SelectionPolicy = "BLOCKING"
	// PolicyNonBlocking leaves other applications untouched.
	PolicyNonBlocking SelectionPolicy = "NON_BLOCKING"
)

// IsValid reports whether the policy is a known variant.
func (p SelectionPolicy) IsValid() bool {
	return p == PolicyBlocking || p == PolicyNonBlocking
}

// ApplicationStatus is the stage of an application.
type ApplicationStatus string

const (
	ApplicationApplied     ApplicationStatus = "APPLIED"
	ApplicationShortlisted ApplicationStatus = "SHORTLISTED"
	ApplicationInterview   ApplicationStatus = "INTERVIEW"
	ApplicationSelected    ApplicationStatus = "SELECTED"
	ApplicationRejected    ApplicationStatus = "REJECTED"
	// ApplicationClosedByPolicy marks applications closed automatically after
	// the student was selected by a blocking company.
	ApplicationClosedByPolicy ApplicationStatus = "CLOSED_BY_POLICY"
)

// IsValid reports whether the status is a known variant.
func (s ApplicationStatus) IsValid() bool {
	switch s {
	case ApplicationApplied, ApplicationShortlisted, ApplicationInterview,
		ApplicationSelected, ApplicationRejected, ApplicationClosedByPolicy:
		return true
	}
	return false
}

// IsOpen reports whether the application is still in progress. Open
// applications are the ones a blocking selection closes.
func (s ApplicationStatus) IsOpen() bool {
	switch s {
	case ApplicationApplied, ApplicationShortlisted, ApplicationInterview:
		return true
	}
	return false
}
