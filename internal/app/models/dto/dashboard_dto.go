package dto

// DashboardResponse aggregates placement season counters
type DashboardResponse struct {
	TotalStudents        int64            `json:"totalStudents"`
	EligibleStudents     int64            `json:"eligibleStudents"`
	BlockedStudents      int64            `json:"blockedStudents"`
	TotalCompanies       int64            `json:"totalCompanies"`
	TotalApplications    int64            `json:"totalApplications"`
	PlacedStudents       int64            `json:"placedStudents"`
	ApplicationsByStatus map[string]int64 `json:"applicationsByStatus"`
}
