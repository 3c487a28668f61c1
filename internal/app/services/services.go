package services

// Services defined in this package:
// - AuthService: registration, email verification, login, token refresh
// - StudentService: student records, resume links, eligibility, backlog edits
// - MetricsService: CGPA and backlog recomputation from semester records
// - ImportService: gradesheet PDF ingestion
// - CompanyService: placement drives and export templates
// - ApplicationService: applications and the selection pipeline
// - ExportService: per-company and bulk Excel exports
// - UserService: admin user management, notification log, dashboard
