package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository           *UserRepository
	TokenRepository          *TokenRepository
	StudentRepository        *StudentRepository
	SemesterRecordRepository *SemesterRecordRepository
	BacklogHistoryRepository *BacklogHistoryRepository
	CompanyRepository        *CompanyRepository
	ApplicationRepository    *ApplicationRepository
	NotificationRepository   *NotificationRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:           NewUserRepository(db),
		TokenRepository:          NewTokenRepository(db),
		StudentRepository:        NewStudentRepository(db),
		SemesterRecordRepository: NewSemesterRecordRepository(db),
		BacklogHistoryRepository: NewBacklogHistoryRepository(db),
		CompanyRepository:        NewCompanyRepository(db),
		ApplicationRepository:    NewApplicationRepository(db),
		NotificationRepository:   NewNotificationRepository(db),
	}
}
