package dto

import (
	"time"

	"github.com/campuskit/placement/internal/app/models"
)

// NotificationLogResponse represents one recorded delivery attempt
type NotificationLogResponse struct {
	ID        int64     `json:"id"`
	UserID    *int64    `json:"userId,omitempty"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Status    string    `json:"status"`
	Error     *string   `json:"error,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// NotificationListResponse represents a paginated list of notification logs
type NotificationListResponse struct {
	Notifications []NotificationLogResponse `json:"notifications"`
	Pagination    PaginationInfo            `json:"pagination"`
}

// FromNotificationLog converts a models.NotificationLog to its response form
func FromNotificationLog(entry *models.NotificationLog) NotificationLogResponse {
	if entry == nil {
		return NotificationLogResponse{}
	}
	return NotificationLogResponse{
		ID:        entry.ID,
		UserID:    entry.UserID,
		Email:     entry.Email,
		Subject:   entry.Subject,
		Status:    string(entry.Status),
		Error:     entry.ErrorMessage,
		CreatedAt: entry.CreatedAt,
	}
}
