package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID         int64     `json:"id" db:"id" example:"1"`
	Email      string    `json:"email" db:"email" example:"coordinator@placement.edu"`
	Password   string    `json:"-" db:"password"` // Bcrypt hash, excluded from JSON
	RoleType   RoleType  `json:"roleType" db:"role_type" example:"PLACEMENT_COORDINATOR"`
	IsVerified bool      `json:"isVerified" db:"is_verified"`
	StudentID  *int64    `json:"studentId,omitempty" db:"student_id"` // Linked student profile for STUDENT users
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`

	// Relations (populated when needed)
	Student *Student `json:"student,omitempty"`
}

// OTPPurpose narrows what an OTP code may be consumed for.
type OTPPurpose string

const (
	OTPPurposeVerifyEmail OTPPurpose = "VERIFY_EMAIL"
)

// OTPToken is a short-lived one-time code issued to a user, based on the
// 'otp_tokens' table.
type OTPToken struct {
	ID        int64      `json:"id" db:"id"`
	UserID    int64      `json:"userId" db:"user_id"`
	Code      string     `json:"-" db:"code"` // 6 digits, excluded from JSON
	Purpose   OTPPurpose `json:"purpose" db:"purpose"`
	ExpiresAt time.Time  `json:"expiresAt" db:"expires_at"`
	Consumed  bool       `json:"consumed" db:"consumed"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
}

// IsExpired reports whether the token is past its expiry.
func (t *OTPToken) IsExpired() bool {
	return time.Now().After(t.ExpiresAt)
}

// NotificationStatus is the delivery state of an outbound email.
type NotificationStatus string

const (
	NotificationPending      NotificationStatus = "PENDING"
	NotificationSent         NotificationStatus = "SENT"
	NotificationFailed       NotificationStatus = "FAILED"
	NotificationNoMailServer NotificationStatus = "NO_MAIL_SERVER_CONFIGURED"
)

// NotificationLog records every outbound email attempt, based on the
// 'notification_logs' table. Append-only; used for the admin mail debug view.
type NotificationLog struct {
	ID           int64              `json:"id" db:"id"`
	UserID       *int64             `json:"userId,omitempty" db:"user_id"`
	Email        string             `json:"email" db:"email"`
	Subject      string             `json:"subject" db:"subject"`
	Body         string             `json:"body" db:"body"`
	Status       NotificationStatus `json:"status" db:"status"`
	ErrorMessage *string            `json:"errorMessage,omitempty" db:"error_message"`
	CreatedAt    time.Time          `json:"createdAt" db:"created_at"`
}
