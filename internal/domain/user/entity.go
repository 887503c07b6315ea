package user

import "time"

// User is a report-console account. Workers themselves never log in; they
// punch via NFC pages handled outside this service.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
