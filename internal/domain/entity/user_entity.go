package entity

import (
	"time"
)

// User is the aggregate root for the account domain.
// Passwords are stored as bcrypt hashes in Password field.
//
// Points and the two activity counters are only ever incremented, and only
// through UserRepository.Credit; nothing in the service layer decrements them.
type User struct {
	ID          string
	Email       string
	Password    string
	Name        string
	Points      int
	OrdersCount int
	ModelsCount int
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
