package model

import "time"

// UserRole enumerates user roles within the LMS.
type UserRole string

const (
	UserRoleAdmin   UserRole = "ADMIN"
	UserRoleManager UserRole = "MANAGER"
	UserRoleLearner UserRole = "LEARNER"
)

// UserStatus is the canonical account state. Like CourseStatus, the backend
// returns this in more than one wire shape.
type UserStatus string

const (
	UserStatusActive   UserStatus = "ACTIVE"
	UserStatusInactive UserStatus = "INACTIVE"
	UserStatusDeleted  UserStatus = "DELETED"
)

// User is the canonical user view model.
type User struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Email       string       `json:"email"`
	Role        UserRole     `json:"role"`
	Status      UserStatus   `json:"status"`
	Departments []Department `json:"departments"`
	CreatedAt   time.Time    `json:"created_at"`
}
