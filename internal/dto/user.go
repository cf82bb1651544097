package dto

// User is the wire shape of a user. Role, Status and Department are
// dynamic-shape fields.
type User struct {
	ID         string      `json:"id"`
	FullName   string      `json:"fullName"`
	Email      string      `json:"email"`
	Role       NameRef     `json:"role"`
	Status     NameRef     `json:"status"`
	Department NameRefList `json:"department"`
	CreatedAt  string      `json:"createdAt"`
}

// LoginRequest is the credential payload for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

// LoginResponse is returned on successful login.
type LoginResponse struct {
	AccessToken string `json:"accessToken"`
	User        User   `json:"user"`
}

// CreateUserRequest is the payload for creating a user account.
type CreateUserRequest struct {
	FullName      string   `json:"fullName" binding:"required,min=2,max=255"`
	Email         string   `json:"email" binding:"required,email"`
	Password      string   `json:"password" binding:"required,min=6,max=128"`
	Role          string   `json:"role" binding:"required,oneof=ADMIN MANAGER LEARNER"`
	DepartmentIDs []string `json:"departmentIds" binding:"omitempty,dive,required"`
}

// UpdateUserRequest is the payload for updating a user account.
type UpdateUserRequest struct {
	FullName      string   `json:"fullName" binding:"omitempty,min=2,max=255"`
	Email         string   `json:"email" binding:"omitempty,email"`
	Role          string   `json:"role" binding:"omitempty,oneof=ADMIN MANAGER LEARNER"`
	DepartmentIDs []string `json:"departmentIds" binding:"omitempty,dive,required"`
	Status        string   `json:"status" binding:"omitempty,oneof=ACTIVE INACTIVE"`
}

// ResetPasswordRequest is the payload for an admin password reset.
type ResetPasswordRequest struct {
	NewPassword string `json:"newPassword" binding:"required,min=6,max=128"`
}
