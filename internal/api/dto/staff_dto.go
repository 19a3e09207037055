package dto

import "time"

// AdminLoginRequest payload.
type AdminLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// StaffLoginRequest payload.
type StaffLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse carries an issued token.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// StaffLoginResponse is the token plus the staff profile the console needs.
type StaffLoginResponse struct {
	AuthResponse
	StaffCode string `json:"staffCode"`
	Username  string `json:"username"`
	Name      string `json:"name"`
}

// StaffCreateRequest payload.
type StaffCreateRequest struct {
	Name      string `json:"name"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	StaffCode string `json:"staffCode"`
	Active    *bool  `json:"active"`
}

// StaffActiveRequest toggles a staff account.
type StaffActiveRequest struct {
	Active *bool `json:"active"`
}

// StaffResponse is the admin view of a staff account. The password hash never leaves the service.
type StaffResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Username  string    `json:"username"`
	StaffCode string    `json:"staffCode"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
