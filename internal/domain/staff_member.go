package domain

import "time"

// StaffMember is an order-fulfilment operator. StaffCode is the stable key used
// by assignments, transfers and the action log.
type StaffMember struct {
	ID           string
	Name         string
	Username     string
	PasswordHash string
	StaffCode    string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Summary returns the directory view of the staff member.
func (s StaffMember) Summary() StaffSummary {
	return StaffSummary{
		StaffCode: s.StaffCode,
		Name:      s.Name,
		Username:  s.Username,
	}
}

// StaffSummary is the public directory entry used by transfer pickers.
type StaffSummary struct {
	StaffCode string `json:"staffCode"`
	Name      string `json:"name"`
	Username  string `json:"username"`
}

// Admin is a console administrator account.
type Admin struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
