package domain

import "time"

// InquiryKind distinguishes the public inbound forms sharing one store.
type InquiryKind string

const (
	InquiryContact  InquiryKind = "contact"
	InquiryCallback InquiryKind = "callback"
	InquiryEnquiry  InquiryKind = "enquiry"
)

// Inquiry is a contact, callback or product enquiry submission.
type Inquiry struct {
	ID          string      `json:"id"`
	Kind        InquiryKind `json:"kind"`
	ProductName string      `json:"productName,omitempty"`
	Name        string      `json:"name"`
	Email       string      `json:"email,omitempty"`
	Phone       string      `json:"phone"`
	Message     string      `json:"message"`
	CreatedAt   time.Time   `json:"createdAt"`
}

// ParticipantRole enumerates lucky-draw participant types.
type ParticipantRole string

const (
	ParticipantFarmer     ParticipantRole = "farmer"
	ParticipantSubscriber ParticipantRole = "subscriber"
)

// Participant is a lucky-draw sign up.
type Participant struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Role      ParticipantRole `json:"role"`
	Email     string          `json:"email"`
	Phone     string          `json:"phone"`
	Message   string          `json:"message"`
	CreatedAt time.Time       `json:"createdAt"`
}

// NewsletterSubscriber is a unique email with the set of places it signed up from.
type NewsletterSubscriber struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Sources   []string  `json:"sources"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
