package dto

import "encoding/json"

// Content endpoints accept JSON or multipart bodies, hence the paired tags.

// FloatingTextRequest payload.
type FloatingTextRequest struct {
	Text string `json:"text" form:"text"`
}

// ProductRequest payload; a multipart "image" file overrides ImageURL.
type ProductRequest struct {
	Name           string   `json:"name" form:"name"`
	Description    string   `json:"description" form:"description"`
	Price          *float64 `json:"price" form:"price"`
	VideoURL       string   `json:"videoUrl" form:"videoUrl"`
	WhatsappNumber string   `json:"whatsappNumber" form:"whatsappNumber"`
	ImageURL       string   `json:"imageUrl" form:"imageUrl"`
}

// BlogRequest payload; a multipart "media" file overrides MediaURL.
type BlogRequest struct {
	Title     string `json:"title" form:"title"`
	Content   string `json:"content" form:"content"`
	MediaType string `json:"mediaType" form:"mediaType"`
	MediaURL  string `json:"mediaUrl" form:"mediaUrl"`
}

// ReviewRequest payload.
type ReviewRequest struct {
	Name     string `json:"name" form:"name"`
	Text     string `json:"text" form:"text"`
	ImageURL string `json:"imageUrl" form:"imageUrl"`
}

// LuckyRequest payload shared by both lucky boards.
type LuckyRequest struct {
	Name     string `json:"name" form:"name"`
	Content  string `json:"content" form:"content"`
	Phone    string `json:"phone" form:"phone"`
	ImageURL string `json:"imageUrl" form:"imageUrl"`
}

// PlanRequest payload. Features is either a JSON array or a comma-separated
// string, so it is decoded by the handler.
type PlanRequest struct {
	Title         string          `json:"title" form:"title"`
	Price         float64         `json:"price" form:"price"`
	BillingPeriod string          `json:"billingPeriod" form:"billingPeriod"`
	Features      json.RawMessage `json:"features" form:"-"`
	Description   string          `json:"description" form:"description"`
	ImageURL      string          `json:"imageUrl" form:"imageUrl"`
	Popular       bool            `json:"popular" form:"popular"`
	Order         int             `json:"order" form:"order"`
}

// UploadResponse is the URL of a relayed file.
type UploadResponse struct {
	URL string `json:"url"`
}
