package domain

import "time"

// Product is a catalog item shown on the storefront.
type Product struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	ImageURL       string    `json:"imageUrl"`
	Price          *float64  `json:"price,omitempty"`
	VideoURL       string    `json:"videoUrl"`
	WhatsappNumber string    `json:"whatsappNumber"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// BlogMediaType enumerates blog attachment kinds.
type BlogMediaType string

const (
	BlogMediaNone  BlogMediaType = "none"
	BlogMediaImage BlogMediaType = "image"
	BlogMediaVideo BlogMediaType = "video"
)

// Blog is a news/insight post.
type Blog struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Content   string        `json:"content"`
	MediaType BlogMediaType `json:"mediaType"`
	MediaURL  string        `json:"mediaUrl"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// Review is a customer testimonial.
type Review struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ImageURL  string    `json:"imageUrl"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BillingPeriod enumerates plan billing cadences.
type BillingPeriod string

const (
	BillingWeekly   BillingPeriod = "weekly"
	BillingMonthly  BillingPeriod = "monthly"
	BillingPerDay   BillingPeriod = "per_day"
	BillingPerServe BillingPeriod = "per_serve"
	BillingPerYear  BillingPeriod = "per_year"
)

// Valid reports whether p is a supported billing period.
func (p BillingPeriod) Valid() bool {
	switch p {
	case BillingWeekly, BillingMonthly, BillingPerDay, BillingPerServe, BillingPerYear:
		return true
	}
	return false
}

// Plan is a subscription offering for the home page slider.
type Plan struct {
	ID            string        `json:"id"`
	Title         string        `json:"title"`
	Price         float64       `json:"price"`
	BillingPeriod BillingPeriod `json:"billingPeriod"`
	Features      []string      `json:"features"`
	Description   string        `json:"description"`
	ImageURL      string        `json:"imageUrl"`
	Popular       bool          `json:"popular"`
	SortOrder     int           `json:"order"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// FloatingText is a ticker banner message; the newest one is shown.
type FloatingText struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// LuckyKind distinguishes the two lucky-winner boards.
type LuckyKind string

const (
	LuckyFarmer     LuckyKind = "farmer"
	LuckySubscriber LuckyKind = "subscriber"
)

// LuckyEntry is a featured lucky farmer or subscriber.
type LuckyEntry struct {
	ID        string    `json:"id"`
	Kind      LuckyKind `json:"kind"`
	Name      string    `json:"name"`
	ImageURL  string    `json:"imageUrl"`
	Content   string    `json:"content"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
