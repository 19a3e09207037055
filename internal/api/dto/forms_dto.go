package dto

import (
	"encoding/json"
	"strconv"

	"github.com/spec-kit/farmstore-service/internal/domain"
)

// InquiryRequest payload shared by contact, callback and enquiry forms.
type InquiryRequest struct {
	ProductName string `json:"productName"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Message     string `json:"message"`
}

// ParticipantRequest payload.
type ParticipantRequest struct {
	Name    string `json:"name"`
	Role    string `json:"role"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// SubscribeRequest payload.
type SubscribeRequest struct {
	Email  string `json:"email"`
	Source string `json:"source"`
}

// PaymentRequest is the multipart payment submission; the "proof" file travels alongside.
type PaymentRequest struct {
	OrderNumber   string   `json:"orderNumber" form:"orderNumber"`
	CustomerName  string   `json:"customerName" form:"customerName"`
	CustomerPhone string   `json:"customerPhone" form:"customerPhone"`
	Amount        *float64 `json:"amount" form:"amount"`
	Method        string   `json:"method" form:"method"`
}

// SurveyRequest payload.
type SurveyRequest struct {
	Title       string                  `json:"title"`
	Description string                  `json:"description"`
	Questions   []domain.SurveyQuestion `json:"questions"`
	Active      *bool                   `json:"active"`
}

// SurveyAnswerRequest is a public survey submission. Answers may be any JSON
// scalar; they are stored as text.
type SurveyAnswerRequest struct {
	Answers []any          `json:"answers"`
	Meta    map[string]any `json:"meta"`
}

// AnswerStrings renders each answer as text: null becomes "", numbers and
// booleans their literal form, objects and arrays their JSON encoding.
func (r SurveyAnswerRequest) AnswerStrings() []string {
	if r.Answers == nil {
		return nil
	}
	out := make([]string, len(r.Answers))
	for i, answer := range r.Answers {
		switch v := answer.(type) {
		case nil:
		case string:
			out[i] = v
		case float64:
			out[i] = strconv.FormatFloat(v, 'f', -1, 64)
		case bool:
			out[i] = strconv.FormatBool(v)
		default:
			raw, _ := json.Marshal(v)
			out[i] = string(raw)
		}
	}
	return out
}
