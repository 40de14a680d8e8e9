package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Quote is an insurance quote issued against a lead.
type Quote struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id"`
	LeadID      primitive.ObjectID `json:"lead_id" bson:"lead_id"`
	QuoteNumber string             `json:"quote_number" bson:"quote_number"`

	InsuranceType     string                 `json:"insurance_type" bson:"insurance_type"`
	CoverageDetails   map[string]interface{} `json:"coverage_details,omitempty" bson:"coverage_details,omitempty"`
	PremiumAmount     *float64               `json:"premium_amount,omitempty" bson:"premium_amount,omitempty"`
	Deductible        *float64               `json:"deductible,omitempty" bson:"deductible,omitempty"`
	CoverageStartDate *time.Time             `json:"coverage_start_date,omitempty" bson:"coverage_start_date,omitempty"`
	CoverageEndDate   *time.Time             `json:"coverage_end_date,omitempty" bson:"coverage_end_date,omitempty"`

	IsActive   bool       `json:"is_active" bson:"is_active"`
	IsAccepted bool       `json:"is_accepted" bson:"is_accepted"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty" bson:"expires_at,omitempty"`
	SentAt     *time.Time `json:"sent_at,omitempty" bson:"sent_at,omitempty"`
	ViewedAt   *time.Time `json:"viewed_at,omitempty" bson:"viewed_at,omitempty"`

	QuoteDocumentURL string   `json:"quote_document_url,omitempty" bson:"quote_document_url,omitempty"`
	Attachments      []string `json:"attachments,omitempty" bson:"attachments,omitempty"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}
