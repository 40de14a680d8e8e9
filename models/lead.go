package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LeadStatus is the closed set of pipeline states a lead can be in.
type LeadStatus string

const (
	StatusNew          LeadStatus = "new"
	StatusContacted    LeadStatus = "contacted"
	StatusQualified    LeadStatus = "qualified"
	StatusProposalSent LeadStatus = "proposal_sent"
	StatusClosedWon    LeadStatus = "closed_won"
	StatusClosedLost   LeadStatus = "closed_lost"
	StatusFollowUp     LeadStatus = "follow_up"
)

// AllLeadStatuses enumerates every status, in pipeline order. Reports that
// build one bucket per status range over this slice so a status added here
// shows up everywhere.
func AllLeadStatuses() []LeadStatus {
	return []LeadStatus{
		StatusNew, StatusContacted, StatusQualified, StatusProposalSent,
		StatusClosedWon, StatusClosedLost, StatusFollowUp,
	}
}

// OpenStatuses are the statuses a lead can hold while still being worked.
func OpenStatuses() []LeadStatus {
	return []LeadStatus{StatusNew, StatusContacted, StatusQualified, StatusFollowUp}
}

func (s LeadStatus) Valid() bool {
	switch s {
	case StatusNew, StatusContacted, StatusQualified, StatusProposalSent,
		StatusClosedWon, StatusClosedLost, StatusFollowUp:
		return true
	}
	return false
}

// LeadSource is the closed set of channels a lead can arrive through.
type LeadSource string

const (
	SourceWebsite     LeadSource = "website"
	SourceReferral    LeadSource = "referral"
	SourcePhoneCall   LeadSource = "phone_call"
	SourceEmail       LeadSource = "email"
	SourceSocialMedia LeadSource = "social_media"
	SourceWalkIn      LeadSource = "walk_in"
	SourceOther       LeadSource = "other"
)

func AllLeadSources() []LeadSource {
	return []LeadSource{
		SourceWebsite, SourceReferral, SourcePhoneCall, SourceEmail,
		SourceSocialMedia, SourceWalkIn, SourceOther,
	}
}

func (s LeadSource) Valid() bool {
	switch s {
	case SourceWebsite, SourceReferral, SourcePhoneCall, SourceEmail,
		SourceSocialMedia, SourceWalkIn, SourceOther:
		return true
	}
	return false
}

// ValidPriority reports whether p is one of the three priority tiers
// (1=low, 2=medium, 3=high).
func ValidPriority(p int) bool {
	return p >= 1 && p <= 3
}

// Lead is a prospective customer record. Personal fields keep the camelCase
// JSON names the quote form and the frontend use; CRM fields stay snake_case.
type Lead struct {
	ID primitive.ObjectID `json:"_id" bson:"_id"`

	// Personal information
	FirstName   string `json:"firstName" bson:"first_name"`
	LastName    string `json:"lastName" bson:"last_name"`
	Email       string `json:"email" bson:"email"`
	PhoneNumber string `json:"phoneNumber" bson:"phone_number"`

	// Address
	Country      string `json:"country" bson:"country"`
	AddressLine1 string `json:"addressLine1" bson:"address_line1"`
	AddressLine2 string `json:"addressLine2,omitempty" bson:"address_line2,omitempty"`
	City         string `json:"city" bson:"city"`
	State        string `json:"state" bson:"state"`
	ZipCode      string `json:"zipCode" bson:"zip_code"`

	// Insurance interests from the form checkboxes
	PersonalLines   bool `json:"personalLines" bson:"personal_lines"`
	CommercialLines bool `json:"commercialLines" bson:"commercial_lines"`
	LifeAndHealth   bool `json:"lifeAndHealth" bson:"life_and_health"`

	// CRM fields
	Status          LeadStatus          `json:"status" bson:"status"`
	Source          LeadSource          `json:"source" bson:"source"`
	AssignedAgentID *primitive.ObjectID `json:"assigned_agent_id,omitempty" bson:"assigned_agent_id,omitempty"`
	Priority        int                 `json:"priority" bson:"priority"` // 1=low, 2=medium, 3=high
	EstimatedValue  *float64            `json:"estimated_value,omitempty" bson:"estimated_value,omitempty"`
	Notes           string              `json:"notes" bson:"notes"`

	LastContactDate  *time.Time `json:"last_contact_date,omitempty" bson:"last_contact_date,omitempty"`
	NextFollowUpDate *time.Time `json:"next_follow_up_date,omitempty" bson:"next_follow_up_date,omitempty"`

	CustomFields map[string]interface{} `json:"custom_fields,omitempty" bson:"custom_fields,omitempty"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Interests lists the insurance lines the lead ticked on the form.
func (l *Lead) Interests() []string {
	var out []string
	if l.PersonalLines {
		out = append(out, "Personal Lines")
	}
	if l.CommercialLines {
		out = append(out, "Commercial Lines")
	}
	if l.LifeAndHealth {
		out = append(out, "Life & Health")
	}
	return out
}

// LeadWithDetails is a lead together with its history, returned by the
// single-lead endpoint.
type LeadWithDetails struct {
	Lead       `bson:",inline"`
	Activities []Activity `json:"activities"`
	Quotes     []Quote    `json:"quotes"`
}
