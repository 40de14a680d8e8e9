package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insurancecrm/models"
)

func TestNewIntakeLeadDefaults(t *testing.T) {
	lead := newIntakeLead(leadIntakeRequest{
		FirstName:   "Jane",
		LastName:    "Doe",
		Email:       " Jane.Doe@Example.COM ",
		PhoneNumber: "555-0100",
	})
	require.NotNil(t, lead)

	assert.Equal(t, models.StatusNew, lead.Status)
	assert.Equal(t, models.SourceWebsite, lead.Source, "blank source falls back to website")
	assert.Equal(t, 3, lead.Priority, "form submissions start at the highest priority")
	assert.Equal(t, "United States", lead.Country, "blank country gets the domestic default")
	assert.Equal(t, "jane.doe@example.com", lead.Email)
}

func TestNewIntakeLeadKeepsProvidedFields(t *testing.T) {
	lead := newIntakeLead(leadIntakeRequest{
		FirstName:   "Liam",
		LastName:    "Reyes",
		Email:       "liam@example.com",
		PhoneNumber: "555-0101",
		Country:     "Canada",
		Source:      "referral",
	})

	assert.Equal(t, "Canada", lead.Country)
	assert.Equal(t, models.SourceReferral, lead.Source)
}

func TestNewIntakeLeadUnknownSource(t *testing.T) {
	lead := newIntakeLead(leadIntakeRequest{
		FirstName:   "Ana",
		LastName:    "Silva",
		Email:       "ana@example.com",
		PhoneNumber: "555-0102",
		Source:      "billboard",
	})

	assert.Equal(t, models.SourceWebsite, lead.Source, "unknown sources are not stored")
}
