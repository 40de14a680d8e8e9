package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLeadStatusValid(t *testing.T) {
	for _, s := range AllLeadStatuses() {
		assert.True(t, s.Valid(), "status %s", s)
	}
	assert.False(t, LeadStatus("archived").Valid())
	assert.False(t, LeadStatus("").Valid())
}

func TestLeadSourceValid(t *testing.T) {
	for _, s := range AllLeadSources() {
		assert.True(t, s.Valid(), "source %s", s)
	}
	assert.False(t, LeadSource("billboard").Valid())
}

func TestActivityTypeValid(t *testing.T) {
	for _, a := range AllActivityTypes() {
		assert.True(t, a.Valid(), "activity type %s", a)
	}
	assert.False(t, ActivityType("fax").Valid())
}

func TestValidPriority(t *testing.T) {
	assert.True(t, ValidPriority(1))
	assert.True(t, ValidPriority(2))
	assert.True(t, ValidPriority(3))

	assert.False(t, ValidPriority(0))
	assert.False(t, ValidPriority(4))
	assert.False(t, ValidPriority(-1))
	assert.False(t, ValidPriority(42))
}

func TestOpenStatuses(t *testing.T) {
	open := OpenStatuses()
	assert.Contains(t, open, StatusNew)
	assert.Contains(t, open, StatusFollowUp)
	assert.NotContains(t, open, StatusClosedWon)
	assert.NotContains(t, open, StatusClosedLost)
	assert.NotContains(t, open, StatusProposalSent)
}

func TestUserRolePrivileged(t *testing.T) {
	assert.True(t, RoleAdmin.Privileged())
	assert.True(t, RoleManager.Privileged())
	assert.False(t, RoleAgent.Privileged())
	assert.False(t, RoleViewer.Privileged())
}

func TestLeadInterests(t *testing.T) {
	lead := &Lead{PersonalLines: true, LifeAndHealth: true}
	assert.Equal(t, []string{"Personal Lines", "Life & Health"}, lead.Interests())

	assert.Empty(t, (&Lead{}).Interests())
}
