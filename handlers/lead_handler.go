package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"insurancecrm/database"
	"insurancecrm/database/queries"
	"insurancecrm/models"
	"insurancecrm/websocket"
)

// leadIntakeRequest is the public quote-form payload. Field names are the
// camelCase keys the form posts.
type leadIntakeRequest struct {
	FirstName   string `json:"firstName" binding:"required"`
	LastName    string `json:"lastName" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	PhoneNumber string `json:"phoneNumber" binding:"required"`

	Country      string `json:"country"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2"`
	City         string `json:"city"`
	State        string `json:"state"`
	ZipCode      string `json:"zipCode"`

	PersonalLines   bool `json:"personalLines"`
	CommercialLines bool `json:"commercialLines"`
	LifeAndHealth   bool `json:"lifeAndHealth"`

	Source string `json:"source"`
	Notes  string `json:"notes"`
}

// newIntakeLead builds the stored record for a quote-form submission.
// Form leads start at the highest priority; country defaults to
// "United States" since the form targets domestic prospects.
func newIntakeLead(req leadIntakeRequest) *models.Lead {
	source := models.LeadSource(req.Source)
	if !source.Valid() {
		source = models.SourceWebsite
	}
	country := req.Country
	if country == "" {
		country = "United States"
	}

	return &models.Lead{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           strings.ToLower(strings.TrimSpace(req.Email)),
		PhoneNumber:     req.PhoneNumber,
		Country:         country,
		AddressLine1:    req.AddressLine1,
		AddressLine2:    req.AddressLine2,
		City:            req.City,
		State:           req.State,
		ZipCode:         req.ZipCode,
		PersonalLines:   req.PersonalLines,
		CommercialLines: req.CommercialLines,
		LifeAndHealth:   req.LifeAndHealth,
		Status:          models.StatusNew,
		Source:          source,
		Priority:        3,
		Notes:           req.Notes,
	}
}

// CreateLead is the public intake endpoint behind the quote form. A
// re-submission with a known email soft-updates the existing lead instead
// of creating a duplicate.
func CreateLead(c *gin.Context) {
	var req leadIntakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lead := newIntakeLead(req)
	existing, err := queries.FindLeadByEmail(c.Request.Context(), lead.Email)
	if err != nil {
		respondError(c, err)
		return
	}

	if existing != nil {
		updated, err := queries.UpdateLead(c.Request.Context(), existing.ID, bson.M{
			"first_name":       req.FirstName,
			"last_name":        req.LastName,
			"phone_number":     req.PhoneNumber,
			"country":          req.Country,
			"address_line1":    req.AddressLine1,
			"address_line2":    req.AddressLine2,
			"city":             req.City,
			"state":            req.State,
			"zip_code":         req.ZipCode,
			"personal_lines":   req.PersonalLines,
			"commercial_lines": req.CommercialLines,
			"life_and_health":  req.LifeAndHealth,
		})
		if err != nil {
			respondError(c, err)
			return
		}

		if err := queries.InsertActivity(c.Request.Context(), &models.Activity{
			LeadID:       updated.ID,
			ActivityType: models.ActivityNote,
			Title:        "Lead Updated",
			Description:  "Lead resubmitted the quote form with updated information",
		}); err != nil {
			log.Printf("CreateLead: failed to log update activity: %v", err)
		}

		broadcastLeadEvent(websocket.EventLeadUpdated, updated)
		c.JSON(http.StatusOK, updated)
		return
	}

	if err := queries.InsertLead(c.Request.Context(), lead); err != nil {
		respondError(c, err)
		return
	}

	description := "New lead submitted through the quote form"
	if interests := lead.Interests(); len(interests) > 0 {
		description = fmt.Sprintf("New lead interested in: %s", strings.Join(interests, ", "))
	}
	if err := queries.InsertActivity(c.Request.Context(), &models.Activity{
		LeadID:       lead.ID,
		ActivityType: models.ActivityNote,
		Title:        "Lead Created",
		Description:  description,
	}); err != nil {
		log.Printf("CreateLead: failed to log intake activity: %v", err)
	}

	broadcastLeadEvent(websocket.EventLeadCreated, lead)
	c.JSON(http.StatusCreated, lead)
}

// ListLeads returns one page of leads. Only admins see leads assigned to
// other agents here.
func ListLeads(c *gin.Context) {
	id, ok := actorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user identity"})
		return
	}

	filter := queries.LeadFilter{
		Status:          models.LeadStatus(c.Query("status")),
		Source:          models.LeadSource(c.Query("source")),
		AssignedAgentID: c.Query("assigned_agent_id"),
		Search:          c.Query("search"),
	}
	if v, err := strconv.Atoi(c.DefaultQuery("priority", "0")); err == nil {
		filter.Priority = v
	}
	if v, err := strconv.Atoi(c.DefaultQuery("skip", "0")); err == nil {
		filter.Skip = v
	}
	if v, err := strconv.Atoi(c.DefaultQuery("limit", "100")); err == nil {
		filter.Limit = v
	}

	scope := bson.M{}
	if actorRole(c) != models.RoleAdmin {
		scope["assigned_agent_id"] = id
	}

	leads, total, err := queries.ListLeads(c.Request.Context(), filter, scope)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"leads": leads,
		"total": total,
		"skip":  filter.Skip,
		"limit": filter.Limit,
	})
}

// GetLead returns one lead with its activities and quotes.
func GetLead(c *gin.Context) {
	id, err := database.ParseID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	lead, err := queries.GetLead(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if !canAccessLead(c, lead) {
		respondError(c, database.ErrForbidden)
		return
	}

	activities, err := queries.LeadActivities(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	quotes, err := queries.LeadQuotes(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.LeadWithDetails{
		Lead:       *lead,
		Activities: activities,
		Quotes:     quotes,
	})
}

// leadUpdateRequest is the partial-update payload. Pointers distinguish
// "absent" from zero values.
type leadUpdateRequest struct {
	FirstName   *string `json:"firstName"`
	LastName    *string `json:"lastName"`
	Email       *string `json:"email"`
	PhoneNumber *string `json:"phoneNumber"`

	Country      *string `json:"country"`
	AddressLine1 *string `json:"addressLine1"`
	AddressLine2 *string `json:"addressLine2"`
	City         *string `json:"city"`
	State        *string `json:"state"`
	ZipCode      *string `json:"zipCode"`

	PersonalLines   *bool `json:"personalLines"`
	CommercialLines *bool `json:"commercialLines"`
	LifeAndHealth   *bool `json:"lifeAndHealth"`

	Status           *models.LeadStatus `json:"status"`
	Source           *models.LeadSource `json:"source"`
	AssignedAgentID  *string            `json:"assigned_agent_id"`
	Priority         *int               `json:"priority"`
	EstimatedValue   *float64           `json:"estimated_value"`
	Notes            *string            `json:"notes"`
	NextFollowUpDate *time.Time         `json:"next_follow_up_date"`

	CustomFields map[string]interface{} `json:"custom_fields"`
}

// UpdateLead applies a partial update. Status changes stamp the contact
// date and append a structured status_change activity.
func UpdateLead(c *gin.Context) {
	id, err := database.ParseID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	lead, err := queries.GetLead(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if !canAccessLead(c, lead) {
		respondError(c, database.ErrForbidden)
		return
	}

	var req leadUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fields := bson.M{}
	setString := func(key string, v *string) {
		if v != nil {
			fields[key] = *v
		}
	}
	setString("first_name", req.FirstName)
	setString("last_name", req.LastName)
	setString("phone_number", req.PhoneNumber)
	setString("country", req.Country)
	setString("address_line1", req.AddressLine1)
	setString("address_line2", req.AddressLine2)
	setString("city", req.City)
	setString("state", req.State)
	setString("zip_code", req.ZipCode)
	setString("notes", req.Notes)
	if req.Email != nil {
		fields["email"] = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.PersonalLines != nil {
		fields["personal_lines"] = *req.PersonalLines
	}
	if req.CommercialLines != nil {
		fields["commercial_lines"] = *req.CommercialLines
	}
	if req.LifeAndHealth != nil {
		fields["life_and_health"] = *req.LifeAndHealth
	}
	if req.Source != nil {
		if !req.Source.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid source"})
			return
		}
		fields["source"] = *req.Source
	}
	if req.AssignedAgentID != nil {
		agentID, err := database.ParseID(*req.AssignedAgentID)
		if err != nil {
			respondError(c, err)
			return
		}
		fields["assigned_agent_id"] = agentID
	}
	if req.Priority != nil {
		if !models.ValidPriority(*req.Priority) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid priority"})
			return
		}
		fields["priority"] = *req.Priority
	}
	if req.EstimatedValue != nil {
		fields["estimated_value"] = *req.EstimatedValue
	}
	if req.NextFollowUpDate != nil {
		fields["next_follow_up_date"] = *req.NextFollowUpDate
	}
	if req.CustomFields != nil {
		fields["custom_fields"] = req.CustomFields
	}

	statusChanged := false
	if req.Status != nil && *req.Status != lead.Status {
		if !req.Status.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}
		fields["status"] = *req.Status
		fields["last_contact_date"] = time.Now().UTC()
		statusChanged = true
	}

	if len(fields) == 0 {
		c.JSON(http.StatusOK, lead)
		return
	}

	updated, err := queries.UpdateLead(c.Request.Context(), id, fields)
	if err != nil {
		respondError(c, err)
		return
	}

	if statusChanged {
		userID, _ := actorID(c)
		if err := queries.LogStatusChange(c.Request.Context(), id, &userID, lead.Status, *req.Status); err != nil {
			log.Printf("UpdateLead: failed to log status change: %v", err)
		}
	}

	broadcastLeadEvent(websocket.EventLeadUpdated, updated)
	c.JSON(http.StatusOK, updated)
}

// DeleteLead removes a lead and its history. Admin only (enforced by the
// route's RequireRole middleware).
func DeleteLead(c *gin.Context) {
	id, err := database.ParseID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	if err := queries.DeleteLeadCascade(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	if WebSocketHub != nil {
		if msg, err := websocket.NewLeadDeletedEvent(id.Hex()); err == nil {
			WebSocketHub.BroadcastRaw(msg)
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "lead deleted successfully"})
}

// AssignLead points a lead at an agent. Manager+ (route middleware).
func AssignLead(c *gin.Context) {
	leadID, err := database.ParseID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	agentID, err := database.ParseID(c.Param("agentId"))
	if err != nil {
		respondError(c, err)
		return
	}

	agent, err := queries.GetUser(c.Request.Context(), agentID)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := queries.AssignLead(c.Request.Context(), leadID, agentID); err != nil {
		respondError(c, err)
		return
	}

	userID, _ := actorID(c)
	if err := queries.InsertActivity(c.Request.Context(), &models.Activity{
		LeadID:       leadID,
		UserID:       &userID,
		ActivityType: models.ActivityNote,
		Title:        "Lead Assigned",
		Description:  fmt.Sprintf("Lead assigned to %s", agent.FullName),
	}); err != nil {
		log.Printf("AssignLead: failed to log assignment: %v", err)
	}

	if lead, err := queries.GetLead(c.Request.Context(), leadID); err == nil {
		broadcastLeadEvent(websocket.EventLeadAssigned, lead)
	}
	c.JSON(http.StatusOK, gin.H{"message": "lead assigned successfully"})
}

// activityRequest is the activity-append payload.
type activityRequest struct {
	ActivityType    models.ActivityType `json:"activity_type" binding:"required"`
	Title           string              `json:"title" binding:"required"`
	Description     string              `json:"description"`
	DurationMinutes *int                `json:"duration_minutes"`
	Outcome         string              `json:"outcome"`
	ScheduledAt     *time.Time          `json:"scheduled_at"`
	CompletedAt     *time.Time          `json:"completed_at"`
}

// CreateActivity appends an activity to a lead's audit trail.
func CreateActivity(c *gin.Context) {
	leadID, err := database.ParseID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	lead, err := queries.GetLead(c.Request.Context(), leadID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !canAccessLead(c, lead) {
		respondError(c, database.ErrForbidden)
		return
	}

	var req activityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.ActivityType.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid activity type"})
		return
	}

	userID, _ := actorID(c)
	activity := &models.Activity{
		LeadID:          leadID,
		UserID:          &userID,
		ActivityType:    req.ActivityType,
		Title:           req.Title,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		Outcome:         req.Outcome,
		ScheduledAt:     req.ScheduledAt,
		CompletedAt:     req.CompletedAt,
	}
	if err := queries.InsertActivity(c.Request.Context(), activity); err != nil {
		respondError(c, err)
		return
	}

	if err := queries.TouchLastContact(c.Request.Context(), leadID); err != nil {
		log.Printf("CreateActivity: failed to stamp last contact: %v", err)
	}

	if WebSocketHub != nil {
		if msg, err := websocket.NewActivityEvent(activity); err == nil {
			WebSocketHub.BroadcastRaw(msg)
		}
	}
	c.JSON(http.StatusCreated, activity)
}

// ListActivities returns a lead's audit trail, newest first.
func ListActivities(c *gin.Context) {
	leadID, err := database.ParseID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	lead, err := queries.GetLead(c.Request.Context(), leadID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !canAccessLead(c, lead) {
		respondError(c, database.ErrForbidden)
		return
	}

	activities, err := queries.LeadActivities(c.Request.Context(), leadID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, activities)
}

// quoteRequest is the quote-creation payload.
type quoteRequest struct {
	InsuranceType     string                 `json:"insurance_type" binding:"required"`
	CoverageDetails   map[string]interface{} `json:"coverage_details"`
	PremiumAmount     *float64               `json:"premium_amount"`
	Deductible        *float64               `json:"deductible"`
	CoverageStartDate *time.Time             `json:"coverage_start_date"`
	CoverageEndDate   *time.Time             `json:"coverage_end_date"`
	ExpiresAt         *time.Time             `json:"expires_at"`
	QuoteDocumentURL  string                 `json:"quote_document_url"`
	Attachments       []string               `json:"attachments"`
}

// CreateQuote issues a quote against a lead and logs a quote_sent activity.
func CreateQuote(c *gin.Context) {
	leadID, err := database.ParseID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	lead, err := queries.GetLead(c.Request.Context(), leadID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !canAccessLead(c, lead) {
		respondError(c, database.ErrForbidden)
		return
	}

	var req quoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	quote := &models.Quote{
		LeadID:            leadID,
		InsuranceType:     req.InsuranceType,
		CoverageDetails:   req.CoverageDetails,
		PremiumAmount:     req.PremiumAmount,
		Deductible:        req.Deductible,
		CoverageStartDate: req.CoverageStartDate,
		CoverageEndDate:   req.CoverageEndDate,
		ExpiresAt:         req.ExpiresAt,
		QuoteDocumentURL:  req.QuoteDocumentURL,
		Attachments:       req.Attachments,
	}
	if err := queries.InsertQuote(c.Request.Context(), quote); err != nil {
		respondError(c, err)
		return
	}

	userID, _ := actorID(c)
	if err := queries.InsertActivity(c.Request.Context(), &models.Activity{
		LeadID:       leadID,
		UserID:       &userID,
		ActivityType: models.ActivityQuoteSent,
		Title:        "Quote Sent",
		Description:  fmt.Sprintf("Quote %s sent for %s", quote.QuoteNumber, quote.InsuranceType),
	}); err != nil {
		log.Printf("CreateQuote: failed to log quote activity: %v", err)
	}

	c.JSON(http.StatusCreated, quote)
}

// ListQuotes returns every quote issued against a lead, newest first.
func ListQuotes(c *gin.Context) {
	leadID, err := database.ParseID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	lead, err := queries.GetLead(c.Request.Context(), leadID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !canAccessLead(c, lead) {
		respondError(c, database.ErrForbidden)
		return
	}

	quotes, err := queries.LeadQuotes(c.Request.Context(), leadID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quotes)
}

// PendingFollowUps returns the caller's due follow-ups, soonest first.
func PendingFollowUps(c *gin.Context) {
	scope, ok := requestScope(c)
	if !ok {
		return
	}

	leads, err := queries.PendingFollowUps(c.Request.Context(), scope.LeadFilter())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, leads)
}

// broadcastLeadEvent pushes a lead lifecycle event to the feed.
func broadcastLeadEvent(eventType string, lead *models.Lead) {
	if WebSocketHub == nil {
		return
	}
	msg, err := websocket.NewLeadEvent(eventType, lead)
	if err != nil {
		log.Printf("broadcastLeadEvent: %v", err)
		return
	}
	WebSocketHub.BroadcastRaw(msg)
}
