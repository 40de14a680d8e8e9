package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"insurancecrm/database"
	"insurancecrm/models"
)

// Seeds the database with an admin account, a couple of agents and a set
// of sample leads with activity history. Safe to re-run: existing users
// are kept, leads are only added when the collection is empty.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	if err := database.Init(); err != nil {
		log.Fatalf("Failed to connect to the database: %v", err)
	}
	defer database.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	adminID := seedUser(ctx, "admin", "admin@example.com", "Agency Admin", models.RoleAdmin)
	agentID := seedUser(ctx, "jsmith", "jsmith@example.com", "Jordan Smith", models.RoleAgent)
	seedUser(ctx, "mlee", "mlee@example.com", "Morgan Lee", models.RoleManager)

	seedLeads(ctx, adminID, agentID)

	log.Println("Database initialized with sample data")
}

func seedUser(ctx context.Context, username, email, fullName string, role models.UserRole) primitive.ObjectID {
	var existing models.User
	err := database.Users().FindOne(ctx, bson.M{"username": username}).Decode(&existing)
	if err == nil {
		log.Printf("User %s already exists, skipping", username)
		return existing.ID
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	now := time.Now().UTC()
	user := models.User{
		ID:             primitive.NewObjectID(),
		Email:          email,
		Username:       username,
		FullName:       fullName,
		HashedPassword: string(hash),
		Role:           role,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if _, err := database.Users().InsertOne(ctx, user); err != nil {
		log.Fatalf("Failed to create user %s: %v", username, err)
	}
	log.Printf("Created user %s (%s) with id %s", username, role, user.ID.Hex())
	return user.ID
}

func seedLeads(ctx context.Context, adminID, agentID primitive.ObjectID) {
	count, err := database.Leads().CountDocuments(ctx, bson.M{})
	if err != nil {
		log.Fatalf("Failed to count leads: %v", err)
	}
	if count > 0 {
		log.Printf("Leads collection already has %d documents, skipping sample leads", count)
		return
	}

	samples := []struct {
		firstName, lastName, email, phone string
		city, state                       string
		status                            models.LeadStatus
		source                            models.LeadSource
		value                             float64
		ageDays                           int
	}{
		{"Alice", "Nguyen", "alice.nguyen@example.com", "555-0101", "Austin", "TX", models.StatusNew, models.SourceWebsite, 1200, 1},
		{"Bob", "Garcia", "bob.garcia@example.com", "555-0102", "Dallas", "TX", models.StatusContacted, models.SourceReferral, 2500, 5},
		{"Carol", "Kim", "carol.kim@example.com", "555-0103", "Miami", "FL", models.StatusQualified, models.SourceWebsite, 4800, 12},
		{"David", "Okafor", "david.okafor@example.com", "555-0104", "Atlanta", "GA", models.StatusProposalSent, models.SourcePhoneCall, 7200, 20},
		{"Erin", "Walsh", "erin.walsh@example.com", "555-0105", "Austin", "TX", models.StatusClosedWon, models.SourceReferral, 9600, 35},
		{"Frank", "Dubois", "frank.dubois@example.com", "555-0106", "Houston", "TX", models.StatusClosedLost, models.SourceSocialMedia, 1500, 40},
	}

	for i, s := range samples {
		now := time.Now().UTC()
		created := now.AddDate(0, 0, -s.ageDays)
		value := s.value

		lead := models.Lead{
			ID:              primitive.NewObjectID(),
			FirstName:       s.firstName,
			LastName:        s.lastName,
			Email:           s.email,
			PhoneNumber:     s.phone,
			Country:         "USA",
			City:            s.city,
			State:           s.state,
			PersonalLines:   i%2 == 0,
			CommercialLines: i%3 == 0,
			Status:          s.status,
			Source:          s.source,
			Priority:        1 + i%3,
			EstimatedValue:  &value,
			CreatedAt:       created,
			UpdatedAt:       created,
		}
		if s.status != models.StatusNew {
			lead.AssignedAgentID = &agentID
			contact := created.Add(4 * time.Hour)
			lead.LastContactDate = &contact
		}
		if _, err := database.Leads().InsertOne(ctx, lead); err != nil {
			log.Fatalf("Failed to insert sample lead %s: %v", s.email, err)
		}

		seedActivities(ctx, lead, adminID, created)
		log.Printf("Created sample lead %s %s (%s)", s.firstName, s.lastName, s.status)
	}
}

// seedActivities writes the intake note plus the status transitions that
// lead the lead from new to its current status.
func seedActivities(ctx context.Context, lead models.Lead, userID primitive.ObjectID, created time.Time) {
	insert := func(a models.Activity) {
		a.ID = primitive.NewObjectID()
		a.LeadID = lead.ID
		if _, err := database.Activities().InsertOne(ctx, a); err != nil {
			log.Fatalf("Failed to insert activity for %s: %v", lead.Email, err)
		}
	}

	insert(models.Activity{
		ActivityType: models.ActivityNote,
		Title:        "Lead Created",
		Description:  "New lead submitted through the quote form",
		CreatedAt:    created,
	})

	path := []models.LeadStatus{
		models.StatusNew, models.StatusContacted, models.StatusQualified,
		models.StatusProposalSent, lead.Status,
	}
	at := created
	for i := 0; i < len(path)-1; i++ {
		if path[i] == lead.Status {
			break
		}
		next := path[i+1]
		at = at.Add(time.Duration(6+i*12) * time.Hour)
		insert(models.Activity{
			UserID:       &userID,
			ActivityType: models.ActivityStatusChange,
			Title:        "Status Changed",
			Description:  fmt.Sprintf("Status changed from %s to %s", path[i], next),
			FromStatus:   path[i],
			ToStatus:     next,
			CreatedAt:    at,
		})
		if next == lead.Status {
			break
		}
	}

	if lead.Status != models.StatusNew {
		insert(models.Activity{
			UserID:       &userID,
			ActivityType: models.ActivityCall,
			Title:        "Initial Call",
			Description:  "Discussed coverage needs",
			CreatedAt:    created.Add(4 * time.Hour),
		})
	}
}
