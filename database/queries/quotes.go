package queries

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"insurancecrm/database"
	"insurancecrm/models"
)

// NewQuoteNumber generates a human-readable quote number, e.g. Q-2026-1A2B3C4D.
func NewQuoteNumber(now time.Time) string {
	fragment := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("Q-%d-%s", now.Year(), fragment)
}

// InsertQuote stores a new quote, stamping id, number and timestamps.
func InsertQuote(ctx context.Context, q *models.Quote) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	now := time.Now().UTC()
	q.ID = primitive.NewObjectID()
	if q.QuoteNumber == "" {
		q.QuoteNumber = NewQuoteNumber(now)
	}
	q.IsActive = true
	q.SentAt = &now
	q.CreatedAt = now
	q.UpdatedAt = now

	if _, err := database.Quotes().InsertOne(ctx, q); err != nil {
		return fmt.Errorf("InsertQuote: %w", err)
	}
	return nil
}

// LeadQuotes returns every quote issued against a lead, newest first.
func LeadQuotes(ctx context.Context, leadID primitive.ObjectID) ([]models.Quote, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := database.Quotes().Find(ctx, bson.M{"lead_id": leadID}, opts)
	if err != nil {
		return nil, fmt.Errorf("LeadQuotes: %w", err)
	}

	quotes := []models.Quote{}
	if err := cursor.All(ctx, &quotes); err != nil {
		return nil, fmt.Errorf("LeadQuotes decode: %w", err)
	}
	return quotes, nil
}
