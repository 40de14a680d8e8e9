package queries

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"insurancecrm/database"
	"insurancecrm/models"
)

// HashPassword produces the bcrypt hash stored on the user record.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword checks a plaintext password against its stored hash.
func VerifyPassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// GetUserByUsername fetches a user for login; missing user is (nil, nil).
func GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var user models.User
	err := database.Users().FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetUserByUsername: %w", err)
	}
	return &user, nil
}

// GetUser fetches a user by id.
func GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var user models.User
	if err := database.Users().FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, database.ErrNotFound
		}
		return nil, fmt.Errorf("GetUser: %w", err)
	}
	return &user, nil
}

// UserExists reports whether a user with the given email or username is
// already registered.
func UserExists(ctx context.Context, email, username string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	n, err := database.Users().CountDocuments(ctx, bson.M{"$or": bson.A{
		bson.M{"email": email},
		bson.M{"username": username},
	}})
	if err != nil {
		return false, fmt.Errorf("UserExists: %w", err)
	}
	return n > 0, nil
}

// EmailTaken reports whether another user already owns the email.
func EmailTaken(ctx context.Context, email string, exclude primitive.ObjectID) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	n, err := database.Users().CountDocuments(ctx, bson.M{
		"email": email,
		"_id":   bson.M{"$ne": exclude},
	})
	if err != nil {
		return false, fmt.Errorf("EmailTaken: %w", err)
	}
	return n > 0, nil
}

// CountUsers returns the total number of user records.
func CountUsers(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	n, err := database.Users().CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("CountUsers: %w", err)
	}
	return n, nil
}

// InsertUser stores a new account, stamping id and timestamps.
func InsertUser(ctx context.Context, user *models.User) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	now := time.Now().UTC()
	user.ID = primitive.NewObjectID()
	user.CreatedAt = now
	user.UpdatedAt = now

	if _, err := database.Users().InsertOne(ctx, user); err != nil {
		return fmt.Errorf("InsertUser: %w", err)
	}
	return nil
}

// ListUsers returns one page of accounts, newest first.
func ListUsers(ctx context.Context, skip, limit int) ([]models.User, error) {
	if limit < 1 || limit > MaxPageSize {
		limit = DefaultPageSize
	}
	if skip < 0 {
		skip = 0
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(skip)).
		SetLimit(int64(limit))
	cursor, err := database.Users().Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("ListUsers: %w", err)
	}

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("ListUsers decode: %w", err)
	}
	return users, nil
}

// UpdateUser applies a partial $set update and returns the updated record.
func UpdateUser(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	fields["updated_at"] = time.Now().UTC()
	res, err := database.Users().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return nil, fmt.Errorf("UpdateUser: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, database.ErrNotFound
	}
	return GetUser(ctx, id)
}

// DeactivateUser flips is_active off. Accounts are never physically deleted
// so lead assignments and activity authorship stay resolvable.
func DeactivateUser(ctx context.Context, id primitive.ObjectID) error {
	_, err := UpdateUser(ctx, id, bson.M{"is_active": false})
	return err
}

// ActiveAgents lists active agent and manager accounts for the performance
// report.
func ActiveAgents(ctx context.Context) ([]models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	filter := bson.M{
		"role":      bson.M{"$in": bson.A{models.RoleAgent, models.RoleManager}},
		"is_active": true,
	}
	cursor, err := database.Users().Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("ActiveAgents: %w", err)
	}

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("ActiveAgents decode: %w", err)
	}
	return users, nil
}
