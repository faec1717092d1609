package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes the repositories rely on. Uniqueness of
// emails, usernames, license numbers, insurance numbers, refresh tokens and
// the one-review-per-appointment rule is enforced here rather than in
// application code.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := options.Index().SetUnique(true)
	sparseUnique := options.Index().SetUnique(true).SetSparse(true)

	specs := map[string][]mongo.IndexModel{
		collectionUsers: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: unique},
		},
		collectionUserRoles: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "role", Value: 1}}, Options: unique},
		},
		collectionDoctors: {
			{Keys: bson.D{{Key: "user_id", Value: 1}}},
			{Keys: bson.D{{Key: "license_number", Value: 1}}, Options: unique},
		},
		collectionPatients: {
			{Keys: bson.D{{Key: "user_id", Value: 1}}},
			{Keys: bson.D{{Key: "insurance_number", Value: 1}}, Options: sparseUnique},
		},
		collectionAdmins: {
			{Keys: bson.D{{Key: "user_id", Value: 1}}},
		},
		collectionAppointments: {
			{Keys: bson.D{{Key: "doctor_id", Value: 1}, {Key: "date_time", Value: 1}}},
			{Keys: bson.D{{Key: "patient_id", Value: 1}}},
		},
		collectionReviews: {
			{Keys: bson.D{{Key: "appointment_id", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "doctor_id", Value: 1}}},
			{Keys: bson.D{{Key: "patient_id", Value: 1}}},
		},
		collectionRefreshTokens: {
			{Keys: bson.D{{Key: "token", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "user_id", Value: 1}}},
		},
	}

	for col, models := range specs {
		if _, err := db.Collection(col).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes for %s: %w", col, err)
		}
	}
	return nil
}
