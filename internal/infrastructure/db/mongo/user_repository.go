package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/hospitalcore/hospital-system/internal/core/domain"
)

const (
	collectionUsers     = "users"
	collectionUserRoles = "user_roles"
	collectionDoctors   = "doctors"
	collectionPatients  = "patients"
	collectionAdmins    = "admins"
)

type userDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Username     string             `bson:"username"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"password_hash"`
	IsActive     bool               `bson:"is_active"`
	Roles        []string           `bson:"roles"`
	CreatedAt    time.Time          `bson:"created_at"`
}

type userRoleDoc struct {
	ID     primitive.ObjectID `bson:"_id,omitempty"`
	UserID primitive.ObjectID `bson:"user_id"`
	Role   string             `bson:"role"`
}

func (d *userDoc) toDomain() *domain.User {
	return &domain.User{
		ID:           d.ID.Hex(),
		Username:     d.Username,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		IsActive:     d.IsActive,
		Roles:        d.Roles,
		CreatedAt:    d.CreatedAt,
	}
}

// UserRepository handles user documents and user-to-profile lookups.
type UserRepository struct {
	users    *mongo.Collection
	doctors  *mongo.Collection
	patients *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		users:    db.Collection(collectionUsers),
		doctors:  db.Collection(collectionDoctors),
		patients: db.Collection(collectionPatients),
	}
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var doc userDoc
	if err := r.users.FindOne(ctx, bson.M{"email": email}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	var doc userDoc
	if err := r.users.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	n, err := r.users.CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		return false, fmt.Errorf("email exists: %w", err)
	}
	return n > 0, nil
}

func (r *UserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	n, err := r.users.CountDocuments(ctx, bson.M{"username": username})
	if err != nil {
		return false, fmt.Errorf("username exists: %w", err)
	}
	return n > 0, nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return domain.ErrUserNotFound
	}
	res, err := r.users.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"password_hash": passwordHash}})
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) SetActive(ctx context.Context, userID string, active bool) error {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return domain.ErrUserNotFound
	}
	res, err := r.users.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"is_active": active}})
	if err != nil {
		return fmt.Errorf("set active: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) DoctorIDByUserID(ctx context.Context, userID string) (string, error) {
	return profileIDByUserID(ctx, r.doctors, userID)
}

func (r *UserRepository) PatientIDByUserID(ctx context.Context, userID string) (string, error) {
	return profileIDByUserID(ctx, r.patients, userID)
}

func profileIDByUserID(ctx context.Context, col *mongo.Collection, userID string) (string, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return "", domain.ErrProfileNotFound
	}
	var doc struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := col.FindOne(ctx, bson.M{"user_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", domain.ErrProfileNotFound
		}
		return "", fmt.Errorf("profile lookup: %w", err)
	}
	return doc.ID.Hex(), nil
}

// insertUserWithProfile runs the user + profile + role-assignment triple
// inside a single transaction; a failure at any step rolls back all three.
func insertUserWithProfile(
	ctx context.Context,
	client *mongo.Client,
	db *mongo.Database,
	user *domain.User,
	role string,
	insertProfile func(sc mongo.SessionContext, userID primitive.ObjectID) (primitive.ObjectID, error),
) (primitive.ObjectID, primitive.ObjectID, error) {
	session, err := client.StartSession()
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	var userID, profileID primitive.ObjectID
	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		res, err := db.Collection(collectionUsers).InsertOne(sc, userDoc{
			Username:     user.Username,
			Email:        user.Email,
			PasswordHash: user.PasswordHash,
			IsActive:     user.IsActive,
			Roles:        user.Roles,
			CreatedAt:    user.CreatedAt,
		})
		if err != nil {
			return nil, fmt.Errorf("insert user: %w", err)
		}
		userID = res.InsertedID.(primitive.ObjectID)

		profileID, err = insertProfile(sc, userID)
		if err != nil {
			return nil, fmt.Errorf("insert profile: %w", err)
		}

		if _, err := db.Collection(collectionUserRoles).InsertOne(sc, userRoleDoc{UserID: userID, Role: role}); err != nil {
			return nil, fmt.Errorf("insert role assignment: %w", err)
		}
		return nil, nil
	})
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, err
	}

	user.ID = userID.Hex()
	return userID, profileID, nil
}
