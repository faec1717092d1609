package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/hospitalcore/hospital-system/internal/core/domain"
	"github.com/hospitalcore/hospital-system/internal/core/ports"
)

type doctorDoc struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	UserID         primitive.ObjectID `bson:"user_id"`
	Specialization string             `bson:"specialization"`
	LicenseNumber  string             `bson:"license_number"`
}

func (d *doctorDoc) toDomain() *domain.Doctor {
	return &domain.Doctor{
		ID:             d.ID.Hex(),
		UserID:         d.UserID.Hex(),
		Specialization: d.Specialization,
		LicenseNumber:  d.LicenseNumber,
	}
}

// DoctorRepository persists doctor profiles.
type DoctorRepository struct {
	client *mongo.Client
	db     *mongo.Database
	col    *mongo.Collection
}

func NewDoctorRepository(client *mongo.Client, db *mongo.Database) *DoctorRepository {
	return &DoctorRepository{client: client, db: db, col: db.Collection(collectionDoctors)}
}

// Create inserts the user, the doctor profile, and the role assignment in one
// transaction.
func (r *DoctorRepository) Create(ctx context.Context, user *domain.User, doctor *domain.Doctor) (*domain.Doctor, error) {
	_, profileID, err := insertUserWithProfile(ctx, r.client, r.db, user, domain.RoleDoctor,
		func(sc mongo.SessionContext, userID primitive.ObjectID) (primitive.ObjectID, error) {
			res, err := r.col.InsertOne(sc, doctorDoc{
				UserID:         userID,
				Specialization: doctor.Specialization,
				LicenseNumber:  doctor.LicenseNumber,
			})
			if err != nil {
				return primitive.NilObjectID, err
			}
			return res.InsertedID.(primitive.ObjectID), nil
		})
	if err != nil {
		return nil, err
	}
	doctor.ID = profileID.Hex()
	doctor.UserID = user.ID
	return doctor, nil
}

func (r *DoctorRepository) GetByID(ctx context.Context, id string) (*domain.Doctor, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrProfileNotFound
	}
	var doc doctorDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("find doctor: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *DoctorRepository) GetWithUser(ctx context.Context, id string) (*ports.DoctorWithUser, error) {
	doctor, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return joinDoctorUser(ctx, r.db, doctor)
}

func joinDoctorUser(ctx context.Context, db *mongo.Database, doctor *domain.Doctor) (*ports.DoctorWithUser, error) {
	userOID, err := primitive.ObjectIDFromHex(doctor.UserID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	var user userDoc
	if err := db.Collection(collectionUsers).FindOne(ctx, bson.M{"_id": userOID}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("join doctor user: %w", err)
	}
	return &ports.DoctorWithUser{
		Doctor:   *doctor,
		Username: user.Username,
		Email:    user.Email,
		IsActive: user.IsActive,
	}, nil
}

func (r *DoctorRepository) Update(ctx context.Context, doctor *domain.Doctor) error {
	oid, err := primitive.ObjectIDFromHex(doctor.ID)
	if err != nil {
		return domain.ErrProfileNotFound
	}
	update := bson.M{"$set": bson.M{
		"specialization": doctor.Specialization,
		"license_number": doctor.LicenseNumber,
	}}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("update doctor: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}

func (r *DoctorRepository) Delete(ctx context.Context, id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, fmt.Errorf("delete doctor: %w", err)
	}
	return res.DeletedCount > 0, nil
}

func (r *DoctorRepository) List(ctx context.Context, p ports.Pagination) ([]ports.DoctorWithUser, int64, error) {
	total, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("count doctors: %w", err)
	}

	cursor, err := r.col.Find(ctx, bson.M{}, pageOptions(p))
	if err != nil {
		return nil, 0, fmt.Errorf("list doctors: %w", err)
	}
	defer cursor.Close(ctx)

	var items []ports.DoctorWithUser
	for cursor.Next(ctx) {
		var doc doctorDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, 0, fmt.Errorf("decode doctor: %w", err)
		}
		joined, err := joinDoctorUser(ctx, r.db, doc.toDomain())
		if err != nil {
			return nil, 0, err
		}
		items = append(items, *joined)
	}
	return items, total, cursor.Err()
}

// ListActive returns the doctors whose user account is active. Profiles with
// a missing user document are skipped rather than failing the listing.
func (r *DoctorRepository) ListActive(ctx context.Context) ([]ports.DoctorWithUser, error) {
	cursor, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list active doctors: %w", err)
	}
	defer cursor.Close(ctx)

	var items []ports.DoctorWithUser
	for cursor.Next(ctx) {
		var doc doctorDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode doctor: %w", err)
		}
		joined, err := joinDoctorUser(ctx, r.db, doc.toDomain())
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				continue
			}
			return nil, err
		}
		if joined.IsActive {
			items = append(items, *joined)
		}
	}
	return items, cursor.Err()
}

func (r *DoctorRepository) LicenseNumberExists(ctx context.Context, licenseNumber string) (bool, error) {
	n, err := r.col.CountDocuments(ctx, bson.M{"license_number": licenseNumber})
	if err != nil {
		return false, fmt.Errorf("license exists: %w", err)
	}
	return n > 0, nil
}
