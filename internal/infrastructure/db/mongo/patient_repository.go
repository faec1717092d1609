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
	"github.com/hospitalcore/hospital-system/internal/core/ports"
)

type patientDoc struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	UserID          primitive.ObjectID `bson:"user_id"`
	DateOfBirth     time.Time          `bson:"date_of_birth"`
	InsuranceNumber string             `bson:"insurance_number,omitempty"`
}

func (d *patientDoc) toDomain() *domain.Patient {
	return &domain.Patient{
		ID:              d.ID.Hex(),
		UserID:          d.UserID.Hex(),
		DateOfBirth:     d.DateOfBirth,
		InsuranceNumber: d.InsuranceNumber,
	}
}

// PatientRepository persists patient profiles.
type PatientRepository struct {
	client *mongo.Client
	db     *mongo.Database
	col    *mongo.Collection
}

func NewPatientRepository(client *mongo.Client, db *mongo.Database) *PatientRepository {
	return &PatientRepository{client: client, db: db, col: db.Collection(collectionPatients)}
}

func (r *PatientRepository) Create(ctx context.Context, user *domain.User, patient *domain.Patient) (*domain.Patient, error) {
	_, profileID, err := insertUserWithProfile(ctx, r.client, r.db, user, domain.RolePatient,
		func(sc mongo.SessionContext, userID primitive.ObjectID) (primitive.ObjectID, error) {
			res, err := r.col.InsertOne(sc, patientDoc{
				UserID:          userID,
				DateOfBirth:     patient.DateOfBirth,
				InsuranceNumber: patient.InsuranceNumber,
			})
			if err != nil {
				return primitive.NilObjectID, err
			}
			return res.InsertedID.(primitive.ObjectID), nil
		})
	if err != nil {
		return nil, err
	}
	patient.ID = profileID.Hex()
	patient.UserID = user.ID
	return patient, nil
}

func (r *PatientRepository) GetByID(ctx context.Context, id string) (*domain.Patient, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrProfileNotFound
	}
	var doc patientDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("find patient: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *PatientRepository) GetWithUser(ctx context.Context, id string) (*ports.PatientWithUser, error) {
	patient, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return joinPatientUser(ctx, r.db, patient)
}

func joinPatientUser(ctx context.Context, db *mongo.Database, patient *domain.Patient) (*ports.PatientWithUser, error) {
	userOID, err := primitive.ObjectIDFromHex(patient.UserID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	var user userDoc
	if err := db.Collection(collectionUsers).FindOne(ctx, bson.M{"_id": userOID}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("join patient user: %w", err)
	}
	return &ports.PatientWithUser{
		Patient:  *patient,
		Username: user.Username,
		Email:    user.Email,
		IsActive: user.IsActive,
	}, nil
}

func (r *PatientRepository) Update(ctx context.Context, patient *domain.Patient) error {
	oid, err := primitive.ObjectIDFromHex(patient.ID)
	if err != nil {
		return domain.ErrProfileNotFound
	}
	update := bson.M{"$set": bson.M{
		"date_of_birth":    patient.DateOfBirth,
		"insurance_number": patient.InsuranceNumber,
	}}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("update patient: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}

func (r *PatientRepository) Delete(ctx context.Context, id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, fmt.Errorf("delete patient: %w", err)
	}
	return res.DeletedCount > 0, nil
}

func (r *PatientRepository) List(ctx context.Context, p ports.Pagination) ([]ports.PatientWithUser, int64, error) {
	total, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("count patients: %w", err)
	}

	cursor, err := r.col.Find(ctx, bson.M{}, pageOptions(p))
	if err != nil {
		return nil, 0, fmt.Errorf("list patients: %w", err)
	}
	defer cursor.Close(ctx)

	var items []ports.PatientWithUser
	for cursor.Next(ctx) {
		var doc patientDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, 0, fmt.Errorf("decode patient: %w", err)
		}
		joined, err := joinPatientUser(ctx, r.db, doc.toDomain())
		if err != nil {
			return nil, 0, err
		}
		items = append(items, *joined)
	}
	return items, total, cursor.Err()
}

// ListActive returns the patients whose user account is active. Profiles with
// a missing user document are skipped rather than failing the listing.
func (r *PatientRepository) ListActive(ctx context.Context) ([]ports.PatientWithUser, error) {
	cursor, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list active patients: %w", err)
	}
	defer cursor.Close(ctx)

	var items []ports.PatientWithUser
	for cursor.Next(ctx) {
		var doc patientDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode patient: %w", err)
		}
		joined, err := joinPatientUser(ctx, r.db, doc.toDomain())
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

func (r *PatientRepository) InsuranceNumberExists(ctx context.Context, insuranceNumber string) (bool, error) {
	n, err := r.col.CountDocuments(ctx, bson.M{"insurance_number": insuranceNumber})
	if err != nil {
		return false, fmt.Errorf("insurance exists: %w", err)
	}
	return n > 0, nil
}
