package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hospitalcore/hospital-system/internal/core/domain"
	"github.com/hospitalcore/hospital-system/internal/core/ports"
)

const collectionReviews = "reviews"

type reviewDoc struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	AppointmentID    primitive.ObjectID `bson:"appointment_id"`
	PatientID        primitive.ObjectID `bson:"patient_id"`
	DoctorID         primitive.ObjectID `bson:"doctor_id"`
	Rating           float64            `bson:"rating"`
	Text             string             `bson:"text,omitempty"`
	Date             time.Time          `bson:"date"`
	LastModifiedDate *time.Time         `bson:"last_modified_date,omitempty"`
}

func (d *reviewDoc) toDomain() *domain.Review {
	return &domain.Review{
		ID:               d.ID.Hex(),
		AppointmentID:    d.AppointmentID.Hex(),
		PatientID:        d.PatientID.Hex(),
		DoctorID:         d.DoctorID.Hex(),
		Rating:           d.Rating,
		Text:             d.Text,
		Date:             d.Date,
		LastModifiedDate: d.LastModifiedDate,
	}
}

// ReviewRepository persists reviews and answers the eligibility query.
type ReviewRepository struct {
	col          *mongo.Collection
	appointments *mongo.Collection
}

func NewReviewRepository(db *mongo.Database) *ReviewRepository {
	return &ReviewRepository{
		col:          db.Collection(collectionReviews),
		appointments: db.Collection(collectionAppointments),
	}
}

func (r *ReviewRepository) Add(ctx context.Context, review *domain.Review) (*domain.Review, error) {
	appointmentOID, err := primitive.ObjectIDFromHex(review.AppointmentID)
	if err != nil {
		return nil, domain.ErrAppointmentNotFound
	}
	patientOID, err := primitive.ObjectIDFromHex(review.PatientID)
	if err != nil {
		return nil, domain.ErrProfileNotFound
	}
	doctorOID, err := primitive.ObjectIDFromHex(review.DoctorID)
	if err != nil {
		return nil, domain.ErrProfileNotFound
	}
	res, err := r.col.InsertOne(ctx, reviewDoc{
		AppointmentID: appointmentOID,
		PatientID:     patientOID,
		DoctorID:      doctorOID,
		Rating:        review.Rating,
		Text:          review.Text,
		Date:          review.Date,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrReviewExists
		}
		return nil, fmt.Errorf("insert review: %w", err)
	}
	review.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return review, nil
}

func (r *ReviewRepository) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrReviewNotFound
	}
	var doc reviewDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrReviewNotFound
		}
		return nil, fmt.Errorf("find review: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ReviewRepository) Update(ctx context.Context, review *domain.Review) error {
	oid, err := primitive.ObjectIDFromHex(review.ID)
	if err != nil {
		return domain.ErrReviewNotFound
	}
	update := bson.M{"$set": bson.M{
		"rating":             review.Rating,
		"text":               review.Text,
		"last_modified_date": review.LastModifiedDate,
	}}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("update review: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrReviewNotFound
	}
	return nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, fmt.Errorf("delete review: %w", err)
	}
	return res.DeletedCount > 0, nil
}

// CanPatientReview checks the appointments collection directly: the
// appointment must exist, belong to the patient, and be completed.
func (r *ReviewRepository) CanPatientReview(ctx context.Context, patientID, appointmentID string) (bool, error) {
	patientOID, err := primitive.ObjectIDFromHex(patientID)
	if err != nil {
		return false, nil
	}
	appointmentOID, err := primitive.ObjectIDFromHex(appointmentID)
	if err != nil {
		return false, nil
	}
	filter := bson.M{
		"_id":        appointmentOID,
		"patient_id": patientOID,
		"status":     string(domain.StatusCompleted),
	}
	n, err := r.appointments.CountDocuments(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("eligibility check: %w", err)
	}
	return n > 0, nil
}

func (r *ReviewRepository) HasReviewForAppointment(ctx context.Context, appointmentID string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(appointmentID)
	if err != nil {
		return false, nil
	}
	n, err := r.col.CountDocuments(ctx, bson.M{"appointment_id": oid})
	if err != nil {
		return false, fmt.Errorf("review exists check: %w", err)
	}
	return n > 0, nil
}

func (r *ReviewRepository) ListByDoctor(ctx context.Context, doctorID string) ([]*domain.Review, error) {
	oid, err := primitive.ObjectIDFromHex(doctorID)
	if err != nil {
		return nil, domain.ErrProfileNotFound
	}
	return r.find(ctx, bson.M{"doctor_id": oid}, options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
}

func (r *ReviewRepository) ListByPatient(ctx context.Context, patientID string) ([]*domain.Review, error) {
	oid, err := primitive.ObjectIDFromHex(patientID)
	if err != nil {
		return nil, domain.ErrProfileNotFound
	}
	return r.find(ctx, bson.M{"patient_id": oid}, options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
}

// Filter applies the optional criteria. Zero values are skipped.
func (r *ReviewRepository) Filter(ctx context.Context, f ports.ReviewFilter) ([]*domain.Review, error) {
	filter := bson.M{}
	if f.DoctorID != "" {
		oid, err := primitive.ObjectIDFromHex(f.DoctorID)
		if err != nil {
			return nil, domain.ErrProfileNotFound
		}
		filter["doctor_id"] = oid
	}
	if f.PatientID != "" {
		oid, err := primitive.ObjectIDFromHex(f.PatientID)
		if err != nil {
			return nil, domain.ErrProfileNotFound
		}
		filter["patient_id"] = oid
	}
	rating := bson.M{}
	if f.MinRating > 0 {
		rating["$gte"] = f.MinRating
	}
	if f.MaxRating > 0 {
		rating["$lte"] = f.MaxRating
	}
	if len(rating) > 0 {
		filter["rating"] = rating
	}
	if !f.Date.IsZero() {
		dayStart := time.Date(f.Date.Year(), f.Date.Month(), f.Date.Day(), 0, 0, 0, 0, time.UTC)
		filter["date"] = bson.M{"$gte": dayStart, "$lt": dayStart.Add(24 * time.Hour)}
	}

	sort := bson.D{{Key: "date", Value: -1}}
	if f.SortBy == "rating" {
		sort = bson.D{{Key: "rating", Value: -1}}
	}
	return r.find(ctx, filter, options.Find().SetSort(sort))
}

// AverageRatingForDoctor aggregates the doctor's reviews. An empty result set
// yields 0.
func (r *ReviewRepository) AverageRatingForDoctor(ctx context.Context, doctorID string) (float64, error) {
	oid, err := primitive.ObjectIDFromHex(doctorID)
	if err != nil {
		return 0, nil
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"doctor_id": oid}}},
		{{Key: "$group", Value: bson.M{
			"_id":     nil,
			"average": bson.M{"$avg": "$rating"},
		}}},
	}
	cursor, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("average rating: %w", err)
	}
	defer cursor.Close(ctx)

	var out struct {
		Average float64 `bson:"average"`
	}
	if cursor.Next(ctx) {
		if err := cursor.Decode(&out); err != nil {
			return 0, fmt.Errorf("decode average rating: %w", err)
		}
	}
	return out.Average, cursor.Err()
}

func (r *ReviewRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domain.Review, error) {
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer cursor.Close(ctx)

	var items []*domain.Review
	for cursor.Next(ctx) {
		var doc reviewDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode review: %w", err)
		}
		items = append(items, doc.toDomain())
	}
	return items, cursor.Err()
}
