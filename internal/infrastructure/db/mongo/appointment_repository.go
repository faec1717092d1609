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

const collectionAppointments = "appointments"

type appointmentDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	DoctorID  primitive.ObjectID `bson:"doctor_id"`
	PatientID primitive.ObjectID `bson:"patient_id"`
	DateTime  time.Time          `bson:"date_time"`
	Status    string             `bson:"status"`
	Notes     string             `bson:"notes,omitempty"`
}

func (d *appointmentDoc) toDomain() *domain.Appointment {
	return &domain.Appointment{
		ID:        d.ID.Hex(),
		DoctorID:  d.DoctorID.Hex(),
		PatientID: d.PatientID.Hex(),
		DateTime:  d.DateTime,
		Status:    domain.AppointmentStatus(d.Status),
		Notes:     d.Notes,
	}
}

func appointmentToDoc(a *domain.Appointment) (*appointmentDoc, error) {
	doctorOID, err := primitive.ObjectIDFromHex(a.DoctorID)
	if err != nil {
		return nil, domain.ErrProfileNotFound
	}
	patientOID, err := primitive.ObjectIDFromHex(a.PatientID)
	if err != nil {
		return nil, domain.ErrProfileNotFound
	}
	return &appointmentDoc{
		DoctorID:  doctorOID,
		PatientID: patientOID,
		DateTime:  a.DateTime,
		Status:    string(a.Status),
		Notes:     a.Notes,
	}, nil
}

// AppointmentRepository persists appointments.
type AppointmentRepository struct {
	col *mongo.Collection
}

func NewAppointmentRepository(db *mongo.Database) *AppointmentRepository {
	return &AppointmentRepository{col: db.Collection(collectionAppointments)}
}

func (r *AppointmentRepository) Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	doc, err := appointmentToDoc(a)
	if err != nil {
		return nil, err
	}
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert appointment: %w", err)
	}
	a.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return a, nil
}

func (r *AppointmentRepository) GetByID(ctx context.Context, id string) (*domain.Appointment, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrAppointmentNotFound
	}
	var doc appointmentDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("find appointment: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *AppointmentRepository) Update(ctx context.Context, a *domain.Appointment) error {
	oid, err := primitive.ObjectIDFromHex(a.ID)
	if err != nil {
		return domain.ErrAppointmentNotFound
	}
	doc, err := appointmentToDoc(a)
	if err != nil {
		return err
	}
	update := bson.M{"$set": bson.M{
		"doctor_id":  doc.DoctorID,
		"patient_id": doc.PatientID,
		"date_time":  doc.DateTime,
		"status":     doc.Status,
		"notes":      doc.Notes,
	}}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("update appointment: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrAppointmentNotFound
	}
	return nil
}

func (r *AppointmentRepository) Delete(ctx context.Context, id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, fmt.Errorf("delete appointment: %w", err)
	}
	return res.DeletedCount > 0, nil
}

// IsDoctorAvailable checks for a confirmed appointment at the exact slot.
// Pending appointments at the same time do not count against availability.
func (r *AppointmentRepository) IsDoctorAvailable(ctx context.Context, doctorID string, at time.Time) (bool, error) {
	doctorOID, err := primitive.ObjectIDFromHex(doctorID)
	if err != nil {
		return false, domain.ErrProfileNotFound
	}
	filter := bson.M{
		"doctor_id": doctorOID,
		"date_time": at,
		"status":    string(domain.StatusConfirmed),
	}
	n, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("availability check: %w", err)
	}
	return n == 0, nil
}

func (r *AppointmentRepository) ListByDoctor(ctx context.Context, doctorID string) ([]*domain.Appointment, error) {
	oid, err := primitive.ObjectIDFromHex(doctorID)
	if err != nil {
		return nil, domain.ErrProfileNotFound
	}
	return r.findAll(ctx, bson.M{"doctor_id": oid})
}

func (r *AppointmentRepository) ListByPatient(ctx context.Context, patientID string) ([]*domain.Appointment, error) {
	oid, err := primitive.ObjectIDFromHex(patientID)
	if err != nil {
		return nil, domain.ErrProfileNotFound
	}
	return r.findAll(ctx, bson.M{"patient_id": oid})
}

func (r *AppointmentRepository) List(ctx context.Context, p ports.Pagination) ([]*domain.Appointment, int64, error) {
	total, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("count appointments: %w", err)
	}
	opts := pageOptions(p).SetSort(bson.D{{Key: "date_time", Value: 1}})
	items, err := r.find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *AppointmentRepository) findAll(ctx context.Context, filter bson.M) ([]*domain.Appointment, error) {
	return r.find(ctx, filter, options.Find().SetSort(bson.D{{Key: "date_time", Value: 1}}))
}

func (r *AppointmentRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domain.Appointment, error) {
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	defer cursor.Close(ctx)

	var items []*domain.Appointment
	for cursor.Next(ctx) {
		var doc appointmentDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode appointment: %w", err)
		}
		items = append(items, doc.toDomain())
	}
	return items, cursor.Err()
}
