package mongo

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/hospitalcore/hospital-system/internal/core/ports"
)

// StatsRepository runs the reporting aggregations. Failures are logged and
// surface as empty result sets so a broken report never takes a dashboard
// request down with it.
type StatsRepository struct {
	db     *mongo.Database
	logger zerolog.Logger
	now    func() time.Time
}

func NewStatsRepository(db *mongo.Database, logger zerolog.Logger) *StatsRepository {
	return &StatsRepository{db: db, logger: logger, now: time.Now}
}

func (r *StatsRepository) AppointmentCountByStatus(ctx context.Context) ([]ports.StatusCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   "$status",
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}

	var out []ports.StatusCount
	if err := r.aggregate(ctx, collectionAppointments, pipeline, &out, "appointment_count_by_status"); err != nil {
		return []ports.StatusCount{}, nil
	}
	return out, nil
}

func (r *StatsRepository) DoctorAppointmentStats(ctx context.Context, currentMonthOnly bool) ([]ports.DoctorAppointmentCount, error) {
	pipeline := mongo.Pipeline{}
	if currentMonthOnly {
		now := r.now().UTC()
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: bson.M{
			"date_time": bson.M{"$gte": monthStart, "$lt": monthStart.AddDate(0, 1, 0)},
		}}})
	}
	pipeline = append(pipeline,
		bson.D{{Key: "$group", Value: bson.M{
			"_id":   bson.M{"doctor_id": "$doctor_id", "status": "$status"},
			"count": bson.M{"$sum": 1},
		}}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         collectionDoctors,
			"localField":   "_id.doctor_id",
			"foreignField": "_id",
			"as":           "doctor",
		}}},
		bson.D{{Key: "$unwind", Value: "$doctor"}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         collectionUsers,
			"localField":   "doctor.user_id",
			"foreignField": "_id",
			"as":           "user",
		}}},
		bson.D{{Key: "$unwind", Value: "$user"}},
		bson.D{{Key: "$project", Value: bson.M{
			"_id":       0,
			"doctor_id": bson.M{"$toString": "$_id.doctor_id"},
			"status":    "$_id.status",
			"username":  "$user.username",
			"count":     1,
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "username", Value: 1}, {Key: "status", Value: 1}}}},
	)

	var out []ports.DoctorAppointmentCount
	if err := r.aggregate(ctx, collectionAppointments, pipeline, &out, "doctor_appointment_stats"); err != nil {
		return []ports.DoctorAppointmentCount{}, nil
	}
	return out, nil
}

// DoctorsByRatingTier buckets doctors by their average review rating:
// excellent >= 4.5, good >= 3.5, average >= 2.5, poor below that.
func (r *StatsRepository) DoctorsByRatingTier(ctx context.Context) ([]ports.DoctorRatingTier, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":            "$doctor_id",
			"average_rating": bson.M{"$avg": "$rating"},
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         collectionDoctors,
			"localField":   "_id",
			"foreignField": "_id",
			"as":           "doctor",
		}}},
		{{Key: "$unwind", Value: "$doctor"}},
		{{Key: "$lookup", Value: bson.M{
			"from":         collectionUsers,
			"localField":   "doctor.user_id",
			"foreignField": "_id",
			"as":           "user",
		}}},
		{{Key: "$unwind", Value: "$user"}},
		{{Key: "$project", Value: bson.M{
			"_id":            0,
			"doctor_id":      bson.M{"$toString": "$_id"},
			"username":       "$user.username",
			"average_rating": 1,
			"tier": bson.M{"$switch": bson.M{
				"branches": bson.A{
					bson.M{"case": bson.M{"$gte": bson.A{"$average_rating", 4.5}}, "then": "excellent"},
					bson.M{"case": bson.M{"$gte": bson.A{"$average_rating", 3.5}}, "then": "good"},
					bson.M{"case": bson.M{"$gte": bson.A{"$average_rating", 2.5}}, "then": "average"},
				},
				"default": "poor",
			}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "average_rating", Value: -1}}}},
	}

	var out []ports.DoctorRatingTier
	if err := r.aggregate(ctx, collectionReviews, pipeline, &out, "doctors_by_rating_tier"); err != nil {
		return []ports.DoctorRatingTier{}, nil
	}
	return out, nil
}

// PatientCountByAgeGroup buckets patients into Under 18, 18-30, 31-50 and
// Over 50 from their date of birth.
func (r *StatsRepository) PatientCountByAgeGroup(ctx context.Context) ([]ports.AgeGroupCount, error) {
	now := r.now().UTC()
	pipeline := mongo.Pipeline{
		{{Key: "$addFields", Value: bson.M{
			"age": bson.M{"$dateDiff": bson.M{
				"startDate": "$date_of_birth",
				"endDate":   now,
				"unit":      "year",
			}},
		}}},
		{{Key: "$bucket", Value: bson.M{
			"groupBy":    "$age",
			"boundaries": bson.A{0, 18, 31, 51, 200},
			"default":    "unknown",
			"output":     bson.M{"count": bson.M{"$sum": 1}},
		}}},
		{{Key: "$project", Value: bson.M{
			"_id": bson.M{"$switch": bson.M{
				"branches": bson.A{
					bson.M{"case": bson.M{"$eq": bson.A{"$_id", 0}}, "then": "Under 18"},
					bson.M{"case": bson.M{"$eq": bson.A{"$_id", 18}}, "then": "18-30"},
					bson.M{"case": bson.M{"$eq": bson.A{"$_id", 31}}, "then": "31-50"},
					bson.M{"case": bson.M{"$eq": bson.A{"$_id", 51}}, "then": "Over 50"},
				},
				"default": "unknown",
			}},
			"count": 1,
		}}},
	}

	var out []ports.AgeGroupCount
	if err := r.aggregate(ctx, collectionPatients, pipeline, &out, "patient_count_by_age_group"); err != nil {
		return []ports.AgeGroupCount{}, nil
	}
	return out, nil
}

func (r *StatsRepository) aggregate(ctx context.Context, collection string, pipeline mongo.Pipeline, out interface{}, name string) error {
	cursor, err := r.db.Collection(collection).Aggregate(ctx, pipeline)
	if err != nil {
		r.logger.Error().Err(err).Str("report", name).Msg("stats aggregation failed")
		return err
	}
	defer cursor.Close(ctx)

	if err := cursor.All(ctx, out); err != nil {
		r.logger.Error().Err(err).Str("report", name).Msg("stats aggregation decode failed")
		return err
	}
	return nil
}
