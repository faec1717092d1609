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

type adminDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	UserID      primitive.ObjectID `bson:"user_id"`
	AccessLevel int                `bson:"access_level"`
}

func (d *adminDoc) toDomain() *domain.Admin {
	return &domain.Admin{
		ID:          d.ID.Hex(),
		UserID:      d.UserID.Hex(),
		AccessLevel: d.AccessLevel,
	}
}

// AdminRepository persists admin profiles.
type AdminRepository struct {
	client *mongo.Client
	db     *mongo.Database
	col    *mongo.Collection
}

func NewAdminRepository(client *mongo.Client, db *mongo.Database) *AdminRepository {
	return &AdminRepository{client: client, db: db, col: db.Collection(collectionAdmins)}
}

func (r *AdminRepository) Create(ctx context.Context, user *domain.User, admin *domain.Admin) (*domain.Admin, error) {
	_, profileID, err := insertUserWithProfile(ctx, r.client, r.db, user, domain.RoleAdmin,
		func(sc mongo.SessionContext, userID primitive.ObjectID) (primitive.ObjectID, error) {
			res, err := r.col.InsertOne(sc, adminDoc{
				UserID:      userID,
				AccessLevel: admin.AccessLevel,
			})
			if err != nil {
				return primitive.NilObjectID, err
			}
			return res.InsertedID.(primitive.ObjectID), nil
		})
	if err != nil {
		return nil, err
	}
	admin.ID = profileID.Hex()
	admin.UserID = user.ID
	return admin, nil
}

func (r *AdminRepository) GetWithUser(ctx context.Context, id string) (*ports.AdminWithUser, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrProfileNotFound
	}
	var doc adminDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("find admin: %w", err)
	}
	return joinAdminUser(ctx, r.db, doc.toDomain())
}

func joinAdminUser(ctx context.Context, db *mongo.Database, admin *domain.Admin) (*ports.AdminWithUser, error) {
	userOID, err := primitive.ObjectIDFromHex(admin.UserID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	var user userDoc
	if err := db.Collection(collectionUsers).FindOne(ctx, bson.M{"_id": userOID}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("join admin user: %w", err)
	}
	return &ports.AdminWithUser{
		Admin:    *admin,
		Username: user.Username,
		Email:    user.Email,
		IsActive: user.IsActive,
	}, nil
}

func (r *AdminRepository) Update(ctx context.Context, admin *domain.Admin) error {
	oid, err := primitive.ObjectIDFromHex(admin.ID)
	if err != nil {
		return domain.ErrProfileNotFound
	}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"access_level": admin.AccessLevel}})
	if err != nil {
		return fmt.Errorf("update admin: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}

func (r *AdminRepository) Delete(ctx context.Context, id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, fmt.Errorf("delete admin: %w", err)
	}
	return res.DeletedCount > 0, nil
}

func (r *AdminRepository) List(ctx context.Context, p ports.Pagination) ([]ports.AdminWithUser, int64, error) {
	total, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("count admins: %w", err)
	}

	cursor, err := r.col.Find(ctx, bson.M{}, pageOptions(p))
	if err != nil {
		return nil, 0, fmt.Errorf("list admins: %w", err)
	}
	defer cursor.Close(ctx)

	var items []ports.AdminWithUser
	for cursor.Next(ctx) {
		var doc adminDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, 0, fmt.Errorf("decode admin: %w", err)
		}
		joined, err := joinAdminUser(ctx, r.db, doc.toDomain())
		if err != nil {
			return nil, 0, err
		}
		items = append(items, *joined)
	}
	return items, total, cursor.Err()
}
