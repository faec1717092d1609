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

const collectionRefreshTokens = "refresh_tokens"

type refreshTokenDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    primitive.ObjectID `bson:"user_id"`
	Token     string             `bson:"token"`
	ExpiresOn time.Time          `bson:"expires_on"`
	CreatedOn time.Time          `bson:"created_on"`
	RevokedOn *time.Time         `bson:"revoked_on,omitempty"`
}

func (d *refreshTokenDoc) toDomain() *domain.RefreshToken {
	return &domain.RefreshToken{
		ID:        d.ID.Hex(),
		UserID:    d.UserID.Hex(),
		Token:     d.Token,
		ExpiresOn: d.ExpiresOn,
		CreatedOn: d.CreatedOn,
		RevokedOn: d.RevokedOn,
	}
}

// TokenRepository persists refresh tokens. Revocation stamps revoked_on;
// documents are never deleted.
type TokenRepository struct {
	col *mongo.Collection
}

func NewTokenRepository(db *mongo.Database) *TokenRepository {
	return &TokenRepository{col: db.Collection(collectionRefreshTokens)}
}

func (r *TokenRepository) Save(ctx context.Context, token *domain.RefreshToken) error {
	userOID, err := primitive.ObjectIDFromHex(token.UserID)
	if err != nil {
		return fmt.Errorf("save refresh token: bad user id: %w", err)
	}
	res, err := r.col.InsertOne(ctx, refreshTokenDoc{
		UserID:    userOID,
		Token:     token.Token,
		ExpiresOn: token.ExpiresOn,
		CreatedOn: token.CreatedOn,
	})
	if err != nil {
		return fmt.Errorf("save refresh token: %w", err)
	}
	token.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return nil
}

func (r *TokenRepository) FindActiveByUserID(ctx context.Context, userID string, now time.Time) (*domain.RefreshToken, error) {
	userOID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, domain.ErrTokenNotFound
	}
	filter := bson.M{
		"user_id":    userOID,
		"revoked_on": nil,
		"expires_on": bson.M{"$gt": now},
	}
	var doc refreshTokenDoc
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTokenNotFound
		}
		return nil, fmt.Errorf("find active refresh token: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *TokenRepository) FindUserIDByToken(ctx context.Context, token string) (string, error) {
	var doc refreshTokenDoc
	if err := r.col.FindOne(ctx, bson.M{"token": token}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", domain.ErrTokenNotFound
		}
		return "", fmt.Errorf("find token owner: %w", err)
	}
	return doc.UserID.Hex(), nil
}

// Revoke stamps revoked_on on an active token. The filter matches only
// active tokens, so a second call on the same token finds nothing and
// returns false.
func (r *TokenRepository) Revoke(ctx context.Context, token string, now time.Time) (bool, error) {
	filter := bson.M{
		"token":      token,
		"revoked_on": nil,
		"expires_on": bson.M{"$gt": now},
	}
	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"revoked_on": now}})
	if err != nil {
		return false, fmt.Errorf("revoke token: %w", err)
	}
	return res.ModifiedCount > 0, nil
}
