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

	"github.com/madezdev/ecommerce-api/internal/core/domain"
)

const collectionPasswordResets = "password_resets"

type PasswordResetRepository struct {
	col *mongo.Collection
}

func NewPasswordResetRepository(db *mongo.Database) *PasswordResetRepository {
	return &PasswordResetRepository{col: db.Collection(collectionPasswordResets)}
}

type mongoPasswordReset struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	User      primitive.ObjectID `bson:"user"`
	Token     string             `bson:"token"`
	ExpiresAt time.Time          `bson:"expires_at"`
	Used      bool               `bson:"used"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (r *PasswordResetRepository) Create(ctx context.Context, pr *domain.PasswordReset) error {
	user, err := parseID(pr.UserID)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err = r.col.InsertOne(ctx, mongoPasswordReset{
		User:      user,
		Token:     pr.Token,
		ExpiresAt: pr.ExpiresAt,
		Used:      pr.Used,
		CreatedAt: pr.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("insert password reset: %w", err)
	}
	return nil
}

func (r *PasswordResetRepository) FindByToken(ctx context.Context, token string) (*domain.PasswordReset, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoPasswordReset
	if err := r.col.FindOne(ctx, bson.M{"token": token}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find password reset: %w", err)
	}
	return &domain.PasswordReset{
		UserID:    hexOf(doc.User),
		Token:     doc.Token,
		ExpiresAt: doc.ExpiresAt,
		Used:      doc.Used,
		CreatedAt: doc.CreatedAt,
	}, nil
}

// MarkUsed flips used only on a still-unused token, so two concurrent
// resets cannot both consume it.
func (r *PasswordResetRepository) MarkUsed(ctx context.Context, token string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"token": token, "used": false},
		bson.M{"$set": bson.M{"used": true}},
	)
	if err != nil {
		return false, fmt.Errorf("mark password reset used: %w", err)
	}
	return res.ModifiedCount == 1, nil
}

func (r *PasswordResetRepository) InvalidateForUser(ctx context.Context, userID string) error {
	user, err := parseID(userID)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err = r.col.UpdateMany(ctx, bson.M{"user": user, "used": false}, bson.M{"$set": bson.M{"used": true}})
	if err != nil {
		return fmt.Errorf("invalidate password resets: %w", err)
	}
	return nil
}

// EnsureIndexes also lets MongoDB purge expired tokens on its own.
func (r *PasswordResetRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "token", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "expires_at", Value: 1}}, Options: options.Index().SetExpireAfterSeconds(0)},
	})
	return err
}
