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

const collectionQuestions = "questions"

type QuestionRepository struct {
	col *mongo.Collection
}

func NewQuestionRepository(db *mongo.Database) *QuestionRepository {
	return &QuestionRepository{col: db.Collection(collectionQuestions)}
}

type mongoQuestion struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Product    primitive.ObjectID `bson:"product"`
	User       primitive.ObjectID `bson:"user"`
	Question   string             `bson:"question"`
	Answer     string             `bson:"answer,omitempty"`
	AnsweredBy primitive.ObjectID `bson:"answered_by,omitempty"`
	IsAnswered bool               `bson:"is_answered"`
	AnsweredAt *time.Time         `bson:"answered_at,omitempty"`
	CreatedAt  time.Time          `bson:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at"`
}

func (mq *mongoQuestion) toDomain() *domain.Question {
	return &domain.Question{
		ID:         mq.ID.Hex(),
		ProductID:  hexOf(mq.Product),
		UserID:     hexOf(mq.User),
		Question:   mq.Question,
		Answer:     mq.Answer,
		AnsweredBy: hexOf(mq.AnsweredBy),
		IsAnswered: mq.IsAnswered,
		AnsweredAt: mq.AnsweredAt,
		CreatedAt:  mq.CreatedAt,
		UpdatedAt:  mq.UpdatedAt,
	}
}

func (r *QuestionRepository) Create(ctx context.Context, q *domain.Question) (*domain.Question, error) {
	product, err := parseID(q.ProductID)
	if err != nil {
		return nil, err
	}
	user, err := parseID(q.UserID)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoQuestion{
		Product:   product,
		User:      user,
		Question:  q.Question,
		CreatedAt: q.CreatedAt,
		UpdatedAt: q.UpdatedAt,
	}
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert question: %w", err)
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *QuestionRepository) ListByProduct(ctx context.Context, productID string) ([]*domain.Question, error) {
	pid, err := parseID(productID)
	if err != nil {
		return nil, err
	}
	return r.find(ctx, bson.M{"product": pid}, -1)
}

func (r *QuestionRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Question, error) {
	uid, err := parseID(userID)
	if err != nil {
		return nil, err
	}
	return r.find(ctx, bson.M{"user": uid}, -1)
}

// ListUnanswered returns pending questions, oldest first.
func (r *QuestionRepository) ListUnanswered(ctx context.Context) ([]*domain.Question, error) {
	return r.find(ctx, bson.M{"is_answered": false}, 1)
}

func (r *QuestionRepository) find(ctx context.Context, filter bson.M, order int) ([]*domain.Question, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: order}}))
	if err != nil {
		return nil, fmt.Errorf("find questions: %w", err)
	}
	var docs []mongoQuestion
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}
	out := make([]*domain.Question, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

func (r *QuestionRepository) Answer(ctx context.Context, id, answer, answeredBy string, at time.Time) (*domain.Question, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrQuestionNotFound
	}
	admin, err := parseID(answeredBy)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"answer":      answer,
		"answered_by": admin,
		"is_answered": true,
		"answered_at": at,
		"updated_at":  at,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var mq mongoQuestion
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&mq); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrQuestionNotFound
		}
		return nil, fmt.Errorf("answer question: %w", err)
	}
	return mq.toDomain(), nil
}

func (r *QuestionRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "product", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "user", Value: 1}}},
		{Keys: bson.D{{Key: "is_answered", Value: 1}}},
	})
	return err
}
