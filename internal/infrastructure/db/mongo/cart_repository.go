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

const collectionCarts = "carts"

type CartRepository struct {
	col *mongo.Collection
}

func NewCartRepository(db *mongo.Database) *CartRepository {
	return &CartRepository{col: db.Collection(collectionCarts)}
}

type mongoCartItem struct {
	Product  primitive.ObjectID `bson:"product"`
	Quantity int                `bson:"quantity"`
}

type mongoCart struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	User      primitive.ObjectID `bson:"user"`
	Products  []mongoCartItem    `bson:"products"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (mc *mongoCart) toDomain() *domain.Cart {
	items := make([]domain.CartItem, 0, len(mc.Products))
	for _, it := range mc.Products {
		items = append(items, domain.CartItem{ProductID: it.Product.Hex(), Quantity: it.Quantity})
	}
	return &domain.Cart{
		ID:        mc.ID.Hex(),
		UserID:    hexOf(mc.User),
		Products:  items,
		CreatedAt: mc.CreatedAt,
		UpdatedAt: mc.UpdatedAt,
	}
}

func toMongoItems(items []domain.CartItem) ([]mongoCartItem, error) {
	out := make([]mongoCartItem, 0, len(items))
	for _, it := range items {
		pid, err := parseID(it.ProductID)
		if err != nil {
			return nil, err
		}
		out = append(out, mongoCartItem{Product: pid, Quantity: it.Quantity})
	}
	return out, nil
}

func (r *CartRepository) Create(ctx context.Context, cart *domain.Cart) (*domain.Cart, error) {
	user, err := parseID(cart.UserID)
	if err != nil {
		return nil, err
	}
	items, err := toMongoItems(cart.Products)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoCart{User: user, Products: items, CreatedAt: cart.CreatedAt, UpdatedAt: cart.UpdatedAt}
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert cart: %w", err)
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *CartRepository) FindByID(ctx context.Context, id string) (*domain.Cart, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *CartRepository) FindByUser(ctx context.Context, userID string) (*domain.Cart, error) {
	uid, err := parseID(userID)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"user": uid})
}

func (r *CartRepository) findOne(ctx context.Context, filter bson.M) (*domain.Cart, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mc mongoCart
	if err := r.col.FindOne(ctx, filter).Decode(&mc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCartNotFound
		}
		return nil, fmt.Errorf("find cart: %w", err)
	}
	return mc.toDomain(), nil
}

// SaveItems replaces the product lines of a cart.
func (r *CartRepository) SaveItems(ctx context.Context, id string, items []domain.CartItem) (*domain.Cart, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	docs, err := toMongoItems(items)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var mc mongoCart
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid},
		bson.M{"$set": bson.M{"products": docs, "updated_at": time.Now().UTC()}}, opts).Decode(&mc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCartNotFound
		}
		return nil, fmt.Errorf("save cart: %w", err)
	}
	return mc.toDomain(), nil
}

func (r *CartRepository) DeleteByUser(ctx context.Context, userID string) error {
	uid, err := parseID(userID)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.DeleteMany(ctx, bson.M{"user": uid}); err != nil {
		return fmt.Errorf("delete carts: %w", err)
	}
	return nil
}

// CartOwner returns the owning user id of a cart.
func (r *CartRepository) CartOwner(ctx context.Context, cartID string) (string, error) {
	oid, err := parseID(cartID)
	if err != nil {
		return "", err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc struct {
		User primitive.ObjectID `bson:"user"`
	}
	opts := options.FindOne().SetProjection(bson.M{"user": 1})
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", domain.ErrCartNotFound
		}
		return "", fmt.Errorf("cart owner: %w", err)
	}
	return hexOf(doc.User), nil
}

func (r *CartRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	return err
}
