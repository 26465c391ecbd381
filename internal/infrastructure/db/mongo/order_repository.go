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

const collectionOrders = "orders"

type OrderRepository struct {
	col *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{col: db.Collection(collectionOrders)}
}

type mongoOrderLine struct {
	Product  primitive.ObjectID `bson:"product"`
	Name     string             `bson:"name"`
	Price    float64            `bson:"price"`
	Quantity int                `bson:"quantity"`
}

type mongoOrder struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	Code            string             `bson:"code"`
	User            primitive.ObjectID `bson:"user"`
	Products        []mongoOrderLine   `bson:"products"`
	TotalAmount     float64            `bson:"total_amount"`
	Status          string             `bson:"status"`
	PreviousStatus  string             `bson:"previous_status,omitempty"`
	ShippingAddress *mongoAddress      `bson:"shipping_address,omitempty"`
	Notes           string             `bson:"notes,omitempty"`
	OrderDate       time.Time          `bson:"order_date"`
	CreatedAt       time.Time          `bson:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at"`
}

func (mo *mongoOrder) toDomain() *domain.Order {
	lines := make([]domain.OrderLine, 0, len(mo.Products))
	for _, l := range mo.Products {
		lines = append(lines, domain.OrderLine{ProductID: hexOf(l.Product), Name: l.Name, Price: l.Price, Quantity: l.Quantity})
	}
	return &domain.Order{
		ID:              mo.ID.Hex(),
		Code:            mo.Code,
		UserID:          hexOf(mo.User),
		Products:        lines,
		TotalAmount:     mo.TotalAmount,
		Status:          domain.OrderStatus(mo.Status),
		PreviousStatus:  domain.OrderStatus(mo.PreviousStatus),
		ShippingAddress: toDomainAddress(mo.ShippingAddress),
		Notes:           mo.Notes,
		OrderDate:       mo.OrderDate,
		CreatedAt:       mo.CreatedAt,
		UpdatedAt:       mo.UpdatedAt,
	}
}

func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) (*domain.Order, error) {
	user, err := parseID(o.UserID)
	if err != nil {
		return nil, err
	}
	lines := make([]mongoOrderLine, 0, len(o.Products))
	for _, l := range o.Products {
		pid, err := parseID(l.ProductID)
		if err != nil {
			return nil, err
		}
		lines = append(lines, mongoOrderLine{Product: pid, Name: l.Name, Price: l.Price, Quantity: l.Quantity})
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoOrder{
		Code:            o.Code,
		User:            user,
		Products:        lines,
		TotalAmount:     o.TotalAmount,
		Status:          string(o.Status),
		ShippingAddress: toMongoAddress(o.ShippingAddress),
		Notes:           o.Notes,
		OrderDate:       o.OrderDate,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

// FindByID treats a malformed id as a missing order.
func (r *OrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrOrderNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mo mongoOrder
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&mo); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("find order: %w", err)
	}
	return mo.toDomain(), nil
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Order, error) {
	uid, err := parseID(userID)
	if err != nil {
		return nil, err
	}
	return r.find(ctx, bson.M{"user": uid})
}

func (r *OrderRepository) List(ctx context.Context, status domain.OrderStatus) ([]*domain.Order, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = string(status)
	}
	return r.find(ctx, filter)
}

func (r *OrderRepository) find(ctx context.Context, filter bson.M) ([]*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("find orders: %w", err)
	}
	var docs []mongoOrder
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	orders := make([]*domain.Order, 0, len(docs))
	for i := range docs {
		orders = append(orders, docs[i].toDomain())
	}
	return orders, nil
}

// UpdateStatus records the current status as previous_status and sets the
// new one in a single pipeline update.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrOrderNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"previous_status": "$status",
			"status":          string(status),
			"updated_at":      time.Now().UTC(),
		}}},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var mo mongoOrder
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, pipeline, opts).Decode(&mo); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("update order status: %w", err)
	}
	return mo.toDomain(), nil
}

// OrderOwner returns the owning user id of an order. Malformed ids read as
// missing orders.
func (r *OrderRepository) OrderOwner(ctx context.Context, orderID string) (string, error) {
	oid, err := primitive.ObjectIDFromHex(orderID)
	if err != nil {
		return "", domain.ErrOrderNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc struct {
		User primitive.ObjectID `bson:"user"`
	}
	opts := options.FindOne().SetProjection(bson.M{"user": 1})
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", domain.ErrOrderNotFound
		}
		return "", fmt.Errorf("order owner: %w", err)
	}
	return hexOf(doc.User), nil
}

func (r *OrderRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "code", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "user", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	})
	return err
}
