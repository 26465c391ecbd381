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

const collectionUsers = "users"

type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(collectionUsers)}
}

type mongoAddress struct {
	Street  string `bson:"street"`
	City    string `bson:"city"`
	State   string `bson:"state"`
	ZipCode string `bson:"zip_code"`
	Country string `bson:"country"`
}

type mongoUser struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	FirstName      string             `bson:"first_name"`
	LastName       string             `bson:"last_name"`
	Email          string             `bson:"email"`
	PasswordHash   string             `bson:"password_hash"`
	IDNumber       string             `bson:"id_number,omitempty"`
	BirthDate      string             `bson:"birth_date,omitempty"`
	ActivityType   string             `bson:"activity_type,omitempty"`
	ActivityNumber string             `bson:"activity_number,omitempty"`
	Phone          string             `bson:"phone,omitempty"`
	Address        *mongoAddress      `bson:"address,omitempty"`
	Role           string             `bson:"role"`
	Cart           primitive.ObjectID `bson:"cart,omitempty"`
	Favorites      []string           `bson:"favorite,omitempty"`
	CreatedAt      time.Time          `bson:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at"`
}

func toMongoAddress(a *domain.Address) *mongoAddress {
	if a == nil {
		return nil
	}
	m := mongoAddress(*a)
	return &m
}

func toDomainAddress(a *mongoAddress) *domain.Address {
	if a == nil {
		return nil
	}
	d := domain.Address(*a)
	return &d
}

func (mu *mongoUser) toDomain() *domain.User {
	return &domain.User{
		ID:             mu.ID.Hex(),
		FirstName:      mu.FirstName,
		LastName:       mu.LastName,
		Email:          mu.Email,
		PasswordHash:   mu.PasswordHash,
		IDNumber:       mu.IDNumber,
		BirthDate:      mu.BirthDate,
		ActivityType:   mu.ActivityType,
		ActivityNumber: mu.ActivityNumber,
		Phone:          mu.Phone,
		Address:        toDomainAddress(mu.Address),
		Role:           domain.Role(mu.Role),
		CartID:         hexOf(mu.Cart),
		Favorites:      mu.Favorites,
		CreatedAt:      mu.CreatedAt,
		UpdatedAt:      mu.UpdatedAt,
	}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cart, err := optionalID(user.CartID)
	if err != nil {
		return nil, err
	}
	doc := mongoUser{
		FirstName:      user.FirstName,
		LastName:       user.LastName,
		Email:          user.Email,
		PasswordHash:   user.PasswordHash,
		IDNumber:       user.IDNumber,
		BirthDate:      user.BirthDate,
		ActivityType:   user.ActivityType,
		ActivityNumber: user.ActivityNumber,
		Phone:          user.Phone,
		Address:        toMongoAddress(user.Address),
		Role:           string(user.Role),
		Cart:           cart,
		CreatedAt:      user.CreatedAt,
		UpdatedAt:      user.UpdatedAt,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrEmailInUse
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mu mongoUser
	if err := r.col.FindOne(ctx, filter).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return mu.toDomain(), nil
}

func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	var docs []mongoUser
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}

	users := make([]*domain.User, 0, len(docs))
	for i := range docs {
		users = append(users, docs[i].toDomain())
	}
	return users, nil
}

// UpdateFields sets only the supplied fields. Address sub-fields are written
// individually so a partial address update keeps the other parts.
func (r *UserRepository) UpdateFields(ctx context.Context, id string, upd domain.UserUpdate) (*domain.User, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{"updated_at": time.Now().UTC()}
	put := func(key string, v *string) {
		if v != nil {
			set[key] = *v
		}
	}
	put("first_name", upd.FirstName)
	put("last_name", upd.LastName)
	put("id_number", upd.IDNumber)
	put("birth_date", upd.BirthDate)
	put("activity_type", upd.ActivityType)
	put("activity_number", upd.ActivityNumber)
	put("phone", upd.Phone)
	put("address.street", upd.Address.Street)
	put("address.city", upd.Address.City)
	put("address.state", upd.Address.State)
	put("address.zip_code", upd.Address.ZipCode)
	put("address.country", upd.Address.Country)

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var mu mongoUser
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&mu)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return mu.toDomain(), nil
}

// PromoteRole is a compare-and-set on the role field.
func (r *UserRepository) PromoteRole(ctx context.Context, id string, from, to domain.Role) (bool, error) {
	oid, err := parseID(id)
	if err != nil {
		return false, err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": oid, "role": string(from)},
		bson.M{"$set": bson.M{"role": string(to), "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return false, fmt.Errorf("promote user: %w", err)
	}
	return res.ModifiedCount == 1, nil
}

func (r *UserRepository) SetCart(ctx context.Context, id, cartID string) error {
	cart, err := parseID(cartID)
	if err != nil {
		return err
	}
	return r.setField(ctx, id, "cart", cart)
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return r.setField(ctx, id, "password_hash", passwordHash)
}

func (r *UserRepository) setField(ctx context.Context, id, field string, value any) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid},
		bson.M{"$set": bson.M{field: value, "updated_at": time.Now().UTC()}})
	if err != nil {
		return fmt.Errorf("update user %s: %w", field, err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) CountByRole(ctx context.Context, role domain.Role) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{"role": string(role)})
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

// EnsureIndexes creates the unique email index.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "role", Value: 1}}},
	})
	return err
}
