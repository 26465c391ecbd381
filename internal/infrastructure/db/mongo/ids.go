package mongo

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/madezdev/ecommerce-api/internal/core/domain"
)

// parseID converts a hex id from the API into an ObjectID.
func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, domain.ErrInvalidID
	}
	return oid, nil
}

// optionalID is parseID for references that may be empty.
func optionalID(id string) (primitive.ObjectID, error) {
	if id == "" {
		return primitive.NilObjectID, nil
	}
	return parseID(id)
}

func hexOf(id primitive.ObjectID) string {
	if id.IsZero() {
		return ""
	}
	return id.Hex()
}
