package mongodb

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	domainerrors "groovesync/internal/domain/errors"
	"groovesync/internal/errors"
)

// isUniqueConstraintViolation reports whether a write was rejected by a unique index.
func isUniqueConstraintViolation(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}

// isNotFound reports whether a single-document read matched nothing.
func isNotFound(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

// parseObjectID validates a hex document id before it reaches the driver.
func parseObjectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, domainerrors.ErrInvalidID.WithDetails(id)
	}

	return oid, nil
}

// insertedID extracts the generated id of an InsertOne.
func insertedID(res *mongo.InsertOneResult) string {
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		return oid.Hex()
	}

	return ""
}
