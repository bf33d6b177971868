package mongostore

import "go.mongodb.org/mongo-driver/bson"

// EqualMatchBson creates BSON for equal search (Case-sensitive)
func EqualMatchBson(key string, value any) bson.D {
	return bson.D{{Key: key, Value: value}}
}

// InMatchBson creates BSON matching any of values
func InMatchBson[T any](key string, values []T) bson.D {
	return bson.D{{Key: key, Value: bson.D{{Key: "$in", Value: values}}}}
}
