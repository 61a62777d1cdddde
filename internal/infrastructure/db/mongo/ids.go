package mongo

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// objectIDs parses hex ids, silently dropping malformed ones. A malformed id
// can never match a document, so dropping it is equivalent to a miss.
func objectIDs(ids []string) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		out = append(out, oid)
	}
	return out
}
