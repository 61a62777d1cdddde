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

	"github.com/sickfits/storefront-api/internal/core/domain"
)

const collectionCartItems = "cart_items"

// CartRepository implements ports.CartRepository using MongoDB.
type CartRepository struct {
	col *mongo.Collection
}

func NewCartRepository(db *mongo.Database) *CartRepository {
	return &CartRepository{col: db.Collection(collectionCartItems)}
}

type cartItemDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"user_id"`
	ItemID    string             `bson:"item_id"`
	Quantity  int                `bson:"quantity"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (d *cartItemDoc) toDomain() *domain.CartItem {
	return &domain.CartItem{
		ID:        d.ID.Hex(),
		UserID:    d.UserID,
		ItemID:    d.ItemID,
		Quantity:  d.Quantity,
		CreatedAt: d.CreatedAt.UTC(),
	}
}

// Increment upserts the (user, item) row with $inc. Two racing upserts can
// both miss and both try to insert; the unique index rejects the loser,
// which then retries as a plain increment.
func (r *CartRepository) Increment(ctx context.Context, userID, itemID string) (*domain.CartItem, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"user_id": userID, "item_id": itemID}
	update := bson.M{
		"$inc":         bson.M{"quantity": 1},
		"$setOnInsert": bson.M{"created_at": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var (
		doc cartItemDoc
		err error
	)
	for attempt := 0; attempt < 2; attempt++ {
		err = r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
		if err == nil || !mongo.IsDuplicateKeyError(err) {
			break
		}
	}
	if err != nil {
		return nil, fmt.Errorf("increment cart item: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *CartRepository) FindByID(ctx context.Context, id string) (*domain.CartItem, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrCartItemNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc cartItemDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCartItemNotFound
		}
		return nil, fmt.Errorf("find cart item: %w", err)
	}
	return doc.toDomain(), nil
}

// ListByUser returns the user's cart rows, oldest first.
func (r *CartRepository) ListByUser(ctx context.Context, userID string) ([]*domain.CartItem, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list cart: %w", err)
	}
	var docs []cartItemDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}

	rows := make([]*domain.CartItem, 0, len(docs))
	for i := range docs {
		rows = append(rows, docs[i].toDomain())
	}
	return rows, nil
}

func (r *CartRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrCartItemNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete cart item: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrCartItemNotFound
	}
	return nil
}

// EnsureIndexes creates the unique (user_id, item_id) index that backs the
// one-row-per-item invariant.
func (r *CartRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "item_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
