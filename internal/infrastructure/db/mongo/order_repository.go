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
	"github.com/sickfits/storefront-api/internal/core/ports"
)

const collectionOrders = "orders"

// OrderRepository implements ports.OrderRepository using MongoDB. Creating an
// order from a cart runs in a multi-document transaction, so the deployment
// must be a replica set.
type OrderRepository struct {
	client *mongo.Client
	col    *mongo.Collection
	carts  *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{
		client: db.Client(),
		col:    db.Collection(collectionOrders),
		carts:  db.Collection(collectionCartItems),
	}
}

type orderItemDoc struct {
	ItemID      string `bson:"item_id"`
	Title       string `bson:"title"`
	Description string `bson:"description"`
	Image       string `bson:"image,omitempty"`
	LargeImage  string `bson:"large_image,omitempty"`
	Price       int64  `bson:"price"`
	Quantity    int    `bson:"quantity"`
}

type orderDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"user_id"`
	Items     []orderItemDoc     `bson:"items"`
	Total     int64              `bson:"total"`
	Currency  string             `bson:"currency"`
	Charge    string             `bson:"charge"`
	CreatedAt time.Time          `bson:"created_at"`
}

func toOrderDoc(o *domain.Order) orderDoc {
	items := make([]orderItemDoc, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, orderItemDoc(it))
	}
	return orderDoc{
		UserID:    o.UserID,
		Items:     items,
		Total:     o.Total,
		Currency:  o.Currency,
		Charge:    o.Charge,
		CreatedAt: o.CreatedAt,
	}
}

func (d *orderDoc) toDomain() *domain.Order {
	items := make([]domain.OrderItem, 0, len(d.Items))
	for _, it := range d.Items {
		items = append(items, domain.OrderItem(it))
	}
	return &domain.Order{
		ID:        d.ID.Hex(),
		UserID:    d.UserID,
		Items:     items,
		Total:     d.Total,
		Currency:  d.Currency,
		Charge:    d.Charge,
		CreatedAt: d.CreatedAt.UTC(),
	}
}

// CreateFromCart inserts the order and consumes the priced quantities from the
// cart in one transaction. Units merged into a row after pricing survive.
func (r *OrderRepository) CreateFromCart(ctx context.Context, order *domain.Order, consumed []ports.ConsumedCartItem) (*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	session, err := r.client.StartSession()
	if err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	doc := toOrderDoc(order)
	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		res, err := r.col.InsertOne(sc, doc)
		if err != nil {
			return nil, fmt.Errorf("insert order: %w", err)
		}
		doc.ID = res.InsertedID.(primitive.ObjectID)

		if err := r.consumeCart(sc, order.UserID, consumed); err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *OrderRepository) consumeCart(ctx context.Context, userID string, consumed []ports.ConsumedCartItem) error {
	var (
		writes = make([]mongo.WriteModel, 0, len(consumed))
		oids   = make([]primitive.ObjectID, 0, len(consumed))
	)
	for _, c := range consumed {
		oid, err := primitive.ObjectIDFromHex(c.ID)
		if err != nil {
			continue
		}
		oids = append(oids, oid)
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": oid, "user_id": userID}).
			SetUpdate(bson.M{"$inc": bson.M{"quantity": -c.Quantity}}))
	}
	if len(writes) == 0 {
		return nil
	}

	if _, err := r.carts.BulkWrite(ctx, writes); err != nil {
		return fmt.Errorf("consume cart: %w", err)
	}
	filter := bson.M{"_id": bson.M{"$in": oids}, "user_id": userID, "quantity": bson.M{"$lte": 0}}
	if _, err := r.carts.DeleteMany(ctx, filter); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrOrderNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc orderDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("find order: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	var docs []orderDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}

	orders := make([]*domain.Order, 0, len(docs))
	for i := range docs {
		orders = append(orders, docs[i].toDomain())
	}
	return orders, nil
}

// EnsureIndexes creates the per-user listing index and a unique charge index,
// so a replayed capture can never produce a second order.
func (r *OrderRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "charge", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
