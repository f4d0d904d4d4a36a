package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/opsdesk/console/internal/core/domain"
)

const auditCollection = "auth_events"

// MongoAuditRepository persists the auth trail. Entries are insert-only.
type MongoAuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *MongoAuditRepository {
	return &MongoAuditRepository{coll: db.Collection(auditCollection)}
}

type mongoAuthEvent struct {
	ID        string `bson:"_id"`
	Username  string `bson:"username"`
	Kind      string `bson:"kind"`
	At        int64  `bson:"at"`
	RemoteIP  string `bson:"remote_ip,omitempty"`
	UserAgent string `bson:"user_agent,omitempty"`
}

func (r *MongoAuditRepository) Insert(ctx context.Context, event *domain.AuthEvent) error {
	doc := mongoAuthEvent{
		ID:        event.ID,
		Username:  event.Username,
		Kind:      string(event.Kind),
		At:        event.At.Unix(),
		RemoteIP:  event.RemoteIP,
		UserAgent: event.UserAgent,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert auth event: %w", err)
	}
	return nil
}
