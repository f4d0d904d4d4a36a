package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/opsdesk/console/internal/core/domain"
)

const operatorCollection = "operators"

type MongoOperatorRepository struct {
	coll *mongo.Collection
}

func NewOperatorRepository(db *mongo.Database) *MongoOperatorRepository {
	return &MongoOperatorRepository{coll: db.Collection(operatorCollection)}
}

type mongoOperator struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Username     string             `bson:"username"`
	Email        string             `bson:"email,omitempty"`
	PasswordHash string             `bson:"password_hash"`
	Role         string             `bson:"role"`
	CreatedAt    int64              `bson:"created_at"`
	UpdatedAt    int64              `bson:"updated_at"`
}

func (r *MongoOperatorRepository) Create(ctx context.Context, op *domain.Operator) (*domain.Operator, error) {
	doc := mongoOperator{
		Username:     op.Username,
		Email:        op.Email,
		PasswordHash: op.PasswordHash,
		Role:         op.Role,
		CreatedAt:    op.CreatedAt.Unix(),
		UpdatedAt:    op.UpdatedAt.Unix(),
	}

	_, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrOperatorExists
		}
		return nil, fmt.Errorf("insert operator: %w", err)
	}

	// fetch back to get ID
	created, err := r.FindByUsername(ctx, op.Username)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *MongoOperatorRepository) FindByUsername(ctx context.Context, username string) (*domain.Operator, error) {
	var mo mongoOperator
	if err := r.coll.FindOne(ctx, bson.M{"username": username}).Decode(&mo); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrOperatorNotFound
		}
		return nil, fmt.Errorf("find operator: %w", err)
	}

	return &domain.Operator{
		ID:           mo.ID.Hex(),
		Username:     mo.Username,
		Email:        mo.Email,
		PasswordHash: mo.PasswordHash,
		Role:         mo.Role,
		CreatedAt:    unixToTime(mo.CreatedAt),
		UpdatedAt:    unixToTime(mo.UpdatedAt),
	}, nil
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
