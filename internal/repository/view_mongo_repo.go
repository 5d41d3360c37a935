package repository

import (
	"context"

	"github.com/content-publishing-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// mongoViewEventRepo keeps the visit log in a MongoDB collection with one
// document per visit: {date: "YYYY-MM-DD"}
type mongoViewEventRepo struct {
	visitor *mongo.Collection
}

// NewMongoViewEventRepo creates a MongoDB backed view event repository
func NewMongoViewEventRepo(visitor *mongo.Collection) ViewEventRepository {
	return &mongoViewEventRepo{visitor: visitor}
}

// Record appends one visit
func (r *mongoViewEventRepo) Record(ctx context.Context, event models.ViewEvent) error {
	_, err := r.visitor.InsertOne(ctx, event)
	return err
}

// DailyCounts runs {$group by date, $sum 1} → {$sort _id desc} → {$limit}
func (r *mongoViewEventRepo) DailyCounts(ctx context.Context, limit int) ([]models.DailyCount, error) {
	pipeline := dailyCountsPipeline(limit)

	cursor, err := r.visitor.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	counts := make([]models.DailyCount, 0, limit)
	if err := cursor.All(ctx, &counts); err != nil {
		return nil, err
	}
	return counts, nil
}

func dailyCountsPipeline(limit int) mongo.Pipeline {
	return mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$date"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "_id", Value: -1}}}},
		bson.D{{Key: "$limit", Value: int64(limit)}},
	}
}
