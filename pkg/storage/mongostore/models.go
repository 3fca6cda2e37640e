package mongostore

import (
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/adfharrison1/go-users/pkg/domain"
)

func findOptions(opts *domain.FindOptions) *options.FindOptionsBuilder {
	fo := options.Find()
	if opts == nil {
		return fo
	}
	if len(opts.Projection) > 0 {
		fo.SetProjection(opts.Projection)
	}
	if len(opts.Sort) > 0 {
		fo.SetSort(opts.Sort)
	}
	if opts.Skip > 0 {
		fo.SetSkip(opts.Skip)
	}
	if opts.Limit > 0 {
		fo.SetLimit(opts.Limit)
	}
	return fo
}

func writeModels(models []domain.WriteModel) ([]mongo.WriteModel, error) {
	out := make([]mongo.WriteModel, 0, len(models))
	for i, m := range models {
		switch m.Kind {
		case domain.WriteInsertOne:
			out = append(out, mongo.NewInsertOneModel().SetDocument(m.Document))
		case domain.WriteReplaceOne:
			out = append(out, mongo.NewReplaceOneModel().SetFilter(m.Filter).SetReplacement(m.Document))
		case domain.WriteUpdateOne:
			out = append(out, mongo.NewUpdateOneModel().SetFilter(m.Filter).SetUpdate(m.Update).SetUpsert(m.Upsert))
		case domain.WriteUpdateMany:
			out = append(out, mongo.NewUpdateManyModel().SetFilter(m.Filter).SetUpdate(m.Update).SetUpsert(m.Upsert))
		case domain.WriteDeleteOne:
			out = append(out, mongo.NewDeleteOneModel().SetFilter(m.Filter))
		case domain.WriteDeleteMany:
			out = append(out, mongo.NewDeleteManyModel().SetFilter(m.Filter))
		default:
			return nil, fmt.Errorf("write model %d: unknown kind %d", i, m.Kind)
		}
	}
	return out, nil
}

func textIndexModel(name string, fields []string) mongo.IndexModel {
	keys := make(bson.D, 0, len(fields))
	for _, f := range fields {
		keys = append(keys, bson.E{Key: f, Value: "text"})
	}
	return mongo.IndexModel{
		Keys:    keys,
		Options: options.Index().SetName(name),
	}
}

func updateResult(res *mongo.UpdateResult) *domain.UpdateResult {
	return &domain.UpdateResult{
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedCount: res.UpsertedCount,
		UpsertedID:    res.UpsertedID,
		Acknowledged:  res.Acknowledged,
	}
}

func bulkResult(res *mongo.BulkWriteResult) *domain.BulkResult {
	if res == nil {
		return nil
	}
	return &domain.BulkResult{
		InsertedCount: res.InsertedCount,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		DeletedCount:  res.DeletedCount,
		UpsertedCount: res.UpsertedCount,
		Acknowledged:  res.Acknowledged,
	}
}
