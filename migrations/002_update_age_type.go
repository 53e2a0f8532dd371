package migrations

import (
	"context"

	"VitalsHub/util"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ChangeAgeType rewrites numeric ages as strings so every profile decodes
// into the same shape.
func ChangeAgeType(ctx context.Context, coll *mongo.Collection) (int64, error) {
	filter := bson.M{"age": bson.M{"$type": bson.A{"int", "long", "double", "decimal"}}}
	cursor, err := coll.Find(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("Migration failed")
		return 0, err
	}
	defer cursor.Close(ctx)

	var changed int64
	for cursor.Next(ctx) {
		var patient struct {
			ID  string      `bson:"_id"`
			Age interface{} `bson:"age"`
		}
		if err := cursor.Decode(&patient); err != nil {
			return changed, err
		}
		res, err := coll.UpdateOne(ctx, bson.M{"_id": patient.ID},
			bson.M{"$set": bson.M{"age": util.ToString(patient.Age)}})
		if err != nil {
			return changed, err
		}
		changed += res.ModifiedCount
	}
	if err := cursor.Err(); err != nil {
		return changed, err
	}
	log.Info().Int64("modified", changed).Msg("Changed the type of age")
	return changed, nil
}
