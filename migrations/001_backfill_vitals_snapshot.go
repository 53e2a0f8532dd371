package migrations

import (
	"context"

	"VitalsHub/models"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// BackfillVitalsSnapshot sets the creation-time vitals to "0" on profiles
// written before those fields existed.
func BackfillVitalsSnapshot(ctx context.Context, coll *mongo.Collection) (int64, error) {
	var total int64
	for _, field := range []string{"heartRate", "spo2", "temperature"} {
		result, err := coll.UpdateMany(ctx,
			bson.M{field: bson.M{"$exists": false}},
			bson.M{"$set": bson.M{field: models.ZeroReading}},
		)
		if err != nil {
			log.Error().Err(err).Str("field", field).Msg("Migration failed")
			return total, err
		}
		total += result.ModifiedCount
	}
	log.Info().Int64("modified", total).Msg("Migration applied: vitals snapshot backfilled")
	return total, nil
}
