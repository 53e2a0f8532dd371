package services

import (
	"context"
	"errors"

	"VitalsHub/models"
	"VitalsHub/util"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoPatientStore keeps one document per patient with _id set to the
// patient identifier.
type MongoPatientStore struct {
	coll *mongo.Collection
}

func NewPatientStore(coll *mongo.Collection) *MongoPatientStore {
	return &MongoPatientStore{coll: coll}
}

func (s *MongoPatientStore) ListAll(ctx context.Context) ([]models.Patient, error) {
	cursor, err := s.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		log.Error().Err(err).Msg("Error from find while listing patients")
		return nil, util.StoreError(err)
	}
	defer cursor.Close(ctx)

	patients := []models.Patient{}
	if err := cursor.All(ctx, &patients); err != nil {
		log.Error().Err(err).Msg("Error decoding patients")
		return nil, util.StoreError(err)
	}
	return patients, nil
}

func (s *MongoPatientStore) GetByID(ctx context.Context, id string) (*models.Patient, error) {
	var patient models.Patient
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&patient)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, util.NotFoundError(util.PATIENT_NOT_FOUND)
	}
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("Error from findOne while fetching patient")
		return nil, util.StoreError(err)
	}
	return &patient, nil
}

// Create writes the document at id, replacing any existing one.
func (s *MongoPatientStore) Create(ctx context.Context, id string, patient *models.Patient) error {
	patient.ID = id
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": id}, patient, options.Replace().SetUpsert(true))
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("Error writing patient document")
		return util.StoreError(err)
	}
	return nil
}

// Update merges fields into the document; fields not listed keep their value.
func (s *MongoPatientStore) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	filter := bson.M{"_id": id}
	if len(fields) == 0 {
		// $set rejects an empty document, only confirm the patient exists
		count, err := s.coll.CountDocuments(ctx, filter)
		if err != nil {
			log.Error().Err(err).Str("id", id).Msg("Error from countDocuments")
			return util.StoreError(err)
		}
		if count == 0 {
			return util.NotFoundError(util.PATIENT_NOT_FOUND)
		}
		return nil
	}

	res, err := s.coll.UpdateOne(ctx, filter, bson.M{"$set": fields})
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("Error from updateOne")
		return util.StoreError(err)
	}
	if res.MatchedCount == 0 {
		return util.NotFoundError(util.PATIENT_NOT_FOUND)
	}
	log.Debug().Str("id", id).Int64("modified", res.ModifiedCount).Msg("patient updated")
	return nil
}

func (s *MongoPatientStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("Error from deleteOne")
		return util.StoreError(err)
	}
	log.Debug().Str("id", id).Int64("deleted", res.DeletedCount).Msg("patient document removed")
	return nil
}
