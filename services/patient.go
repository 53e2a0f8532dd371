package services

import (
	"context"
	"time"

	"VitalsHub/models"
	"VitalsHub/util"

	"github.com/rs/zerolog/log"
)

const createdAtLayout = "2006-01-02T15:04:05.000Z07:00"

var requiredPatientFields = []string{"fullName", "age", "email", "mobile", "dob", "gender"}

// PatientService coordinates the profile document store and the live vitals
// store. The two are written one after the other without a transaction.
type PatientService struct {
	records PatientRecordStore
	vitals  VitalsStore
	ids     *IdentifierAllocator
	now     func() time.Time
}

func NewPatientService(records PatientRecordStore, vitals VitalsStore) *PatientService {
	return &PatientService{
		records: records,
		vitals:  vitals,
		ids:     NewIdentifierAllocator(vitals),
		now:     time.Now,
	}
}

func (s *PatientService) ListPatients(ctx context.Context) ([]models.Patient, error) {
	patients, err := s.records.ListAll(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Error from listAll")
		return nil, err
	}
	return patients, nil
}

func (s *PatientService) GetPatient(ctx context.Context, id string) (*models.Patient, error) {
	if id == "" {
		return nil, util.ValidationError(util.PATIENT_ID_REQUIRED)
	}
	return s.records.GetByID(ctx, id)
}

/*
* Check the required fields in order, the first falsy one is reported
* Default the creation-time vitals to "0"
* Allocate an identifier unused in the real-time store
* Stamp createdAt
* Write the profile, then the zeroed live record
 */
func (s *PatientService) CreatePatient(ctx context.Context, data map[string]interface{}) (*models.Patient, error) {
	for _, field := range requiredPatientFields {
		if util.IsFalsy(data[field]) {
			return nil, util.ValidationError(field + " is required")
		}
	}

	gender := util.ToString(data["gender"])
	patient := &models.Patient{
		FullName:    util.ToString(data["fullName"]),
		Age:         util.ToString(data["age"]),
		Gender:      &gender,
		Email:       util.ToString(data["email"]),
		Mobile:      util.ToString(data["mobile"]),
		Dob:         util.ToString(data["dob"]),
		HeartRate:   readingOrZero(data["heartRate"]),
		Spo2:        readingOrZero(data["spo2"]),
		Temperature: readingOrZero(data["temperature"]),
	}

	id, err := s.ids.Allocate(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Error allocating patient id")
		return nil, err
	}
	patient.ID = id
	patient.CreatedAt = s.now().UTC().Format(createdAtLayout)

	if err := s.records.Create(ctx, id, patient); err != nil {
		log.Error().Err(err).Str("id", id).Msg("Error from create profile")
		return nil, err
	}
	if err := s.vitals.Set(ctx, id, models.ZeroVitals()); err != nil {
		// profile stays behind without a live record; the reconcile job re-seeds it
		log.Error().Err(err).Str("id", id).Msg("Error seeding live vitals")
		return nil, err
	}
	log.Info().Str("id", id).Msg("patient created")
	return patient, nil
}

/*
* No live record: remove the profile only and say so
* Otherwise remove both
 */
func (s *PatientService) DeletePatient(ctx context.Context, id string) (string, error) {
	if id == "" {
		return "", util.ValidationError(util.PATIENT_ID_REQUIRED)
	}
	live, err := s.vitals.Exists(ctx, id)
	if err != nil {
		return "", err
	}
	if err := s.records.Delete(ctx, id); err != nil {
		return "", err
	}
	if !live {
		log.Warn().Str("id", id).Msg("deleted patient had no live vitals record")
		return util.PATIENT_DELETED_DOC_ONLY, nil
	}
	if err := s.vitals.Remove(ctx, id); err != nil {
		return "", err
	}
	return util.PATIENT_DELETED, nil
}

/*
* The live record decides whether the patient is known
* Strip identifier keys and coerce known string fields
* Merge into the profile and read it back
 */
func (s *PatientService) UpdatePatientProfile(ctx context.Context, id string, fields map[string]interface{}) (*models.Patient, error) {
	if id == "" {
		return nil, util.ValidationError(util.PATIENT_ID_REQUIRED)
	}
	live, err := s.vitals.Exists(ctx, id)
	if err != nil {
		return nil, err
	}
	if !live {
		return nil, util.NotFoundError(util.PATIENT_NOT_FOUND)
	}

	if err := s.records.Update(ctx, id, normalizeProfileFields(fields)); err != nil {
		log.Error().Err(err).Str("id", id).Msg("Error from update profile")
		return nil, err
	}
	return s.records.GetByID(ctx, id)
}

func (s *PatientService) PushVitals(ctx context.Context, id string, update models.VitalsUpdate) (string, error) {
	if id == "" {
		return "", util.ValidationError(util.PATIENT_ID_REQUIRED)
	}
	prev, err := s.vitals.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if err := s.vitals.Set(ctx, id, update.Merge(*prev)); err != nil {
		return "", err
	}
	return util.VITALS_UPDATED, nil
}

func readingOrZero(v interface{}) string {
	if util.IsFalsy(v) {
		return models.ZeroReading
	}
	return util.ToString(v)
}

func normalizeProfileFields(fields map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		if k == "id" || k == "_id" {
			continue
		}
		out[k] = v
	}
	for _, key := range models.StringFields {
		v, ok := out[key]
		if !ok || v == nil {
			continue
		}
		if _, isString := v.(string); !isString {
			out[key] = util.ToString(v)
		}
	}
	return out
}
