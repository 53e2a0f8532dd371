// Package servicestest provides in-memory stand-ins for the patient record
// store and the live vitals store.
package servicestest

import (
	"context"
	"sort"
	"sync"

	"VitalsHub/models"
	"VitalsHub/util"

	"go.mongodb.org/mongo-driver/bson"
)

// PatientStore keeps profiles in a map. Documents go through a BSON round
// trip so updates behave like a $set.
type PatientStore struct {
	mu   sync.Mutex
	docs map[string]bson.M

	// Err, when set, is returned by every call.
	Err error
	// CreateErr, when set, is returned by Create only.
	CreateErr error
}

func NewPatientStore() *PatientStore {
	return &PatientStore{docs: map[string]bson.M{}}
}

func (s *PatientStore) ListAll(ctx context.Context) ([]models.Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	ids := make([]string, 0, len(s.docs))
	for id := range s.docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := []models.Patient{}
	for _, id := range ids {
		p, err := decode(s.docs[id])
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, nil
}

func (s *PatientStore) GetByID(ctx context.Context, id string) (*models.Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	doc, ok := s.docs[id]
	if !ok {
		return nil, util.NotFoundError(util.PATIENT_NOT_FOUND)
	}
	return decode(doc)
}

func (s *PatientStore) Create(ctx context.Context, id string, patient *models.Patient) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if s.CreateErr != nil {
		return s.CreateErr
	}
	patient.ID = id
	doc, err := encode(patient)
	if err != nil {
		return err
	}
	s.docs[id] = doc
	return nil
}

func (s *PatientStore) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	doc, ok := s.docs[id]
	if !ok {
		return util.NotFoundError(util.PATIENT_NOT_FOUND)
	}
	for k, v := range fields {
		doc[k] = v
	}
	return nil
}

func (s *PatientStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	delete(s.docs, id)
	return nil
}

// Has reports whether a profile is stored under id.
func (s *PatientStore) Has(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.docs[id]
	return ok
}

// Put stores a profile directly, bypassing Create.
func (s *PatientStore) Put(p models.Patient) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := encode(&p)
	if err != nil {
		panic(err)
	}
	s.docs[p.ID] = doc
}

func encode(p *models.Patient) (bson.M, error) {
	raw, err := bson.Marshal(p)
	if err != nil {
		return nil, err
	}
	doc := bson.M{}
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func decode(doc bson.M) (*models.Patient, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var p models.Patient
	if err := bson.Unmarshal(raw, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// VitalsStore keeps live records in a map.
type VitalsStore struct {
	mu      sync.Mutex
	records map[string]models.Vitals

	// Err, when set, is returned by every call.
	Err error
	// SetErr, when set, is returned by Set and SetIfAbsent only.
	SetErr error
}

func NewVitalsStore() *VitalsStore {
	return &VitalsStore{records: map[string]models.Vitals{}}
}

func (s *VitalsStore) Exists(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return false, s.Err
	}
	_, ok := s.records[id]
	return ok, nil
}

func (s *VitalsStore) Get(ctx context.Context, id string) (*models.Vitals, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	v, ok := s.records[id]
	if !ok {
		return nil, util.NotFoundError(util.PATIENT_NOT_FOUND)
	}
	return &v, nil
}

func (s *VitalsStore) Set(ctx context.Context, id string, vitals models.Vitals) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if s.SetErr != nil {
		return s.SetErr
	}
	s.records[id] = vitals
	return nil
}

func (s *VitalsStore) SetIfAbsent(ctx context.Context, id string, vitals models.Vitals) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return false, s.Err
	}
	if s.SetErr != nil {
		return false, s.SetErr
	}
	if _, ok := s.records[id]; ok {
		return false, nil
	}
	s.records[id] = vitals
	return true, nil
}

func (s *VitalsStore) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	delete(s.records, id)
	return nil
}

func (s *VitalsStore) ListAllIDs(ctx context.Context) (map[string]struct{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	ids := make(map[string]struct{}, len(s.records))
	for id := range s.records {
		ids[id] = struct{}{}
	}
	return ids, nil
}

// Snapshot returns the stored record and whether it exists.
func (s *VitalsStore) Snapshot(id string) (models.Vitals, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.records[id]
	return v, ok
}
