package services

import (
	"context"

	"VitalsHub/models"
)

// PatientRecordStore persists profile documents keyed by patient identifier.
type PatientRecordStore interface {
	ListAll(ctx context.Context) ([]models.Patient, error)
	GetByID(ctx context.Context, id string) (*models.Patient, error)
	Create(ctx context.Context, id string, patient *models.Patient) error
	Update(ctx context.Context, id string, fields map[string]interface{}) error
	Delete(ctx context.Context, id string) error
}

// VitalsStore holds the live vitals record of every active patient.
type VitalsStore interface {
	Exists(ctx context.Context, id string) (bool, error)
	Get(ctx context.Context, id string) (*models.Vitals, error)
	Set(ctx context.Context, id string, vitals models.Vitals) error
	// SetIfAbsent writes vitals only when id has no record and reports
	// whether it did.
	SetIfAbsent(ctx context.Context, id string, vitals models.Vitals) (bool, error)
	Remove(ctx context.Context, id string) error
	ListAllIDs(ctx context.Context) (map[string]struct{}, error)
}
