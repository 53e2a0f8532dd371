package migrations

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

type step struct {
	name string
	run  func(context.Context, *mongo.Collection) (int64, error)
}

var steps = []step{
	{"001_backfill_vitals_snapshot", BackfillVitalsSnapshot},
	{"002_update_age_type", ChangeAgeType},
}

// RunAll applies every migration in order. Each one is idempotent.
func RunAll(ctx context.Context, coll *mongo.Collection) error {
	for _, s := range steps {
		if _, err := s.run(ctx, coll); err != nil {
			return fmt.Errorf("migration %s: %w", s.name, err)
		}
	}
	return nil
}
