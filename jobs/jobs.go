package jobs

import (
	"context"
	"sort"
	"time"

	"VitalsHub/models"
	"VitalsHub/services"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

const runTimeout = 5 * time.Minute

// Summary reports one reconciliation pass.
type Summary struct {
	Profiles int      `json:"profiles"`
	Live     int      `json:"live"`
	Reseeded []string `json:"reseeded"`
	Orphans  []string `json:"orphans"`
}

// Reconciler repairs patients whose profile was written but whose live
// vitals record was not.
type Reconciler struct {
	records services.PatientRecordStore
	vitals  services.VitalsStore
}

func NewReconciler(records services.PatientRecordStore, vitals services.VitalsStore) *Reconciler {
	return &Reconciler{records: records, vitals: vitals}
}

/*
* Load every profile and every live identifier
* Profile without live record: seed a zeroed record unless one appeared meanwhile
* Live record without profile: report only
 */
func (r *Reconciler) Run(ctx context.Context) (Summary, error) {
	summary := Summary{Reseeded: []string{}, Orphans: []string{}}

	patients, err := r.records.ListAll(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Error from listAll during reconcile")
		return summary, err
	}
	live, err := r.vitals.ListAllIDs(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Error from listAllIds during reconcile")
		return summary, err
	}
	summary.Profiles = len(patients)
	summary.Live = len(live)

	known := make(map[string]struct{}, len(patients))
	for _, p := range patients {
		known[p.ID] = struct{}{}
		if _, ok := live[p.ID]; ok {
			continue
		}
		// a record written since ListAllIDs wins over the zero seed
		written, err := r.vitals.SetIfAbsent(ctx, p.ID, models.ZeroVitals())
		if err != nil {
			log.Error().Err(err).Str("id", p.ID).Msg("Error reseeding live vitals")
			return summary, err
		}
		if written {
			summary.Reseeded = append(summary.Reseeded, p.ID)
		}
	}
	for id := range live {
		if _, ok := known[id]; !ok {
			summary.Orphans = append(summary.Orphans, id)
		}
	}
	sort.Strings(summary.Orphans)

	log.Info().
		Int("profiles", summary.Profiles).
		Int("live", summary.Live).
		Strs("reseeded", summary.Reseeded).
		Strs("orphans", summary.Orphans).
		Msg("reconcile finished")
	return summary, nil
}

// StartScheduler runs the reconciler on the given cron spec until the
// returned cron is stopped.
func StartScheduler(spec string, r *Reconciler) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		log.Info().Msg("Running live vitals reconciliation...")
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()
		if _, err := r.Run(ctx); err != nil {
			log.Error().Err(err).Msg("Reconciliation failed")
		}
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}
