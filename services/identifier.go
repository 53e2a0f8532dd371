package services

import (
	"context"
	"math/rand"
	"strconv"

	"github.com/rs/zerolog/log"
)

const (
	minIdentifier = 10000
	maxIdentifier = 99999
)

// IdentifierAllocator draws 5-digit patient identifiers that are not yet
// used in the real-time store. It does not reserve what it returns.
type IdentifierAllocator struct {
	vitals VitalsStore
	intn   func(n int) int
}

func NewIdentifierAllocator(vitals VitalsStore) *IdentifierAllocator {
	return &IdentifierAllocator{vitals: vitals, intn: rand.Intn}
}

/*
* Read every identifier currently present in the real-time store
* Draw from [10000, 99999] until the draw is not in that set
 */
func (a *IdentifierAllocator) Allocate(ctx context.Context) (string, error) {
	existing, err := a.vitals.ListAllIDs(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Error from listAllIds")
		return "", err
	}
	for {
		candidate := strconv.Itoa(minIdentifier + a.intn(maxIdentifier-minIdentifier+1))
		if _, taken := existing[candidate]; !taken {
			return candidate, nil
		}
	}
}
