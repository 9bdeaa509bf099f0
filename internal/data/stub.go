package data

import (
	"context"
	"hash/fnv"

	"github.com/BoraResearchLab/dashboard_svc/internal/model"
)

// StubResolver is a development stand-in for a real data backend. It derives a
// stable pseudo-value in [0,100) from each data id, so repeated loads of the
// same dashboard show the same numbers. It must be selected explicitly; the
// transform pipeline itself never fabricates values for missing data.
type StubResolver struct{}

// NewStubResolver creates a StubResolver.
func NewStubResolver() *StubResolver {
	return &StubResolver{}
}

// ResolveValues derives a deterministic value for every referenced data id.
func (resolver *StubResolver) ResolveValues(_ context.Context, records []model.Widget) (map[string]float64, error) {
	resolved := make(map[string]float64)
	for _, dataID := range CollectDataIDs(records) {
		resolved[dataID] = stubValue(dataID)
	}
	return resolved, nil
}

func stubValue(dataID string) float64 {
	hasher := fnv.New64a()
	_, _ = hasher.Write([]byte(dataID))
	return float64(hasher.Sum64()%10000) / 100
}
