// Package data resolves the external numeric values referenced by widget data
// sources. The resolver is consulted once per dashboard load before the
// transform pipeline runs.
package data

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/BoraResearchLab/dashboard_svc/internal/model"
)

// Resolver supplies the current value for every data id referenced by the
// given widgets. Ids the resolver cannot supply are simply absent from the map.
type Resolver interface {
	ResolveValues(ctx context.Context, records []model.Widget) (map[string]float64, error)
}

type widgetDataProperties struct {
	DataID     string   `json:"dataId"`
	DataIDs    []string `json:"dataIds"`
	DataSource struct {
		DataID  string   `json:"dataId"`
		DataIDs []string `json:"dataIds"`
	} `json:"dataSource"`
}

// CollectDataIDs extracts every data id referenced by the widgets' properties,
// covering the unified dataSource shape and the legacy flat fields. The result
// is deduplicated and sorted.
func CollectDataIDs(records []model.Widget) []string {
	seen := make(map[string]struct{})
	for _, record := range records {
		var properties widgetDataProperties
		if json.Unmarshal(record.Properties, &properties) != nil {
			continue
		}
		collect(seen, properties.DataID)
		collect(seen, properties.DataSource.DataID)
		for _, dataID := range properties.DataIDs {
			collect(seen, dataID)
		}
		for _, dataID := range properties.DataSource.DataIDs {
			collect(seen, dataID)
		}
	}

	dataIDs := make([]string, 0, len(seen))
	for dataID := range seen {
		dataIDs = append(dataIDs, dataID)
	}
	sort.Strings(dataIDs)
	return dataIDs
}

func collect(seen map[string]struct{}, dataID string) {
	if dataID == "" {
		return
	}
	seen[dataID] = struct{}{}
}
