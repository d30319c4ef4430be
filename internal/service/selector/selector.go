// Package selector picks the delivery agent for a new delivery.
package selector

import (
	"service-delivery/internal/domain"
	"service-delivery/internal/geo"
)

// Selection is the chosen agent. HasDistance is false when the agent was picked
// as a last resort without a known location.
type Selection struct {
	Agent       domain.Agent
	DistanceKm  float64
	HasDistance bool
}

// Select returns the nearest approved and available agent to pickup.
//
// An unresolved pickup or an empty eligible pool yields ok == false; the
// delivery is then created unassigned. Agents without a location are only
// chosen when no eligible agent has one. Ties go to the first agent in pool order.
func Select(pickup domain.Location, pool []domain.Agent) (Selection, bool) {
	origin, ok := pickup.Coordinates()
	if !ok {
		return Selection{}, false
	}

	var (
		best     Selection
		found    bool
		fallback *domain.Agent
	)
	for i := range pool {
		a := pool[i]
		if !a.Eligible() {
			continue
		}
		if a.Location == nil || !a.Location.Valid() {
			if fallback == nil {
				fallback = &pool[i]
			}
			continue
		}
		d := geo.DistanceKm(origin, *a.Location)
		if !found || d < best.DistanceKm {
			best = Selection{Agent: a, DistanceKm: d, HasDistance: true}
			found = true
		}
	}

	if found {
		return best, true
	}
	if fallback != nil {
		return Selection{Agent: *fallback}, true
	}
	return Selection{}, false
}
