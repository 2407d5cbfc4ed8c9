// Tastemap - Recommendation Explorer Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastemap

package viewmodel

import (
	"math/rand/v2"
)

// MapBounds is the box simulated points are drawn from. The positions are
// placeholders and carry no relation to the records.
var MapBounds = struct {
	MinLat, MaxLat float64
	MinLon, MaxLon float64
}{
	MinLat: 25.5, MaxLat: 26.5,
	MinLon: -80.5, MaxLon: -79.5,
}

// MapPoint is one simulated marker.
type MapPoint struct {
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Label string  `json:"label,omitempty"`
}

// GenerateMapPoints draws n points uniformly inside MapBounds. A nil src uses
// a freshly seeded generator, so repeated calls give different points.
func GenerateMapPoints(n int, src rand.Source) []MapPoint {
	if n <= 0 {
		return []MapPoint{}
	}

	var rng *rand.Rand
	if src != nil {
		rng = rand.New(src)
	} else {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	points := make([]MapPoint, n)
	for i := range points {
		points[i] = MapPoint{
			Lat: uniform(rng, MapBounds.MinLat, MapBounds.MaxLat),
			Lon: uniform(rng, MapBounds.MinLon, MapBounds.MaxLon),
		}
	}
	return points
}

// MapPoints draws one point per record and labels it with the record name.
func (vm ViewModel) MapPoints(src rand.Source) []MapPoint {
	points := GenerateMapPoints(vm.Len(), src)
	for i, r := range vm.Records() {
		points[i].Label = r.Name
	}
	return points
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
