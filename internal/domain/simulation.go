package domain

// Kind of sustainability intervention a user can place on the map.
type InterventionKind string

const (
	KindTrees    InterventionKind = "trees"
	KindSolar    InterventionKind = "solar"
	KindPavement InterventionKind = "pavement"
	KindPark     InterventionKind = "park"
)

// Scattered reports whether one click of this kind places a cluster of points
// rather than a single placement.
func (k InterventionKind) Scattered() bool {
	return k == KindTrees || k == KindSolar
}

func (k InterventionKind) Valid() bool {
	switch k {
	case KindTrees, KindSolar, KindPavement, KindPark:
		return true
	}
	return false
}

// One click that scattered Count trees or solar panels around Center.
// A cluster is created once and never modified.
type PointCluster struct {
	ID     string `json:"id"`
	Center LatLng `json:"center"`
	Count  int    `json:"count"`
}

// One click that placed a single pavement point or park.
type PointPlacement struct {
	ID     string `json:"id"`
	Center LatLng `json:"center"`
}

// Snapshot of everything a user placed, handed to the scorers on submit.
// Collections keep click order. Scorers treat it as read-only.
type SimulationData struct {
	TreeClusters         []PointCluster   `json:"treeClusters"`
	SolarClusters        []PointCluster   `json:"solarClusters"`
	PlacedPavementPoints []PointPlacement `json:"placedPavementPoints"`
	PlacedParks          []PointPlacement `json:"placedParks"`
	TotalTreesPlaced     int              `json:"totalTreesPlaced"`
	TotalSolarPlaced     int              `json:"totalSolarPlaced"`
}

// PlacementCount is the number of clicks recorded across all four collections.
func (d SimulationData) PlacementCount() int {
	return len(d.TreeClusters) + len(d.SolarClusters) + len(d.PlacedPavementPoints) + len(d.PlacedParks)
}

// Consistent reports whether both totals equal the sum of their cluster counts.
func (d SimulationData) Consistent() bool {
	return d.TotalTreesPlaced == SumCounts(d.TreeClusters) &&
		d.TotalSolarPlaced == SumCounts(d.SolarClusters)
}

func SumCounts(clusters []PointCluster) int {
	total := 0
	for _, c := range clusters {
		total += c.Count
	}
	return total
}
