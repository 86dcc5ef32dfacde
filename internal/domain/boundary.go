package domain

import (
	"errors"
	"fmt"
)

// Closed area drawn by the user. Vertices are in drawing order; the ring is
// implicitly closed (the last vertex connects back to the first).
type Boundary struct {
	Vertices []LatLng `json:"vertices"`
}

func NewBoundary(pts ...LatLng) Boundary {
	return Boundary{Vertices: pts}
}

// Validate requires at least three distinct, in-range vertices once repeated
// consecutive vertices and an explicit closing vertex are dropped.
func (b Boundary) Validate() error {
	ring := b.ring()
	if len(ring) < 3 {
		return errors.New("boundary: at least 3 distinct vertices are required")
	}
	for i, v := range ring {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("boundary: vertex %d: %w", i, err)
		}
	}
	return nil
}

// Contains reports whether pt lies inside the boundary using even-odd ray casting.
// Longitude is treated as the x axis and latitude as the y axis; areas drawn on
// the map are small enough that planar geometry is adequate.
func (b Boundary) Contains(pt LatLng) bool {
	ring := b.ring()
	n := len(ring)
	if n < 3 {
		return false
	}
	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		vi := ring[i]
		vj := ring[j]
		if (vi.Lat > pt.Lat) != (vj.Lat > pt.Lat) &&
			pt.Lng < (vj.Lng-vi.Lng)*(pt.Lat-vi.Lat)/(vj.Lat-vi.Lat)+vi.Lng {
			inside = !inside
		}
		j = i
	}
	return inside
}

// Centroid returns the vertex average, which is what the map assistant
// reports as the "center" of a selected area.
func (b Boundary) Centroid() LatLng {
	ring := b.ring()
	if len(ring) == 0 {
		return LatLng{}
	}
	var lat, lng float64
	for _, v := range ring {
		lat += v.Lat
		lng += v.Lng
	}
	n := float64(len(ring))
	return LatLng{Lat: lat / n, Lng: lng / n}
}

// ring collapses consecutive duplicate vertices (double clicks on the map) and
// drops an explicit closing vertex (GeoJSON style) if present.
func (b Boundary) ring() []LatLng {
	ring := make([]LatLng, 0, len(b.Vertices))
	for _, v := range b.Vertices {
		if len(ring) > 0 && ring[len(ring)-1] == v {
			continue
		}
		ring = append(ring, v)
	}
	if n := len(ring); n > 1 && ring[0] == ring[n-1] {
		ring = ring[:n-1]
	}
	return ring
}
