package domain

import (
	"encoding/json"
	"fmt"
)

// Immutable geographic position (latitude, longitude).
// Encoded on the wire as a [lat, lng] pair, matching the map client.
type LatLng struct {
	Lat float64
	Lng float64
}

// Validate reports whether the position lies within WGS84 bounds.
func (c LatLng) Validate() error {
	if c.Lat < -90 || c.Lat > 90 || c.Lng < -180 || c.Lng > 180 {
		return fmt.Errorf("coordinate [%g, %g] out of valid range", c.Lat, c.Lng)
	}
	return nil
}

func (c LatLng) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{c.Lat, c.Lng})
}

func (c *LatLng) UnmarshalJSON(b []byte) error {
	var pair []float64
	if err := json.Unmarshal(b, &pair); err != nil {
		return fmt.Errorf("decode coordinate: expected [lat, lng]: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("decode coordinate: expected 2 values, got %d", len(pair))
	}
	c.Lat, c.Lng = pair[0], pair[1]
	return nil
}
