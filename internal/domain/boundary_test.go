package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Presidio challenge rectangle used by the map client.
func presidio() Boundary {
	return NewBoundary(
		LatLng{Lat: 37.8000, Lng: -122.4600},
		LatLng{Lat: 37.8000, Lng: -122.4550},
		LatLng{Lat: 37.7975, Lng: -122.4550},
		LatLng{Lat: 37.7975, Lng: -122.4600},
	)
}

func TestBoundaryContains(t *testing.T) {
	b := presidio()

	tests := []struct {
		name string
		pt   LatLng
		want bool
	}{
		{"center", LatLng{Lat: 37.79875, Lng: -122.4575}, true},
		{"near corner inside", LatLng{Lat: 37.7999, Lng: -122.4599}, true},
		{"north of area", LatLng{Lat: 37.8010, Lng: -122.4575}, false},
		{"west of area", LatLng{Lat: 37.79875, Lng: -122.4700}, false},
		{"other city", LatLng{Lat: 40.7128, Lng: -74.006}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, b.Contains(tt.pt))
		})
	}
}

func TestBoundaryContainsConcave(t *testing.T) {
	// L-shaped area; the notch at the top right is outside.
	b := NewBoundary(
		LatLng{Lat: 0, Lng: 0},
		LatLng{Lat: 0, Lng: 2},
		LatLng{Lat: 1, Lng: 2},
		LatLng{Lat: 1, Lng: 1},
		LatLng{Lat: 2, Lng: 1},
		LatLng{Lat: 2, Lng: 0},
	)

	assert.True(t, b.Contains(LatLng{Lat: 0.5, Lng: 1.5}))
	assert.True(t, b.Contains(LatLng{Lat: 1.5, Lng: 0.5}))
	assert.False(t, b.Contains(LatLng{Lat: 1.5, Lng: 1.5}))
}

func TestBoundaryClosedRingMatchesOpenRing(t *testing.T) {
	open := presidio()
	closed := NewBoundary(append(append([]LatLng{}, open.Vertices...), open.Vertices[0])...)

	pt := LatLng{Lat: 37.79875, Lng: -122.4575}
	assert.Equal(t, open.Contains(pt), closed.Contains(pt))
	assert.Equal(t, open.Centroid(), closed.Centroid())
	require.NoError(t, closed.Validate())
}

func TestBoundaryValidate(t *testing.T) {
	require.Error(t, NewBoundary(LatLng{Lat: 1, Lng: 1}, LatLng{Lat: 2, Lng: 2}).Validate())
	require.Error(t, NewBoundary(
		LatLng{Lat: 0, Lng: 0},
		LatLng{Lat: 91, Lng: 0},
		LatLng{Lat: 0, Lng: 1},
	).Validate())
	require.NoError(t, presidio().Validate())

	// Degenerate boundaries never contain anything.
	assert.False(t, Boundary{}.Contains(LatLng{}))
}

func TestBoundaryValidateRepeatedVertices(t *testing.T) {
	a := LatLng{Lat: 0, Lng: 0}
	b := LatLng{Lat: 0, Lng: 1}
	c := LatLng{Lat: 1, Lng: 1}

	tests := []struct {
		name    string
		b       Boundary
		wantErr bool
	}{
		{"repeated first vertex", NewBoundary(a, a, b), true},
		{"closing vertex only", NewBoundary(a, b, a), true},
		{"repeats collapse to two", NewBoundary(a, a, b, b, a), true},
		{"double click inside triangle", NewBoundary(a, b, b, c), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.b.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	// A repeated vertex does not shift the centroid.
	assert.Equal(t, NewBoundary(a, b, c).Centroid(), NewBoundary(a, b, b, c).Centroid())
}

func TestBoundaryCentroid(t *testing.T) {
	c := presidio().Centroid()
	assert.InDelta(t, 37.79875, c.Lat, 1e-9)
	assert.InDelta(t, -122.4575, c.Lng, 1e-9)
}

func TestLatLngJSON(t *testing.T) {
	var c LatLng
	require.NoError(t, json.Unmarshal([]byte(`[37.8, -122.46]`), &c))
	assert.Equal(t, LatLng{Lat: 37.8, Lng: -122.46}, c)

	b, err := json.Marshal(c)
	require.NoError(t, err)
	assert.JSONEq(t, `[37.8, -122.46]`, string(b))

	assert.Error(t, json.Unmarshal([]byte(`[37.8]`), &c))
	assert.Error(t, json.Unmarshal([]byte(`{"lat": 1}`), &c))
}

func TestChallengeAreaValidate(t *testing.T) {
	area := ChallengeArea{Location: "Presidio, San Francisco, CA", Coordinates: presidio().Vertices}
	require.NoError(t, area.Validate())

	area.Coordinates = area.Coordinates[:3]
	require.Error(t, area.Validate())

	area = ChallengeArea{Location: " ", Coordinates: presidio().Vertices}
	require.Error(t, area.Validate())
}
