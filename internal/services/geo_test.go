package services

import (
	"math"
	"testing"

	"github.com/aquaguard/backend/internal/models"
)

func TestHaversineKm(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		expected               float64
		tolerance              float64
	}{
		{
			name: "same point",
			lat1: -1.2921, lon1: 36.8219,
			lat2: -1.2921, lon2: 36.8219,
			expected:  0,
			tolerance: 0.0001,
		},
		{
			name: "nairobi to mombasa",
			lat1: -1.2921, lon1: 36.8219,
			lat2: -4.0435, lon2: 39.6682,
			expected:  440,
			tolerance: 10,
		},
		{
			name: "small offset north",
			lat1: -1.2921, lon1: 36.8219,
			lat2: -1.2894, lon2: 36.8219,
			expected:  0.3,
			tolerance: 0.01,
		},
		{
			name: "across the equator",
			lat1: -0.05, lon1: 36.0,
			lat2: 0.05, lon2: 36.0,
			expected:  11.12,
			tolerance: 0.1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := haversineKm(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if math.Abs(got-tt.expected) > tt.tolerance {
				t.Errorf("haversineKm() = %.4f, expected %.4f ± %.4f", got, tt.expected, tt.tolerance)
			}
		})
	}
}

func TestHaversineKm_Symmetric(t *testing.T) {
	ab := haversineKm(-1.2921, 36.8219, -4.0435, 39.6682)
	ba := haversineKm(-4.0435, 39.6682, -1.2921, 36.8219)
	if math.Abs(ab-ba) > 0.0001 {
		t.Errorf("distance not symmetric: %.6f vs %.6f", ab, ba)
	}
}

func TestFindDuplicate(t *testing.T) {
	// ~0.0027 degrees of latitude is roughly 300m
	nearby := models.EnvironmentalReport{ID: "nearby", Latitude: -1.2894, Longitude: 36.8219}
	far := models.EnvironmentalReport{ID: "far", Latitude: -1.2021, Longitude: 36.8219}

	tests := []struct {
		name       string
		candidates []models.EnvironmentalReport
		expectedID string
		expectDup  bool
	}{
		{
			name:       "no candidates",
			candidates: nil,
			expectDup:  false,
		},
		{
			name:       "candidate within radius",
			candidates: []models.EnvironmentalReport{nearby},
			expectedID: "nearby",
			expectDup:  true,
		},
		{
			name:       "candidate outside radius",
			candidates: []models.EnvironmentalReport{far},
			expectDup:  false,
		},
		{
			name:       "far candidate skipped, near one matched",
			candidates: []models.EnvironmentalReport{far, nearby},
			expectedID: "nearby",
			expectDup:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, isDup := findDuplicate(-1.2921, 36.8219, tt.candidates)
			if isDup != tt.expectDup {
				t.Fatalf("findDuplicate() duplicate = %v, expected %v", isDup, tt.expectDup)
			}
			if id != tt.expectedID {
				t.Errorf("findDuplicate() id = %q, expected %q", id, tt.expectedID)
			}
		})
	}
}

func TestFindDuplicate_FirstHitWins(t *testing.T) {
	// Both are inside the radius; the scan must return the first in
	// retrieval order rather than the closest.
	first := models.EnvironmentalReport{ID: "first", Latitude: -1.2894, Longitude: 36.8219}
	closest := models.EnvironmentalReport{ID: "closest", Latitude: -1.2921, Longitude: 36.8219}

	id, isDup := findDuplicate(-1.2921, 36.8219, []models.EnvironmentalReport{first, closest})
	if !isDup {
		t.Fatal("expected a duplicate")
	}
	if id != "first" {
		t.Errorf("findDuplicate() id = %q, expected %q", id, "first")
	}
}
