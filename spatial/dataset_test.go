// SPDX-License-Identifier: EPL-2.0

package spatial

import (
	"errors"
	"math"
	"path/filepath"
	"slices"
	"testing"
)

// testDataset has four directions on the horizontal plane plus one above.
// Direction i has a unit impulse at tap i in the left ear and at tap 4-i
// in the right ear, so every response is recognisable.
func testDataset(rate int) *Dataset {
	ds := &Dataset{
		Rate: rate,
		Directions: []Direction{
			{0, 0}, {90, 0}, {180, 0}, {-90, 0}, {0, 90},
		},
	}
	for i := range ds.Directions {
		l := make([]float64, 5)
		r := make([]float64, 5)
		l[i] = 0.5
		r[4-i] = -0.25
		ds.Left = append(ds.Left, l)
		ds.Right = append(ds.Right, r)
	}

	return ds
}

func TestDataset_Nearest(t *testing.T) {
	t.Parallel()

	ds := testDataset(8000)

	tests := []struct {
		az, el float64
		want   int
	}{
		{0, 0, 0},
		{30, 0, 0},
		{60, 0, 1},
		{270, 0, 3},
		{-100, 0, 3},
		{-179, 0, 2},
		{179, 10, 2},
		{45, 80, 4},
		{0, -10, 0},
	}

	for _, tt := range tests {
		if got := ds.Nearest(tt.az, tt.el); got != tt.want {
			t.Errorf("Nearest(%v, %v) = %d, want %d", tt.az, tt.el, got, tt.want)
		}
	}
}

func TestDataset_Validate(t *testing.T) {
	t.Parallel()

	if err := testDataset(8000).Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	empty := &Dataset{Rate: 8000}
	if err := empty.Validate(); !errors.Is(err, ErrEmptyDataset) {
		t.Errorf("empty Validate() error = %v, want ErrEmptyDataset", err)
	}

	short := testDataset(8000)
	short.Right = short.Right[:2]
	if err := short.Validate(); !errors.Is(err, ErrBadDirections) {
		t.Errorf("mismatched Validate() error = %v, want ErrBadDirections", err)
	}

	ragged := testDataset(8000)
	ragged.Left[3] = ragged.Left[3][:2]
	if err := ragged.Validate(); !errors.Is(err, ErrBadDirections) {
		t.Errorf("ragged Validate() error = %v, want ErrBadDirections", err)
	}
}

func TestDataset_RoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "kemar.wav")
	want := testDataset(44100)
	want.Directions[1] = Direction{Azimuth: 87.5, Elevation: -12.25}

	if err := WriteDataset(path, want); err != nil {
		t.Fatalf("WriteDataset() error = %v", err)
	}

	got, err := LoadDataset(path)
	if err != nil {
		t.Fatalf("LoadDataset() error = %v", err)
	}

	if got.Rate != 44100 {
		t.Errorf("Rate = %d, want 44100", got.Rate)
	}
	if !slices.Equal(got.Directions, want.Directions) {
		t.Errorf("Directions = %v, want %v", got.Directions, want.Directions)
	}
	for i := range want.Directions {
		for f := range want.Left[i] {
			if math.Abs(got.Left[i][f]-want.Left[i][f]) > 1e-6 ||
				math.Abs(got.Right[i][f]-want.Right[i][f]) > 1e-6 {
				t.Fatalf("response %d tap %d = (%v, %v), want (%v, %v)", i, f,
					got.Left[i][f], got.Right[i][f], want.Left[i][f], want.Right[i][f])
			}
		}
	}
}

func TestParseDirections(t *testing.T) {
	t.Parallel()

	got, err := parseDirections(" 0 0;30 -10 ; -45.5 90 ")
	if err != nil {
		t.Fatalf("parseDirections() error = %v", err)
	}
	want := []Direction{{0, 0}, {30, -10}, {-45.5, 90}}
	if !slices.Equal(got, want) {
		t.Errorf("parseDirections() = %v, want %v", got, want)
	}

	for _, bad := range []string{"0", "0 0;;", "a 0", "0 b", "1 2 3"} {
		if _, err := parseDirections(bad); !errors.Is(err, ErrBadDirections) {
			t.Errorf("parseDirections(%q) error = %v, want ErrBadDirections", bad, err)
		}
	}
	if _, err := parseDirections("  "); !errors.Is(err, ErrEmptyDataset) {
		t.Errorf("parseDirections(blank) error = %v, want ErrEmptyDataset", err)
	}
}
