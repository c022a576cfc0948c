package climate

import "testing"

func TestIsLand(t *testing.T) {
	cases := []struct {
		name string
		lat  float64
		lon  float64
		want bool
	}{
		{"siberia", 55, 90, true},
		{"sahara", 20, 10, true},
		{"us midwest", 40, -95, true},
		{"amazon", -5, -60, true},
		{"outback", -25, 135, true},

		{"mid pacific", 0, -150, false},
		{"south atlantic", -40, -20, false},
		{"north pole", 90, 0, false},
		{"antarctica is outside the band", -75, 60, false},
	}

	for _, tc := range cases {
		if got := IsLand(tc.lat, tc.lon); got != tc.want {
			t.Errorf("%s: IsLand(%v, %v) = %v, want %v", tc.name, tc.lat, tc.lon, got, tc.want)
		}
	}
}

// Region bounds are strict open intervals: coordinates exactly on a limit
// are ocean.
func TestIsLandOpenIntervals(t *testing.T) {
	// Eastern edge of Eurasia at lon 140.
	if IsLand(50, 140) {
		t.Error("lon exactly 140 should not be Eurasia")
	}
	if !IsLand(50, 139.9) {
		t.Error("lon 139.9 should be Eurasia")
	}

	// Western edge of Australia at lon 115.
	if IsLand(-25, 115) {
		t.Error("lon exactly 115 should not be Australia")
	}
	if !IsLand(-25, 116) {
		t.Error("lon 116 should be Australia")
	}

	// Outer latitude band caps every region at lat 70.
	if IsLand(70, 100) {
		t.Error("lat exactly 70 is outside the continental band")
	}
	if !IsLand(69.9, 100) {
		t.Error("lat 69.9 at lon 100 should be Eurasia")
	}

	// Southern band edge at lat -30 cuts through South America's box.
	if IsLand(-30, -60) {
		t.Error("lat exactly -30 is outside the continental band")
	}
	if !IsLand(-29.9, -60) {
		t.Error("lat -29.9 at lon -60 should be South America")
	}
}
