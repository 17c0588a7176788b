package sensor

import "testing"

func TestResolveKnownCategories(t *testing.T) {
	tests := []struct {
		category Category
		labels   []string
		unit     string
	}{
		{CategoryAccelerometer, []string{"X-axis", "Y-axis", "Z-axis"}, "m/s²"},
		{CategoryGravity, []string{"X-axis", "Y-axis", "Z-axis"}, "m/s²"},
		{CategoryLinearAcceleration, []string{"X-axis", "Y-axis", "Z-axis"}, "m/s²"},
		{CategoryMagneticField, []string{"X-axis", "Y-axis", "Z-axis"}, "µT"},
		{CategoryGyroscope, []string{"X-axis", "Y-axis", "Z-axis"}, "rad/s"},
		{CategoryOrientation, []string{"Azimuth", "Pitch", "Roll"}, "°"},
		{CategoryLight, []string{"Illuminance"}, "lx"},
		{CategoryPressure, []string{"Pressure"}, "hPa"},
		{CategoryProximity, []string{"Distance"}, "cm"},
		{CategoryTemperature, []string{"Temperature"}, "°C"},
		{CategoryAmbientTemperature, []string{"Temperature"}, "°C"},
		{CategorySignalStrength, []string{"Signal"}, "dBm"},
	}

	for _, tt := range tests {
		t.Run(tt.category.String(), func(t *testing.T) {
			// Vector length must not change fixed layouts
			for _, vl := range []int{1, 3, 5} {
				specs := Resolve(tt.category, vl)
				if len(specs) != len(tt.labels) {
					t.Fatalf("vectorLength %d: got %d channels, want %d", vl, len(specs), len(tt.labels))
				}
				for i, s := range specs {
					if s.Label != tt.labels[i] {
						t.Errorf("channel %d label = %q, want %q", i, s.Label, tt.labels[i])
					}
					if s.Unit != tt.unit {
						t.Errorf("channel %d unit = %q, want %q", i, s.Unit, tt.unit)
					}
					if s.ColorIndex != i || !s.Visible {
						t.Errorf("channel %d: got color %d visible %v", i, s.ColorIndex, s.Visible)
					}
				}
			}
		})
	}
}

func TestResolveUnknownCategoryIsGeneric(t *testing.T) {
	for _, vl := range []int{0, 1, 2, 4, 7} {
		specs := Resolve(Category(4242), vl)
		if len(specs) != vl {
			t.Fatalf("vectorLength %d: got %d channels", vl, len(specs))
		}
		for i, s := range specs {
			want := "Channel " + string(rune('0'+i))
			if s.Label != want || s.Unit != "" {
				t.Errorf("channel %d = %+v, want label %q and no unit", i, s, want)
			}
		}
	}
}

func TestResolveRotationVector(t *testing.T) {
	specs := Resolve(CategoryRotationVector, 5)
	want := []string{"X-axis", "Y-axis", "Z-axis", "Channel 3", "Channel 4"}
	if len(specs) != len(want) {
		t.Fatalf("got %d channels, want %d", len(specs), len(want))
	}
	for i, s := range specs {
		if s.Label != want[i] {
			t.Errorf("channel %d = %q, want %q", i, s.Label, want[i])
		}
	}

	if n := len(Resolve(CategoryRotationVector, 1)); n != 3 {
		t.Errorf("short rotation vector: got %d channels, want 3", n)
	}
}

func TestResolveNegativeLength(t *testing.T) {
	if specs := Resolve(CategoryUnknown, -3); len(specs) != 0 {
		t.Errorf("got %d channels for negative length", len(specs))
	}
}
