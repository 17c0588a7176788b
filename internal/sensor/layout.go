package sensor

import "strconv"

// ChannelSpec describes one plotted component of a sensor reading.
type ChannelSpec struct {
	Label      string
	Unit       string
	ColorIndex int
	Visible    bool
}

var (
	axisLabels        = []string{"X-axis", "Y-axis", "Z-axis"}
	orientationLabels = []string{"Azimuth", "Pitch", "Roll"}
)

// Resolve returns the channel layout for a sensor category. vectorLength is
// the number of values in the first sample; it only matters for categories
// whose layout depends on it (rotation vector and unknown categories).
func Resolve(category Category, vectorLength int) []ChannelSpec {
	if vectorLength < 0 {
		vectorLength = 0
	}

	switch category {
	case CategoryAccelerometer, CategoryGravity, CategoryLinearAcceleration:
		return labeled(axisLabels, "m/s²")
	case CategoryMagneticField:
		return labeled(axisLabels, "µT")
	case CategoryGyroscope:
		return labeled(axisLabels, "rad/s")
	case CategoryOrientation:
		return labeled(orientationLabels, "°")
	case CategoryRotationVector:
		n := vectorLength
		if n < len(axisLabels) {
			n = len(axisLabels)
		}
		specs := generic(n)
		for i, l := range axisLabels {
			specs[i].Label = l
		}
		return specs
	case CategoryLight:
		return labeled([]string{"Illuminance"}, "lx")
	case CategoryPressure:
		return labeled([]string{"Pressure"}, "hPa")
	case CategoryProximity:
		return labeled([]string{"Distance"}, "cm")
	case CategoryTemperature, CategoryAmbientTemperature:
		return labeled([]string{"Temperature"}, "°C")
	case CategorySignalStrength:
		return labeled([]string{"Signal"}, "dBm")
	}

	return generic(vectorLength)
}

// Unit returns the physical unit shared by the channels of a layout.
func Unit(specs []ChannelSpec) string {
	if len(specs) == 0 {
		return ""
	}
	return specs[0].Unit
}

func labeled(labels []string, unit string) []ChannelSpec {
	specs := make([]ChannelSpec, len(labels))
	for i, l := range labels {
		specs[i] = ChannelSpec{Label: l, Unit: unit, ColorIndex: i, Visible: true}
	}
	return specs
}

func generic(n int) []ChannelSpec {
	specs := make([]ChannelSpec, n)
	for i := range specs {
		specs[i] = ChannelSpec{Label: "Channel " + strconv.Itoa(i), ColorIndex: i, Visible: true}
	}
	return specs
}
