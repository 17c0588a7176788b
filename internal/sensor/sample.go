package sensor

import (
	"strconv"
	"strings"
)

// Category identifies the kind of hardware sensor a sample came from.
// Values match the numeric sensor type ids used by mobile platforms so that
// external producers can send them verbatim.
type Category int

const (
	CategoryUnknown            Category = 0
	CategoryAccelerometer      Category = 1
	CategoryMagneticField      Category = 2
	CategoryOrientation        Category = 3
	CategoryGyroscope          Category = 4
	CategoryLight              Category = 5
	CategoryPressure           Category = 6
	CategoryTemperature        Category = 7
	CategoryProximity          Category = 8
	CategoryGravity            Category = 9
	CategoryLinearAcceleration Category = 10
	CategoryRotationVector     Category = 11
	CategoryAmbientTemperature Category = 13

	// CategorySignalStrength is a radio RSSI reading (BLE, WiFi).
	CategorySignalStrength Category = 1000
)

var categoryNames = map[Category]string{
	CategoryAccelerometer:      "accelerometer",
	CategoryMagneticField:      "magnetic_field",
	CategoryOrientation:        "orientation",
	CategoryGyroscope:          "gyroscope",
	CategoryLight:              "light",
	CategoryPressure:           "pressure",
	CategoryTemperature:        "temperature",
	CategoryProximity:          "proximity",
	CategoryGravity:            "gravity",
	CategoryLinearAcceleration: "linear_acceleration",
	CategoryRotationVector:     "rotation_vector",
	CategoryAmbientTemperature: "ambient_temperature",
	CategorySignalStrength:     "signal_strength",
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "sensor_" + strconv.Itoa(int(c))
}

// Categories returns all known categories in id order.
func Categories() []Category {
	return []Category{
		CategoryAccelerometer,
		CategoryMagneticField,
		CategoryOrientation,
		CategoryGyroscope,
		CategoryLight,
		CategoryPressure,
		CategoryTemperature,
		CategoryProximity,
		CategoryGravity,
		CategoryLinearAcceleration,
		CategoryRotationVector,
		CategoryAmbientTemperature,
		CategorySignalStrength,
	}
}

// ParseCategory accepts a category name ("gyroscope", "linear-acceleration")
// or a numeric id. Numeric ids that are not known still parse; they resolve
// to the generic channel layout.
func ParseCategory(s string) (Category, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "-", "_")
	if n, err := strconv.Atoi(s); err == nil {
		return Category(n), true
	}
	for c, name := range categoryNames {
		if name == s {
			return c, true
		}
	}
	return CategoryUnknown, false
}

// Accuracy is the hardware accuracy status attached to a sample.
type Accuracy int

const (
	AccuracyUnreliable Accuracy = 0
	AccuracyLow        Accuracy = 1
	AccuracyMedium     Accuracy = 2
	AccuracyHigh       Accuracy = 3
)

// Label maps the accuracy code to the status text shown above the chart.
// Any unrecognized or negative code reads as unreliable.
func (a Accuracy) Label() string {
	switch a {
	case AccuracyHigh:
		return "Sensor accuracy: high"
	case AccuracyMedium:
		return "Sensor accuracy: medium"
	case AccuracyLow:
		return "Sensor accuracy: low"
	default:
		return "Sensor accuracy: unreliable"
	}
}

// RawSample is one reading as delivered by a Source.
type RawSample struct {
	Category Category
	Values   []float64
	Accuracy Accuracy
	Seq      uint64 // Arrival number, assigned by Latest.Put
}
