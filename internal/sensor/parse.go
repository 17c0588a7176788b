package sensor

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrEmptyLine is returned by ParseLine for blank lines and comments.
var ErrEmptyLine = errors.New("empty line")

type jsonSample struct {
	Category json.RawMessage `json:"category"`
	Values   []float64       `json:"values"`
	Accuracy *int            `json:"accuracy"`
}

// ParseLine decodes one textual sample. Two forms are accepted:
//
//	{"category":"gyroscope","values":[0.1,0.2,0.3],"accuracy":3}
//	0.1 0.2 0.3            (or comma separated)
//
// The plain form uses fallback as its category and reports high accuracy.
func ParseLine(line string, fallback Category) (RawSample, error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return RawSample{}, ErrEmptyLine
	}

	if strings.HasPrefix(line, "{") {
		return parseJSON(line, fallback)
	}

	fields := strings.FieldsFunc(line, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\t'
	})
	values := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return RawSample{}, fmt.Errorf("parse value %q: %w", f, err)
		}
		values = append(values, v)
	}
	if len(values) == 0 {
		return RawSample{}, ErrEmptyLine
	}
	return RawSample{Category: fallback, Values: values, Accuracy: AccuracyHigh}, nil
}

func parseJSON(line string, fallback Category) (RawSample, error) {
	var js jsonSample
	if err := json.Unmarshal([]byte(line), &js); err != nil {
		return RawSample{}, fmt.Errorf("parse json sample: %w", err)
	}
	if len(js.Values) == 0 {
		return RawSample{}, fmt.Errorf("parse json sample: no values")
	}

	s := RawSample{Category: fallback, Values: js.Values, Accuracy: AccuracyHigh}
	if js.Accuracy != nil {
		s.Accuracy = Accuracy(*js.Accuracy)
	}
	if len(js.Category) > 0 {
		raw := strings.Trim(string(js.Category), `"`)
		cat, ok := ParseCategory(raw)
		if !ok {
			return RawSample{}, fmt.Errorf("parse json sample: unknown category %q", raw)
		}
		s.Category = cat
	}
	return s, nil
}
