package score

import (
	"math"
	"strconv"
	"strings"
)

// Metric is one named value of a Record.
type Metric struct {
	Name  string
	Value float64
}

// Record is the ordered set of metric values computed for one subset.
type Record []Metric

// NaNRecord returns a record with every named metric set to NaN.
func NaNRecord(names []string) Record {
	r := make(Record, len(names))
	for i, name := range names {
		r[i] = Metric{Name: name, Value: math.NaN()}
	}

	return r
}

// Get returns the value of the named metric.
func (r Record) Get(name string) (float64, bool) {
	for _, m := range r {
		if m.Name == name {
			return m.Value, true
		}
	}

	return math.NaN(), false
}

// Names returns the metric names in record order.
func (r Record) Names() []string {
	names := make([]string, len(r))
	for i, m := range r {
		names[i] = m.Name
	}

	return names
}

// AllNaN reports whether every metric is NaN. An empty record is all-NaN.
func (r Record) AllNaN() bool {
	for _, m := range r {
		if !math.IsNaN(m.Value) {
			return false
		}
	}

	return true
}

// HasNaN reports whether any metric is NaN.
func (r Record) HasNaN() bool {
	for _, m := range r {
		if math.IsNaN(m.Value) {
			return true
		}
	}

	return false
}

// Clone returns an independent copy of r.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	c := make(Record, len(r))
	copy(c, r)

	return c
}

// Map returns the record as a name → value map.
func (r Record) Map() map[string]float64 {
	m := make(map[string]float64, len(r))
	for _, metric := range r {
		m[metric.Name] = metric.Value
	}

	return m
}

// Equal reports whether both records have the same names in the same order
// and identical values, treating NaN as equal to NaN.
func (r Record) Equal(other Record) bool {
	if len(r) != len(other) {
		return false
	}
	for i := range r {
		if r[i].Name != other[i].Name {
			return false
		}
		a, b := r[i].Value, other[i].Value
		if math.IsNaN(a) && math.IsNaN(b) {
			continue
		}
		if a != b {
			return false
		}
	}

	return true
}

// String returns "NAME=value" pairs separated by spaces.
func (r Record) String() string {
	var sb strings.Builder
	for i, m := range r {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(m.Name)
		sb.WriteByte('=')
		sb.WriteString(strconv.FormatFloat(m.Value, 'g', 6, 64))
	}

	return sb.String()
}
