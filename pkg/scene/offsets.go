package scene

import (
	"encoding/json"
	"slices"
	"strconv"
)

// Offsets maps a segment index to a perpendicular offset in canvas units.
// Keys are unique; insertion order is irrelevant.
type Offsets map[int]float64

// Clone returns a copy of the map, or nil for an empty one.
func (o Offsets) Clone() Offsets {
	if len(o) == 0 {
		return nil
	}
	out := make(Offsets, len(o))
	for k, v := range o {
		out[k] = v
	}
	return out
}

// Indices returns the segment indices in ascending order.
func (o Offsets) Indices() []int {
	idx := make([]int, 0, len(o))
	for k := range o {
		idx = append(idx, k)
	}
	slices.Sort(idx)
	return idx
}

// UnmarshalJSON decodes an offset map leniently. A corrupt document yields an
// empty map and entries with non-integer keys or non-numeric values are
// dropped; decoding never fails.
func (o *Offsets) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		*o = nil
		return nil
	}
	*o = fromStringMap(raw, func(v json.RawMessage) (float64, bool) {
		var f float64
		if err := json.Unmarshal(v, &f); err != nil {
			return 0, false
		}
		return f, true
	})
	return nil
}

// MarshalJSON encodes the map with string keys.
func (o Offsets) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.stringMap())
}

func (o Offsets) stringMap() map[string]float64 {
	if o == nil {
		return nil
	}
	out := make(map[string]float64, len(o))
	for k, v := range o {
		out[strconv.Itoa(k)] = v
	}
	return out
}

func fromStringMap[V any](raw map[string]V, num func(V) (float64, bool)) Offsets {
	out := make(Offsets)
	for k, v := range raw {
		idx, err := strconv.Atoi(k)
		if err != nil {
			continue
		}
		f, ok := num(v)
		if !ok {
			continue
		}
		out[idx] = f
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
