package timeline

// Config carries the duration constants for building timeline data.
type Config struct {
	UnitMS      float64 // duration of one interpolation step, ms
	AnchorDwell float64 // anchor dwell as a fraction of UnitMS
	EpsilonMS   float64 // boundary epsilon, ms
}

// DefaultConfig returns the canonical duration constants.
func DefaultConfig() Config {
	return Config{UnitMS: 200, AnchorDwell: 0.5, EpsilonMS: 1}
}

// Data is the derived timing of a segment sequence. Built once per
// loaded movie and immutable for its lifetime.
type Data struct {
	Durations  []float64 // per-segment duration, ms
	Cumulative []float64 // running sum, strictly increasing
	Total      float64   // Cumulative[last], 0 for an empty movie
}

// BuildData derives segment durations from the segment shapes: anchor
// segments dwell for a fraction of a unit, non-interpolating fallbacks
// get one unit, interpolating segments one unit per step.
func BuildData(segments []Segment, cfg Config) Data {
	if cfg.UnitMS <= 0 {
		cfg.UnitMS = DefaultConfig().UnitMS
	}
	if cfg.AnchorDwell <= 0 {
		cfg.AnchorDwell = DefaultConfig().AnchorDwell
	}

	d := Data{
		Durations:  make([]float64, len(segments)),
		Cumulative: make([]float64, len(segments)),
	}
	for i, s := range segments {
		switch {
		case s.IsAnchor:
			d.Durations[i] = cfg.AnchorDwell * cfg.UnitMS
		case !s.HasInterpolation:
			d.Durations[i] = cfg.UnitMS
		default:
			d.Durations[i] = float64(s.Steps()) * cfg.UnitMS
		}
		d.Total += d.Durations[i]
		d.Cumulative[i] = d.Total
	}
	return d
}

// SegmentStart returns the start time of segment i in ms.
func (d Data) SegmentStart(i int) float64 {
	if i <= 0 || i >= len(d.Cumulative) {
		if i >= len(d.Cumulative) && len(d.Cumulative) > 0 {
			return d.Cumulative[len(d.Cumulative)-1]
		}
		return 0
	}
	return d.Cumulative[i-1]
}
