package chart

import (
	"github.com/turtacn/AutoCompare-Intelligence/internal/domain/comparison"
	"github.com/turtacn/AutoCompare-Intelligence/internal/domain/vehicle"
)

const maxRadarAxes = 6

var radarAxes = map[vehicle.Segment][]vehicle.Pillar{
	vehicle.SegmentSUV: {
		vehicle.PillarADAS, vehicle.PillarSafety, vehicle.PillarComfort,
		vehicle.PillarInfotainment, vehicle.PillarTraction, vehicle.PillarUtility,
	},
	vehicle.SegmentPickup: {
		vehicle.PillarTraction, vehicle.PillarUtility, vehicle.PillarSafety,
		vehicle.PillarADAS, vehicle.PillarComfort, vehicle.PillarInfotainment,
	},
	vehicle.SegmentSedan: {
		vehicle.PillarSafety, vehicle.PillarADAS, vehicle.PillarComfort, vehicle.PillarInfotainment,
	},
	vehicle.SegmentHatchback: {
		vehicle.PillarSafety, vehicle.PillarADAS, vehicle.PillarInfotainment, vehicle.PillarComfort, vehicle.PillarUtility,
	},
	vehicle.SegmentVan: {
		vehicle.PillarUtility, vehicle.PillarComfort, vehicle.PillarSafety, vehicle.PillarADAS, vehicle.PillarInfotainment,
	},
}

// RadarAxes returns the pillar axes shown for a segment, at most six.
func RadarAxes(seg vehicle.Segment) []vehicle.Pillar {
	axes, ok := radarAxes[seg]
	if !ok {
		axes = vehicle.AllPillars
	}
	if len(axes) > maxRadarAxes {
		axes = axes[:maxRadarAxes]
	}
	return append([]vehicle.Pillar(nil), axes...)
}

// RadarAxis is one spoke of the radar.
type RadarAxis struct {
	Pillar vehicle.Pillar `json:"pillar"`
	Name   string         `json:"name"`
	Max    float64        `json:"max"`
}

// Radar is a pillar-score radar for the base and its competitors.
type Radar struct {
	Segment vehicle.Segment `json:"segment"`
	Axes    []RadarAxis     `json:"axes"`
	Series  []Series        `json:"series"`
}

// BuildRadar picks axes from the base vehicle's segment and emits one series
// per vehicle with its pillar scores (0 when missing).
func BuildRadar(base *vehicle.Record, comps []*vehicle.Record, styles *Styles) Radar {
	seg := vehicle.SegmentOther
	if base != nil {
		seg = vehicle.ClassifySegment(base)
	}
	pillars := RadarAxes(seg)
	r := Radar{Segment: seg}
	for _, p := range pillars {
		r.Axes = append(r.Axes, RadarAxis{Pillar: p, Name: comparison.PillarLabel(p), Max: 100})
	}

	all := make([]*vehicle.Record, 0, len(comps)+1)
	if base != nil {
		all = append(all, base)
	}
	all = append(all, comps...)
	for _, v := range all {
		if v == nil {
			continue
		}
		s := Series{Name: v.Label(), Kind: KindRadar, Color: styles.Color(v), Symbol: styles.Symbol(v)}
		for _, p := range pillars {
			val, _ := v.PillarValue(p)
			s.Values = append(s.Values, val)
		}
		r.Series = append(r.Series, s)
	}
	return r
}
