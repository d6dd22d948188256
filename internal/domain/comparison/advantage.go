package comparison

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/turtacn/AutoCompare-Intelligence/internal/domain/vehicle"
)

// Mode selects which side of the comparison an advantage section lists.
type Mode string

const (
	// ModeUpsides lists where the base beats the competitor.
	ModeUpsides Mode = "upsides"
	// ModeGaps lists where the competitor beats the base.
	ModeGaps Mode = "gaps"
)

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeUpsides:
		return ModeUpsides, nil
	case ModeGaps:
		return ModeGaps, nil
	}
	return "", fmt.Errorf("comparison: unknown advantage mode %q", s)
}

// RowKind tells feature rows from numeric rows.
type RowKind string

const (
	RowFeature RowKind = "feature"
	RowMetric  RowKind = "metric"
	RowPillar  RowKind = "pillar"
)

// AdvantageRow is one ranked difference.
type AdvantageRow struct {
	Label               string  `json:"label"`
	Kind                RowKind `json:"kind"`
	DirectionFavorsBase bool    `json:"directionFavorsBase"`
	Magnitude           float64 `json:"magnitude"`
	Delta               float64 `json:"delta,omitempty"`
}

// AdvantageSection holds the ranked rows for one competitor.
type AdvantageSection struct {
	CompetitorKey   string         `json:"competitorKey"`
	CompetitorLabel string         `json:"competitorLabel"`
	Rows            []AdvantageRow `json:"rows"`
}

// SectionsFromResults ranks the rows of already computed comparison results.
// Feature rows weigh 1, numeric rows weigh |delta|; rows are sorted by
// magnitude, descending, with ties kept in discovery order.
func SectionsFromResults(results []*Result, mode Mode) []AdvantageSection {
	upsides := mode == ModeUpsides
	out := make([]AdvantageSection, 0, len(results))
	for _, res := range results {
		sec := AdvantageSection{CompetitorKey: res.CompetitorKey, Rows: []AdvantageRow{}}
		if res.Competitor != nil {
			sec.CompetitorLabel = res.Competitor.Label()
		}

		labels := res.FeatureDiffs.Plus
		if upsides {
			labels = res.FeatureDiffs.Minus
		}
		for _, l := range labels {
			sec.Rows = append(sec.Rows, AdvantageRow{Label: l, Kind: RowFeature, DirectionFavorsBase: upsides, Magnitude: 1})
		}

		for _, m := range Metrics {
			d, ok := res.Deltas[m.Key]
			if !ok || d.Delta == 0 {
				continue
			}
			favorsBase := (m.LowerIsBetter && d.Delta > 0) || (!m.LowerIsBetter && d.Delta < 0)
			if favorsBase != upsides {
				continue
			}
			sec.Rows = append(sec.Rows, AdvantageRow{Label: m.Label, Kind: RowMetric, DirectionFavorsBase: favorsBase, Magnitude: math.Abs(d.Delta), Delta: d.Delta})
		}

		for _, p := range vehicle.AllPillars {
			d, ok := res.PillarDeltas[p]
			if !ok || d == 0 {
				continue
			}
			favorsBase := d < 0
			if favorsBase != upsides {
				continue
			}
			sec.Rows = append(sec.Rows, AdvantageRow{Label: PillarLabel(p), Kind: RowPillar, DirectionFavorsBase: favorsBase, Magnitude: math.Abs(d), Delta: d})
		}

		sort.SliceStable(sec.Rows, func(i, j int) bool { return sec.Rows[i].Magnitude > sec.Rows[j].Magnitude })
		out = append(out, sec)
	}
	return out
}

// ComputeAdvantageSections compares each competitor to base and ranks the
// differences for mode. Every row is returned; see TruncateSections.
func ComputeAdvantageSections(base *vehicle.Record, comps []*vehicle.Record, mode Mode, differ *Differ) []AdvantageSection {
	if differ == nil {
		differ = NewDiffer(nil)
	}
	return SectionsFromResults(differ.CompareAll(base, comps), mode)
}

// TruncateSections keeps the first maxSections sections and the first maxRows
// rows of each. Non-positive limits mean unlimited. The input is not modified.
func TruncateSections(sections []AdvantageSection, maxSections, maxRows int) []AdvantageSection {
	n := len(sections)
	if maxSections > 0 && n > maxSections {
		n = maxSections
	}
	out := make([]AdvantageSection, n)
	for i := 0; i < n; i++ {
		out[i] = sections[i]
		rows := sections[i].Rows
		if maxRows > 0 && len(rows) > maxRows {
			rows = rows[:maxRows]
		}
		out[i].Rows = append(make([]AdvantageRow, 0, len(rows)), rows...)
	}
	return out
}

var pillarLabels = map[vehicle.Pillar]string{
	vehicle.PillarADAS:         "ADAS score",
	vehicle.PillarSafety:       "Safety score",
	vehicle.PillarComfort:      "Comfort score",
	vehicle.PillarInfotainment: "Infotainment score",
	vehicle.PillarTraction:     "Traction score",
	vehicle.PillarUtility:      "Utility score",
}

// PillarLabel returns the display label for p.
func PillarLabel(p vehicle.Pillar) string {
	if l, ok := pillarLabels[p]; ok {
		return l
	}
	return string(p)
}
