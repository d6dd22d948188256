package compare

import (
	"time"

	"github.com/turtacn/AutoCompare-Intelligence/internal/domain/chart"
	"github.com/turtacn/AutoCompare-Intelligence/internal/domain/comparison"
	"github.com/turtacn/AutoCompare-Intelligence/internal/domain/vehicle"
)

// Report is the full output of one comparison run.
type Report struct {
	ID          string    `json:"id"`
	GeneratedAt time.Time `json:"generatedAt"`

	BaseKey     string            `json:"baseKey"`
	Base        *vehicle.Record   `json:"base"`
	Competitors []*vehicle.Record `json:"competitors"`
	Skipped     []string          `json:"skipped,omitempty"`

	Comparisons    []*comparison.Result       `json:"comparisons"`
	Model          *comparison.PriceModel     `json:"model"`
	Decompositions []comparison.Decomposition `json:"decompositions"`

	Upsides []comparison.AdvantageSection `json:"upsides"`
	Gaps    []comparison.AdvantageSection `json:"gaps"`

	Charts     Charts                 `json:"charts"`
	FuelPrices vehicle.FuelPriceTable `json:"fuelPrices"`
}

// relink restores the record pointers of each comparison, which are not
// part of the JSON form, after a report was decoded from the cache.
func (r *Report) relink() {
	byKey := make(map[string]*vehicle.Record, len(r.Competitors))
	for _, c := range r.Competitors {
		byKey[vehicle.KeyForRow(c)] = c
	}
	for _, res := range r.Comparisons {
		if res == nil {
			continue
		}
		res.Base = r.Base
		res.Competitor = byKey[res.CompetitorKey]
	}
}

// Charts groups the renderer-agnostic chart payloads of a report.
type Charts struct {
	PriceVsScore      chart.Chart                     `json:"priceVsScore"`
	PriceVsHorsepower chart.Chart                     `json:"priceVsHorsepower"`
	Waterfalls        map[string][]chart.WaterfallBar `json:"waterfalls"`
	Radar             chart.Radar                     `json:"radar"`
}

// Explanation is the price-gap breakdown alone.
type Explanation struct {
	ID             string                          `json:"id"`
	BaseKey        string                          `json:"baseKey"`
	Model          *comparison.PriceModel          `json:"model"`
	Decompositions []comparison.Decomposition      `json:"decompositions"`
	Waterfalls     map[string][]chart.WaterfallBar `json:"waterfalls"`
	Skipped        []string                        `json:"skipped,omitempty"`
}
