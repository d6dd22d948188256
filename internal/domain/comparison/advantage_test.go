package comparison

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/AutoCompare-Intelligence/internal/domain/vehicle"
)

func advantageFixture() (*vehicle.Record, *vehicle.Record) {
	base := corolla()
	base.MSRP = vehicle.Float(450000)
	base.Bonus = vehicle.Float(10000)
	base.Flags = vehicle.FeatureFlagSet{"aeb": true}
	base.Pillars = map[vehicle.Pillar]float64{vehicle.PillarComfort: 60}

	comp := civic()
	comp.MSRP = vehicle.Float(460000)
	comp.Bonus = vehicle.Float(20000)
	comp.Flags = vehicle.FeatureFlagSet{"sunroof": true}
	comp.Pillars = map[vehicle.Pillar]float64{vehicle.PillarComfort: 70}
	return base, comp
}

func labels(rows []AdvantageRow) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Label
	}
	return out
}

func TestComputeAdvantageSections_Upsides(t *testing.T) {
	t.Parallel()

	base, comp := advantageFixture()
	secs := ComputeAdvantageSections(base, []*vehicle.Record{comp}, ModeUpsides, nil)

	require.Len(t, secs, 1)
	assert.Equal(t, "HONDA|CIVIC|TOURING|2024", secs[0].CompetitorKey)
	assert.Equal(t, "Honda Civic Touring 2024", secs[0].CompetitorLabel)
	assert.Equal(t, []string{"Transaction price", "MSRP", aebLabel}, labels(secs[0].Rows))
	for _, r := range secs[0].Rows {
		assert.True(t, r.DirectionFavorsBase)
	}
	assert.Equal(t, 25000.0, secs[0].Rows[0].Magnitude)
	assert.Equal(t, 1.0, secs[0].Rows[2].Magnitude)
}

func TestComputeAdvantageSections_Gaps(t *testing.T) {
	t.Parallel()

	base, comp := advantageFixture()
	secs := ComputeAdvantageSections(base, []*vehicle.Record{comp}, ModeGaps, NewDiffer(nil))

	require.Len(t, secs, 1)
	assert.Equal(t, []string{"Bonus", "Comfort score", "Sunroof"}, labels(secs[0].Rows))
	for _, r := range secs[0].Rows {
		assert.False(t, r.DirectionFavorsBase)
	}
	assert.Equal(t, RowMetric, secs[0].Rows[0].Kind)
	assert.Equal(t, RowPillar, secs[0].Rows[1].Kind)
	assert.Equal(t, RowFeature, secs[0].Rows[2].Kind)
}

func TestTruncateSections(t *testing.T) {
	t.Parallel()

	rows := make([]AdvantageRow, 20)
	for i := range rows {
		rows[i] = AdvantageRow{Label: "r", Magnitude: float64(20 - i)}
	}
	var secs []AdvantageSection
	for i := 0; i < 5; i++ {
		secs = append(secs, AdvantageSection{CompetitorKey: string(rune('A' + i)), Rows: rows})
	}

	out := TruncateSections(secs, 3, 12)
	require.Len(t, out, 3)
	for _, s := range out {
		assert.Len(t, s.Rows, 12)
	}
	assert.Len(t, secs[0].Rows, 20, "input untouched")

	assert.Len(t, TruncateSections(secs, 0, 0), 5)
	assert.Len(t, TruncateSections(secs, 0, 0)[0].Rows, 20)
}

func TestParseMode(t *testing.T) {
	t.Parallel()

	m, err := ParseMode(" Gaps ")
	require.NoError(t, err)
	assert.Equal(t, ModeGaps, m)

	m, err = ParseMode("upsides")
	require.NoError(t, err)
	assert.Equal(t, ModeUpsides, m)

	_, err = ParseMode("both")
	assert.Error(t, err)
}
