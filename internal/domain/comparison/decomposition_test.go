package comparison

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/AutoCompare-Intelligence/internal/domain/vehicle"
)

func corolla() *vehicle.Record {
	return &vehicle.Record{
		Make: "Toyota", Model: "Corolla", Version: "LE", Year: "2024",
		TransactionPrice: vehicle.Float(420000), Horsepower: vehicle.Float(169), EquipScore: vehicle.Float(62),
		FuelCategory: "Gasolina",
	}
}

func civic() *vehicle.Record {
	return &vehicle.Record{
		Make: "Honda", Model: "Civic", Version: "Touring", Year: "2024",
		TransactionPrice: vehicle.Float(445000), Horsepower: vehicle.Float(180), EquipScore: vehicle.Float(70),
		FuelCategory: "Gasolina",
	}
}

func factors(cs []Contribution) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Factor
	}
	return out
}

func TestDecompose_CorollaVsCivicHeuristic(t *testing.T) {
	t.Parallel()

	d := NewDecomposer(DefaultDecomposeParams())
	decs, model := d.Decompose(corolla(), []*vehicle.Record{civic()})

	require.Len(t, decs, 1)
	assert.Equal(t, MethodHeuristic, model.Method)
	assert.Contains(t, model.Reason, "fewer training rows")

	dec := decs[0]
	ref := 420000.0 / 169
	assert.Equal(t, "HONDA|CIVIC|TOURING|2024", dec.CompetitorKey)
	assert.Equal(t, 25000.0, dec.TotalDelta)
	assert.InDelta(t, ref, dec.ReferenceCostPerHP, 1e-9)
	assert.InDelta(t, 3125, dec.EquipSlope, 1e-9)

	require.Equal(t, []string{FactorHP, FactorEquipment}, factors(dec.Contributions))
	assert.InDelta(t, 11*ref, dec.Contributions[0].Amount, 1e-6)
	assert.InDelta(t, 25000, dec.Contributions[1].Amount, 1e-6)
	assert.InDelta(t, 25000, dec.Explained()+dec.Residual, 1e-6)
	assert.InDelta(t, -11*ref, dec.Residual, 1e-6)

	wf := dec.Waterfall()
	assert.Equal(t, []string{FactorHP, FactorEquipment, FactorUnexplained}, factors(wf))
}

func TestReferenceCostPerHP_Fallbacks(t *testing.T) {
	t.Parallel()

	d := NewDecomposer(DecomposeParams{FallbackCostPerHP: 1800})

	noBaseHP := corolla()
	noBaseHP.Horsepower = nil
	comp := civic()
	other := &vehicle.Record{MSRP: vehicle.Float(300000), Horsepower: vehicle.Float(150)}
	mean := (445000.0/180 + 2000) / 2
	assert.InDelta(t, mean, d.ReferenceCostPerHP(noBaseHP, []*vehicle.Record{noBaseHP, comp, other}), 1e-9)

	bare := &vehicle.Record{}
	assert.Equal(t, 1800.0, d.ReferenceCostPerHP(bare, []*vehicle.Record{bare}))
	assert.Equal(t, DefaultFallbackCostPerHP, NewDecomposer(DecomposeParams{}).ReferenceCostPerHP(nil, nil))
}

func TestDecompose_SkipsCompetitorsWithoutPrice(t *testing.T) {
	t.Parallel()

	noPrice := civic()
	noPrice.TransactionPrice = nil
	decs, _ := NewDecomposer(DefaultDecomposeParams()).Decompose(corolla(), []*vehicle.Record{noPrice})
	assert.Empty(t, decs)
}

type synth struct {
	hp, equip, warranty float64
	fuel, drive, cab    string
}

// syntheticSet prices every vehicle with price = 3·hp + 500·equip + 10000.
func syntheticSet() []*vehicle.Record {
	rows := []synth{
		{150, 60, 3, "Gasolina", "Delantera", ""},
		{200, 70, 5, "Gasolina", "Delantera", ""},
		{180, 55, 4, "Gasolina", "4x4", ""},
		{300, 80, 8, "Eléctrico", "Delantera", ""},
		{250, 75, 6, "PHEV", "Delantera", ""},
		{190, 72, 5, "Híbrido", "Delantera", ""},
		{170, 50, 3, "Diésel", "Delantera", ""},
		{220, 65, 5, "Gasolina", "4x4", "Doble cabina"},
		{160, 58, 4, "Diésel", "Delantera", "Doble cabina"},
		{140, 40, 3, "Gasolina", "Trasera", "Chasis cabina"},
		{130, 45, 2, "Gasolina", "Trasera", "Cabina sencilla"},
		{175, 52, 3, "Diésel", "4x4", "Cabina sencilla"},
		{160, 66, 4, "Gasolina", "Delantera", ""},
		{210, 78, 6, "Híbrido", "4x4", ""},
		{240, 85, 7, "Gasolina", "Delantera", ""},
		{120, 35, 2, "Gasolina", "Delantera", ""},
	}
	out := make([]*vehicle.Record, 0, len(rows))
	for i, r := range rows {
		out = append(out, &vehicle.Record{
			Make: "Synth", Model: "M", Version: fmt.Sprintf("V%02d", i+1), Year: "2024",
			Horsepower: vehicle.Float(r.hp), EquipScore: vehicle.Float(r.equip), WarrantyScore: vehicle.Float(r.warranty),
			FuelCategory: r.fuel, Drivetrain: r.drive, CabType: r.cab,
			TransactionPrice: vehicle.Float(3*r.hp + 500*r.equip + 10000),
		})
	}
	return out
}

func TestFit_RecoversHedonicCoefficients(t *testing.T) {
	t.Parallel()

	model := NewDecomposer(DefaultDecomposeParams()).Fit(syntheticSet())

	require.Equal(t, MethodRegression, model.Method, model.Reason)
	assert.Equal(t, 16, model.Rows)

	hp, ok := model.Coefficient("hp")
	require.True(t, ok)
	equip, _ := model.Coefficient("equipScore")
	intercept, _ := model.Coefficient("intercept")
	assert.InDelta(t, 3, hp, 1e-4)
	assert.InDelta(t, 500, equip, 1e-3)
	assert.InDelta(t, 10000, intercept, 1e-1)
	for _, col := range ModelColumns[3:] {
		c, _ := model.Coefficient(col)
		assert.InDelta(t, 0, c, 1e-2, col)
	}
}

func TestDecompose_RegressionPathSumsExactly(t *testing.T) {
	t.Parallel()

	set := syntheticSet()
	base, comps := set[0], set[1:]

	decs, model := NewDecomposer(DefaultDecomposeParams()).Decompose(base, comps)
	require.Equal(t, MethodRegression, model.Method)
	require.Len(t, decs, len(comps))

	for _, dec := range decs {
		assert.Equal(t, MethodRegression, dec.Method)
		assert.Equal(t,
			[]string{FactorHP, FactorEquipment, Factor4x4, FactorFuel, FactorCab, FactorWarranty, FactorUnexplained},
			factors(dec.Waterfall()))
		assert.InDelta(t, dec.TotalDelta, dec.Explained()+dec.Residual, 1e-6, dec.CompetitorKey)
	}
}

func TestFit_SingularFallsBack(t *testing.T) {
	t.Parallel()

	var set []*vehicle.Record
	for i := 0; i < 13; i++ {
		set = append(set, &vehicle.Record{
			Version:          fmt.Sprintf("G%d", i),
			TransactionPrice: vehicle.Float(300000 + float64(i)*5000),
			Horsepower:       vehicle.Float(120 + float64(i)*7),
			EquipScore:       vehicle.Float(50 + float64(i%5)),
			FuelCategory:     "Gasolina",
		})
	}
	model := NewDecomposer(DefaultDecomposeParams()).Fit(set)
	assert.Equal(t, MethodHeuristic, model.Method)
	assert.Equal(t, ErrSingularSystem.Error(), model.Reason)
	assert.Nil(t, model.Coefficients)

	decs, _ := NewDecomposer(DefaultDecomposeParams()).Decompose(set[0], set[1:])
	for _, dec := range decs {
		assert.Len(t, dec.Contributions, 2)
		assert.InDelta(t, dec.TotalDelta, dec.Explained()+dec.Residual, 1e-6)
	}
}

func TestDesignRow(t *testing.T) {
	t.Parallel()

	row := DesignRow(&vehicle.Record{
		Horsepower: vehicle.Float(200), EquipScore: vehicle.Float(66), WarrantyScore: vehicle.Float(5),
		FuelCategory: "Diésel", Drivetrain: "4x4", CabType: "Doble cabina",
	})
	assert.Equal(t, []float64{1, 200, 66, 1, 0, 0, 0, 1, 1, 0, 0, 5}, row)
}
