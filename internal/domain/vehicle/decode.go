package vehicle

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cast"
)

// squash folds a column name for alias matching: "Transaction_Price",
// "transactionPrice" and "transaction price" all become "transactionprice".
func squash(key string) string {
	k := FoldText(key)
	return strings.NewReplacer("_", "", "-", "", " ", "", ".", "").Replace(k)
}

type numberAlias struct {
	aliases []string
	field   func(*Record) **float64
}

type textAlias struct {
	aliases []string
	field   func(*Record) *string
}

var numberAliases = []numberAlias{
	{[]string{"msrp", "preciolista", "listprice", "precio"}, func(r *Record) **float64 { return &r.MSRP }},
	{[]string{"transactionprice", "preciotransaccion", "txprice", "precioreal"}, func(r *Record) **float64 { return &r.TransactionPrice }},
	{[]string{"bonus", "bono", "incentive"}, func(r *Record) **float64 { return &r.Bonus }},
	{[]string{"horsepower", "hp", "caballosfuerza", "potenciahp", "potencia"}, func(r *Record) **float64 { return &r.Horsepower }},
	{[]string{"lengthmm", "longitudmm", "largomm"}, func(r *Record) **float64 { return &r.LengthMm }},
	{[]string{"widthmm", "anchomm"}, func(r *Record) **float64 { return &r.WidthMm }},
	{[]string{"heightmm", "altomm", "alturamm"}, func(r *Record) **float64 { return &r.HeightMm }},
	{[]string{"kmperliter", "kml", "rendimientokml", "combinedkml", "fuelefficiencykml", "rendimiento"}, func(r *Record) **float64 { return &r.KmPerLiter }},
	{[]string{"kwhper100km", "kwh100km", "consumokwh100km", "energyconsumption"}, func(r *Record) **float64 { return &r.KWhPer100Km }},
	{[]string{"energycost60k", "costoenergia60k", "fuelcost60k", "costocombustible60k"}, func(r *Record) **float64 { return &r.EnergyCost60k }},
	{[]string{"servicecost", "servicecost60k", "costoservicio60k", "costoservicio"}, func(r *Record) **float64 { return &r.ServiceCost }},
	{[]string{"tco", "tco60k", "totalcostofownership", "costototal"}, func(r *Record) **float64 { return &r.TCO }},
	{[]string{"equipscore", "scoreequipamiento", "equipmentscore"}, func(r *Record) **float64 { return &r.EquipScore }},
	{[]string{"salesmonthly", "ventasmensuales", "salesmonth", "ventasmes"}, func(r *Record) **float64 { return &r.SalesMonthly }},
	{[]string{"salesytd", "ventasytd", "ventasacumuladas"}, func(r *Record) **float64 { return &r.SalesYTD }},
	{[]string{"warrantyscore", "scoregarantia", "warrantyyears", "garantiaanos"}, func(r *Record) **float64 { return &r.WarrantyScore }},
	{[]string{"costperhp", "costoporhp"}, func(r *Record) **float64 { return &r.CostPerHP }},
}

var textAliases = []textAlias{
	{[]string{"make", "marca", "brand"}, func(r *Record) *string { return &r.Make }},
	{[]string{"model", "modelo"}, func(r *Record) *string { return &r.Model }},
	{[]string{"version", "trim"}, func(r *Record) *string { return &r.Version }},
	{[]string{"fuelcategory", "categoriacombustible", "combustible", "fueltype", "tipocombustible"}, func(r *Record) *string { return &r.FuelCategory }},
	{[]string{"segment", "segmento", "segmentoventas"}, func(r *Record) *string { return &r.Segment }},
	{[]string{"bodystyle", "carroceria", "bodytype", "tipocarroceria"}, func(r *Record) *string { return &r.BodyStyle }},
	{[]string{"drivetrain", "traccion", "drivenwheels"}, func(r *Record) *string { return &r.Drivetrain }},
	{[]string{"cabtype", "cabina", "tipocabina"}, func(r *Record) *string { return &r.CabType }},
	{[]string{"description", "descripcion", "equipmenttext", "equipamientotexto", "featuretext", "notes"}, func(r *Record) *string { return &r.Description }},
}

var yearAliases = []string{"year", "ano", "modelyear", "anomodelo"}

var pillarAliases = map[string]Pillar{
	"adas":                PillarADAS,
	"safety":              PillarSafety,
	"seguridad":           PillarSafety,
	"comfort":             PillarComfort,
	"confort":             PillarComfort,
	"infotainment":        PillarInfotainment,
	"info":                PillarInfotainment,
	"infoentretenimiento": PillarInfotainment,
	"traction":            PillarTraction,
	"utility":             PillarUtility,
	"utilidad":            PillarUtility,
}

var pillarPrefixes = []string{"pillar", "equipp", "score"}

// structural keys decoded into dedicated fields rather than Columns.
var structuralKeys = map[string]bool{
	"pillars": true, "specs": true, "especificaciones": true, "features": true,
	"featurelist": true, "equipamiento": true, "diffs": true, "featuresplus": true,
	"featuresminus": true, "columns": true, "flags": true,
}

// DecodeRecord maps a loosely keyed source row onto a Record. Keys are matched
// case-, accent- and separator-insensitively against known aliases; numeric
// values pass through ParseNumberLike. Unrecognised keys land in Columns.
func DecodeRecord(raw map[string]any) *Record {
	r := &Record{}
	if raw == nil {
		return r
	}

	index := make(map[string]string, len(raw))
	for k := range raw {
		sq := squash(k)
		if _, dup := index[sq]; !dup || k < index[sq] {
			index[sq] = k
		}
	}
	consumed := make(map[string]bool, len(raw))

	lookup := func(aliases []string) (string, any, bool) {
		for _, a := range aliases {
			if orig, ok := index[a]; ok {
				return orig, raw[orig], true
			}
		}
		return "", nil, false
	}

	for _, na := range numberAliases {
		for _, a := range na.aliases {
			orig, ok := index[a]
			if !ok {
				continue
			}
			consumed[orig] = true
			if p := ParseNumberPtr(raw[orig]); p != nil && *na.field(r) == nil {
				*na.field(r) = p
			}
		}
	}
	for _, ta := range textAliases {
		for _, a := range ta.aliases {
			orig, ok := index[a]
			if !ok {
				continue
			}
			consumed[orig] = true
			if s := strings.TrimSpace(cast.ToString(raw[orig])); s != "" && *ta.field(r) == "" {
				*ta.field(r) = s
			}
		}
	}
	if orig, v, ok := lookup(yearAliases); ok {
		consumed[orig] = true
		r.Year = ParseYear(v)
	}

	r.Pillars = decodePillars(raw, index, consumed)

	if orig, v, ok := lookup([]string{"specs", "especificaciones"}); ok {
		consumed[orig] = true
		if m, err := cast.ToStringMapE(v); err == nil && len(m) > 0 {
			r.Specs = m
		}
	}
	if orig, v, ok := lookup([]string{"features", "featurelist", "equipamiento"}); ok {
		consumed[orig] = true
		r.FeatureList = decodeFeatureList(v)
	}
	r.PrecomputedDiff = decodeDiff(raw, index, consumed)

	if orig, v, ok := lookup([]string{"flags"}); ok {
		consumed[orig] = true
		if m, err := cast.ToStringMapE(v); err == nil {
			for k, fv := range m {
				if NormalizeBoolean(fv) {
					if r.Flags == nil {
						r.Flags = FeatureFlagSet{}
					}
					r.Flags[k] = true
				}
			}
		}
	}

	if orig, v, ok := lookup([]string{"columns"}); ok {
		consumed[orig] = true
		if m, err := cast.ToStringMapE(v); err == nil {
			for k, cv := range m {
				r.setColumn(k, cv)
			}
		}
	}
	for k, v := range raw {
		if consumed[k] || structuralKeys[squash(k)] {
			continue
		}
		r.setColumn(k, v)
	}
	return r
}

func (r *Record) setColumn(k string, v any) {
	if r.Columns == nil {
		r.Columns = make(map[string]any)
	}
	r.Columns[k] = v
}

func decodePillars(raw map[string]any, index map[string]string, consumed map[string]bool) map[Pillar]float64 {
	out := map[Pillar]float64{}
	if orig, ok := index["pillars"]; ok {
		consumed[orig] = true
		if m, err := cast.ToStringMapE(raw[orig]); err == nil {
			for k, v := range m {
				if p, ok := pillarAliases[squash(k)]; ok {
					if n, ok := ParseNumberLike(v); ok {
						out[p] = n
					}
				}
			}
		}
	}
	for sq, orig := range index {
		for _, prefix := range pillarPrefixes {
			name := strings.TrimPrefix(sq, prefix)
			if name == sq {
				continue
			}
			p, ok := pillarAliases[name]
			if !ok {
				continue
			}
			consumed[orig] = true
			if _, set := out[p]; set {
				continue
			}
			if n, ok := ParseNumberLike(raw[orig]); ok {
				out[p] = n
			}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func decodeFeatureList(v any) []FeatureItem {
	items, err := cast.ToSliceE(v)
	if err != nil {
		return nil
	}
	out := make([]FeatureItem, 0, len(items))
	for _, it := range items {
		switch t := it.(type) {
		case string:
			name, value, _ := strings.Cut(t, ":")
			out = append(out, FeatureItem{Name: strings.TrimSpace(name), Value: strings.TrimSpace(value)})
		default:
			m, err := cast.ToStringMapE(t)
			if err != nil {
				continue
			}
			item := FeatureItem{}
			for k, fv := range m {
				switch squash(k) {
				case "name", "nombre", "feature", "label":
					item.Name = strings.TrimSpace(cast.ToString(fv))
				case "value", "valor":
					item.Value = strings.TrimSpace(cast.ToString(fv))
				}
			}
			if item.Name != "" {
				out = append(out, item)
			}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func decodeDiff(raw map[string]any, index map[string]string, consumed map[string]bool) *FeatureDiff {
	var d FeatureDiff
	found := false
	if orig, ok := index["diffs"]; ok {
		consumed[orig] = true
		if m, err := cast.ToStringMapE(raw[orig]); err == nil {
			if p, ok := m["plus"]; ok {
				d.Plus, found = cast.ToStringSlice(p), true
			}
			if mi, ok := m["minus"]; ok {
				d.Minus, found = cast.ToStringSlice(mi), true
			}
		}
	}
	if orig, ok := index["featuresplus"]; ok {
		consumed[orig] = true
		d.Plus, found = cast.ToStringSlice(raw[orig]), true
	}
	if orig, ok := index["featuresminus"]; ok {
		consumed[orig] = true
		d.Minus, found = cast.ToStringSlice(raw[orig]), true
	}
	if !found {
		return nil
	}
	return &d
}

// UnmarshalJSON decodes a loosely keyed JSON object through DecodeRecord.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("vehicle: decode record: %w", err)
	}
	*r = *DecodeRecord(raw)
	return nil
}
