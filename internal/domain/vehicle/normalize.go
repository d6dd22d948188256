package vehicle

import (
	"encoding/json"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

var falseyTokens = tokenSet("0", "false", "no", "none", "n/a", "na", "-", "null",
	"no disponible", "ninguno", "sin dato", "sin datos")

var truthyTokens = tokenSet("true", "1", "si", "sí", "estandar", "estándar", "incluido",
	"standard", "std", "present", "x", "y", "yes", "serie", "incluida")

func tokenSet(tokens ...string) map[string]struct{} {
	out := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		out[FoldText(t)] = struct{}{}
	}
	return out
}

// NormalizeBoolean interprets heterogeneous catalog cell values as feature
// presence.
//
//	nil                    -> false
//	bool                   -> itself
//	slice/array            -> true if any element is true
//	number                 -> finite and > 0
//	"no", "N/A", "ninguno" -> false
//	"Sí", "Estándar", "x"  -> true
//	numeric text           -> value > 0
//	other non-empty text   -> true
func NormalizeBoolean(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return normalizeBooleanText(t)
	case json.Number:
		return normalizeBooleanText(t.String())
	case *float64:
		return Positive(t)
	case []any:
		for _, e := range t {
			if NormalizeBoolean(e) {
				return true
			}
		}
		return false
	case []string:
		for _, e := range t {
			if normalizeBooleanText(e) {
				return true
			}
		}
		return false
	case float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		n, err := cast.ToFloat64E(t)
		return err == nil && !math.IsNaN(n) && !math.IsInf(n, 0) && n > 0
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		for i := 0; i < rv.Len(); i++ {
			if NormalizeBoolean(rv.Index(i).Interface()) {
				return true
			}
		}
		return false
	}
	return normalizeBooleanText(cast.ToString(v))
}

func normalizeBooleanText(s string) bool {
	folded := FoldText(s)
	if folded == "" {
		return false
	}
	if _, ok := falseyTokens[folded]; ok {
		return false
	}
	if _, ok := truthyTokens[folded]; ok {
		return true
	}
	if n, err := strconv.ParseFloat(strings.ReplaceAll(folded, ",", ""), 64); err == nil {
		return !math.IsNaN(n) && !math.IsInf(n, 0) && n > 0
	}
	return true
}

// AugmentFlags derives the canonical feature flags of rec from its existing
// flags, candidate columns and description text. Keys whose derivation is
// false are absent from the result. rec is not modified.
func AugmentFlags(rec *Record, catalog *Catalog) FeatureFlagSet {
	out := rec.Flags.Clone()
	if out == nil {
		out = FeatureFlagSet{}
	}
	cols := squashedColumns(rec)
	for _, def := range catalog.Defs() {
		if out[def.Key] || def.presentIn(rec, cols) {
			out[def.Key] = true
		} else {
			delete(out, def.Key)
		}
	}
	return out
}

// HasFeature reports whether rec has the catalog feature key, either as a
// flag or through its raw source columns.
func HasFeature(rec *Record, def FeatureDef) bool {
	if rec == nil {
		return false
	}
	if rec.Flags.Has(def.Key) {
		return true
	}
	return def.presentIn(rec, squashedColumns(rec))
}

func squashedColumns(rec *Record) map[string]any {
	out := make(map[string]any, len(rec.Columns))
	for k, v := range rec.Columns {
		sq := squash(k)
		if prev, ok := out[sq]; ok && NormalizeBoolean(prev) {
			continue
		}
		out[sq] = v
	}
	return out
}

func (d FeatureDef) presentIn(rec *Record, cols map[string]any) bool {
	if v, ok := cols[squash(d.Key)]; ok && NormalizeBoolean(v) {
		return true
	}
	for _, c := range d.Candidates {
		if v, ok := cols[squash(c)]; ok && NormalizeBoolean(v) {
			return true
		}
	}
	return len(d.TextHints) > 0 && ContainsAny(rec.Description, d.TextHints...)
}
