// Package chart turns enriched records and decompositions into plain series
// descriptors that any rendering library can draw.
package chart

import (
	"hash/fnv"

	"github.com/turtacn/AutoCompare-Intelligence/internal/domain/vehicle"
)

// Palette is a fixed high-contrast color cycle.
var Palette = []string{
	"#1f77b4", "#d62728", "#2ca02c", "#ff7f0e", "#9467bd", "#8c564b",
	"#e377c2", "#17becf", "#bcbd22", "#7f7f7f", "#393b79", "#637939",
}

// Symbols is the marker cycle.
var Symbols = []string{"circle", "rect", "triangle", "diamond", "roundRect", "pin", "arrow"}

// Styles assigns colors by normalized version name and symbols by full
// vehicle identity, both in first-appearance order, so the same vehicle keeps
// its look across every chart built from one set.
type Styles struct {
	colors  map[string]string
	symbols map[string]string
}

// NewStyles assigns styles to records in order.
func NewStyles(records []*vehicle.Record) *Styles {
	s := &Styles{colors: map[string]string{}, symbols: map[string]string{}}
	for _, r := range records {
		if r == nil {
			continue
		}
		if v := colorKey(r); v != "" {
			if _, ok := s.colors[v]; !ok {
				s.colors[v] = Palette[len(s.colors)%len(Palette)]
			}
		}
		k := vehicle.KeyForRow(r)
		if _, ok := s.symbols[k]; !ok {
			s.symbols[k] = Symbols[len(s.symbols)%len(Symbols)]
		}
	}
	return s
}

func colorKey(r *vehicle.Record) string {
	return vehicle.FoldText(r.Version)
}

// Color returns rec's color. Records outside the initial set hash onto the
// palette.
func (s *Styles) Color(rec *vehicle.Record) string {
	k := colorKey(rec)
	if c, ok := s.colors[k]; ok {
		return c
	}
	return Palette[hashIndex(k, len(Palette))]
}

// Symbol returns rec's marker symbol.
func (s *Styles) Symbol(rec *vehicle.Record) string {
	k := vehicle.KeyForRow(rec)
	if sym, ok := s.symbols[k]; ok {
		return sym
	}
	return Symbols[hashIndex(k, len(Symbols))]
}

func hashIndex(s string, n int) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return int(h.Sum32() % uint32(n))
}
