package vehicle

import "strings"

// KeyForRow returns the identity key "MAKE|MODEL|VERSION|YEAR". Each segment
// is trimmed, make/model/version are upper-cased, the year is rendered as an
// integer and missing parts render as empty segments, so equal vehicles
// always share a key.
func KeyForRow(r *Record) string {
	if r == nil {
		return "|||"
	}
	return identityKey(r.Make, r.Model, r.Version, r.Year)
}

// NormalizeKey rewrites a user supplied "make|model|version|year" key into
// KeyForRow form. Missing trailing segments are treated as empty.
func NormalizeKey(key string) string {
	parts := strings.SplitN(key, "|", 4)
	for len(parts) < 4 {
		parts = append(parts, "")
	}
	return identityKey(parts[0], parts[1], parts[2], parts[3])
}

func identityKey(mk, model, version, year string) string {
	return strings.Join([]string{
		upperTrim(mk),
		upperTrim(model),
		upperTrim(version),
		ParseYear(year),
	}, "|")
}

// DedupByKey drops records whose identity key was already seen or appears in
// exclude. Order is preserved and the first occurrence wins.
func DedupByKey(records []*Record, exclude ...string) []*Record {
	seen := make(map[string]struct{}, len(records)+len(exclude))
	for _, k := range exclude {
		seen[k] = struct{}{}
	}
	out := make([]*Record, 0, len(records))
	for _, r := range records {
		if r == nil {
			continue
		}
		k := KeyForRow(r)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, r)
	}
	return out
}
