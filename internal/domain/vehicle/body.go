package vehicle

// CabKind is the pickup cab configuration.
type CabKind string

const (
	CabNone    CabKind = ""
	CabDouble  CabKind = "double"
	CabChassis CabKind = "chassis"
	CabSingle  CabKind = "single"
)

// Segment is the body segment used to pick radar axes.
type Segment string

const (
	SegmentSUV       Segment = "suv"
	SegmentPickup    Segment = "pickup"
	SegmentSedan     Segment = "sedan"
	SegmentHatchback Segment = "hatchback"
	SegmentVan       Segment = "van"
	SegmentOther     Segment = "other"
)

// Is4x4 reports whether the drivetrain (or version name) indicates four- or
// all-wheel drive.
func Is4x4(rec *Record) bool {
	return ContainsAny(rec.Drivetrain, "4x4", "4wd", "awd", "integral", "total") ||
		ContainsAny(rec.Version, "4x4", "4wd", "awd")
}

// CabKindOf classifies the cab from CabType, then BodyStyle, then Version.
func CabKindOf(rec *Record) CabKind {
	for _, s := range []string{rec.CabType, rec.BodyStyle, rec.Version} {
		switch {
		case ContainsAny(s, "doble", "double", "crew"):
			return CabDouble
		case ContainsAny(s, "chasis", "chassis"):
			return CabChassis
		case ContainsAny(s, "sencilla", "single", "regular cab", "cabina regular"):
			return CabSingle
		}
	}
	return CabNone
}

// ClassifySegment maps the segment and body-style texts to a Segment using
// accent-insensitive whole-word matching. Pickup is checked first so
// "Pick-up doble cabina" never lands in another bucket, then SUV so a trim
// name cannot pull an SUV into the van bucket.
func ClassifySegment(rec *Record) Segment {
	text := rec.Segment + " " + rec.BodyStyle
	switch {
	case ContainsWord(text, "pickup", "pick-up", "pick up", "camioneta de carga"):
		return SegmentPickup
	case ContainsWord(text, "suv", "crossover", "todoterreno", "deportivo utilitario"):
		return SegmentSUV
	case ContainsWord(text, "minivan", "van", "furgon", "furgoneta"):
		return SegmentVan
	case ContainsWord(text, "hatchback", "hatch", "hb"):
		return SegmentHatchback
	case ContainsWord(text, "sedan"):
		return SegmentSedan
	default:
		return SegmentOther
	}
}
