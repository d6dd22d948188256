package vehicle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyForRow(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		rec  *Record
		want string
	}{
		{"full", &Record{Make: " Toyota", Model: "Corolla ", Version: "le", Year: "2024"}, "TOYOTA|COROLLA|LE|2024"},
		{"accented", &Record{Make: "Citroën", Model: "C4", Version: "Feel Pack", Year: "2025"}, "CITROËN|C4|FEEL PACK|2025"},
		{"missing parts", &Record{Make: "Kia"}, "KIA|||"},
		{"fractional year", &Record{Make: "Kia", Model: "K4", Year: "2024.0"}, "KIA|K4||2024"},
		{"nil", nil, "|||"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, KeyForRow(tc.rec), tc.name)
	}
}

func TestKeyForRow_StableUnderCasingAndSpacing(t *testing.T) {
	t.Parallel()

	a := &Record{Make: "honda", Model: "civic", Version: "touring", Year: "2024"}
	b := &Record{Make: "HONDA ", Model: " Civic", Version: "Touring", Year: " 2024 "}
	assert.Equal(t, KeyForRow(a), KeyForRow(b))
}

func TestNormalizeKey(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{" honda | civic | touring | 2024 ", "HONDA|CIVIC|TOURING|2024"},
		{"straße|x|y|2024.0", KeyForRow(&Record{Make: "Straße", Model: "X", Version: "Y", Year: "2024"})},
		{"kia|k4", "KIA|K4||"},
		{"", "|||"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizeKey(tc.in), tc.in)
	}
}

func TestDedupByKey(t *testing.T) {
	t.Parallel()

	base := &Record{Make: "Toyota", Model: "Corolla", Version: "LE", Year: "2024"}
	civic := &Record{Make: "Honda", Model: "Civic", Version: "Touring", Year: "2024"}
	civicDup := &Record{Make: "HONDA", Model: "CIVIC", Version: "touring", Year: "2024", MSRP: Float(1)}
	mazda := &Record{Make: "Mazda", Model: "3", Version: "i Sport", Year: "2024"}
	baseCopy := base.Clone()

	out := DedupByKey([]*Record{civic, nil, civicDup, baseCopy, mazda}, KeyForRow(base))

	assert.Equal(t, []*Record{civic, mazda}, out)
	assert.Nil(t, out[0].MSRP, "first occurrence wins")

	dismissed := DedupByKey([]*Record{civic, mazda}, KeyForRow(mazda))
	assert.Equal(t, []*Record{civic}, dismissed)
}
