package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/AutoCompare-Intelligence/internal/application/compare"
	"github.com/turtacn/AutoCompare-Intelligence/pkg/errors"
)

const inputJSON = `{
  "base": {"make": "Toyota", "model": "Corolla", "year": "2024",
           "transactionPrice": 420000, "horsepower": 169, "equipScore": 62},
  "competitors": [
    {"make": "Honda", "model": "Civic", "year": "2024",
     "transactionPrice": 445000, "horsepower": 180, "equipScore": 70},
    {"make": "honda", "model": "civic", "year": "2024", "transactionPrice": 440000},
    {"make": "Toyota", "model": "Corolla", "year": "2024"},
    {"make": "Mazda", "model": "3", "year": "2024", "transactionPrice": 430000}
  ],
  "dismissed": ["MAZDA|3||2024"]
}`

const inputYAML = `
base:
  make: Toyota
  model: Corolla
  year: "2024"
  transactionPrice: 420000
  horsepower: 169
  equipScore: 62
competitors:
  - make: Honda
    model: Civic
    year: "2024"
    transactionPrice: 445000
    horsepower: 180
    equipScore: 70
`

func writeInput(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestCompare_TableUpsides(t *testing.T) {
	path := writeInput(t, "in.json", inputJSON)

	out, err := run(t, "", "compare", "-f", path, "--mode", "upsides")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.GreaterOrEqual(t, len(lines), 3)
	assert.Contains(t, lines[0], "UPSIDES")
	assert.Contains(t, out, "Honda Civic 2024")
	assert.Contains(t, out, "Transaction price")
	assert.Contains(t, out, "+25,000")
	assert.NotContains(t, out, "Mazda", "dismissed in the input document")
}

func TestCompare_JSON(t *testing.T) {
	path := writeInput(t, "in.json", inputJSON)

	out, err := run(t, "", "compare", "-f", path, "-o", "json", "--max-rows", "1")
	require.NoError(t, err)

	var rep compare.Report
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, "TOYOTA|COROLLA||2024", rep.BaseKey)
	require.Len(t, rep.Competitors, 1)
	for _, sec := range rep.Upsides {
		assert.LessOrEqual(t, len(sec.Rows), 1)
	}
}

func TestCompare_YAMLFromStdin(t *testing.T) {
	out, err := run(t, inputYAML, "compare", "-f", "-", "-o", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "baseKey: TOYOTA|COROLLA||2024")
}

func TestCompare_DismissFlag(t *testing.T) {
	path := writeInput(t, "in.yaml", inputYAML)

	_, err := run(t, "", "compare", "-f", path, "--dismiss", "honda|civic||2024")
	assert.True(t, errors.IsCode(err, errors.ErrCodeNoCompetitors))
}

func TestCompare_Errors(t *testing.T) {
	path := writeInput(t, "in.json", inputJSON)

	_, err := run(t, "", "compare", "-f", path, "--mode", "sideways")
	assert.True(t, errors.IsCode(err, errors.ErrCodeAdvantageModeInvalid))

	_, err = run(t, "", "compare", "-f", path, "-o", "xml")
	assert.True(t, errors.IsCode(err, errors.ErrCodeBadRequest))

	_, err = run(t, "", "compare")
	assert.ErrorContains(t, err, `required flag(s) "file" not set`)

	_, err = run(t, "", "compare", "-f", filepath.Join(t.TempDir(), "missing.json"))
	assert.True(t, errors.IsCode(err, errors.ErrCodeBadRequest))

	bad := writeInput(t, "bad.json", `{"base": [}`)
	_, err = run(t, "", "compare", "-f", bad)
	assert.True(t, errors.IsCode(err, errors.ErrCodeVehicleDecodeFailed))
}

func TestExplain_Table(t *testing.T) {
	path := writeInput(t, "in.json", inputJSON)

	out, err := run(t, "", "explain", "-f", path)
	require.NoError(t, err)
	assert.Contains(t, out, "FACTOR")
	assert.Contains(t, out, "HONDA|CIVIC||2024")
	assert.Contains(t, out, "Unexplained")
	assert.Contains(t, out, "Total")
	assert.Contains(t, out, "+25,000")
}

func TestKey_Roles(t *testing.T) {
	path := writeInput(t, "in.json", inputJSON)

	out, err := run(t, "", "key", "-f", path, "-o", "json")
	require.NoError(t, err)

	var entries []keyEntry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	roles := make([]string, len(entries))
	for i, e := range entries {
		roles[i] = e.Role
	}
	assert.Equal(t, []string{roleBase, roleCompetitor, roleDuplicate, roleSameAsBase, roleDismissed}, roles)
	assert.Equal(t, "HONDA|CIVIC||2024", entries[2].Key)
}

func TestRenderTable(t *testing.T) {
	out := renderTable([]string{"A", "LONG"}, [][]string{{"xxx", "y"}, {"z"}})
	assert.Equal(t, "A    LONG\n-    ----\nxxx  y\nz    \n", out)
	assert.Empty(t, renderTable(nil, nil))
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "+25,000", formatAmount(25000))
	assert.Equal(t, "-1,500", formatAmount(-1500))
	assert.Equal(t, "445,000", formatNumber(445000))
}

func TestIsYAML(t *testing.T) {
	assert.True(t, isYAML("in.yml", []byte("{}")))
	assert.False(t, isYAML("in.json", []byte("base: x")))
	assert.False(t, isYAML("-", []byte("  {\"base\":{}}")))
	assert.True(t, isYAML("-", []byte("base:\n  make: Kia")))
}
