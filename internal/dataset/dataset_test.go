package dataset

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var salesRows = []string{
	"Invoice ID,Branch,City,Customer type,Gender,Product line,Unit price,Quantity,Total,Date",
	"750-67-8428,A,Yangon,Member,Female,Health and beauty,74.69,7,548.9715,1/5/2019",
	"226-31-3081,C,Naypyitaw,Normal,Female,Electronic accessories,15.28,5,80.22,3/8/2019",
	"631-41-3108,A,Yangon,Normal,Male,Home and lifestyle,46.33,7,340.5255,3/3/2019",
	"123-19-1176,A,Yangon,Member,Male,Health and beauty,58.22,8,489.048,1/27/2019",
	"373-73-7910,A,Yangon,Normal,Male,Sports and travel,86.31,7,634.3785,2/8/2019",
}

var qualityRows = []string{
	"A_id,Size,Weight,Sweetness,Acidity,Quality",
	"0,-3.97,-2.51,5.34,-0.49,good",
	"1,-1.19,-2.83,3.66,0.80,good",
	"2,-0.29,-1.35,-1.73,2.62,bad",
	"3,-0.65,-2.27,1.32,x,good",
	"4,1.36,-1.29,-1.73,,bad",
	"5,-3.42,-1.41,-1.80,2.08,",
	"6,-2.13,-2.14,-1.60,1.64,bad",
	"Created_by_someone,,,,,",
}

func writeFile(t *testing.T, name string, lines []string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestLoadSales_TypesColumns(t *testing.T) {
	p := writeFile(t, "sales.csv", salesRows)
	tbl, err := LoadSales(p, DefaultSalesColumns(), Options{})
	if err != nil {
		t.Fatalf("LoadSales: %v", err)
	}
	if tbl.Len() != 5 {
		t.Fatalf("rows = %d, want 5", tbl.Len())
	}
	cities, err := tbl.Categorical("city")
	if err != nil {
		t.Fatalf("Categorical: %v", err)
	}
	if cities[1] != "Naypyitaw" {
		t.Fatalf("city[1] = %q", cities[1])
	}
	totals, err := tbl.Numeric("Total")
	if err != nil {
		t.Fatalf("Numeric: %v", err)
	}
	if math.Abs(totals[0]-548.9715) > 1e-9 {
		t.Fatalf("total[0] = %v", totals[0])
	}
	dates, err := tbl.Dates("Date")
	if err != nil {
		t.Fatalf("Dates: %v", err)
	}
	want := time.Date(2019, time.January, 27, 0, 0, 0, 0, time.UTC)
	if !dates[3].Equal(want) {
		t.Fatalf("date[3] = %v, want %v", dates[3], want)
	}
	if _, err := tbl.Numeric("City"); !errors.Is(err, ErrFieldKind) {
		t.Fatalf("expected ErrFieldKind, got %v", err)
	}
	if _, err := tbl.Categorical("Branch"); !errors.Is(err, ErrMissingField) {
		t.Fatalf("expected ErrMissingField for unselected column, got %v", err)
	}
}

func TestLoadSales_CoercionFailureIsFatal(t *testing.T) {
	rows := append([]string(nil), salesRows...)
	rows[3] = "631-41-3108,A,Yangon,Normal,Male,Home and lifestyle,46.33,7,n/a,3/3/2019"
	p := writeFile(t, "sales.csv", rows)

	_, err := LoadSales(p, DefaultSalesColumns(), Options{})
	require.Error(t, err)
	var ce *CoercionError
	require.True(t, errors.As(err, &ce), "want *CoercionError, got %T", err)
	assert.Equal(t, 3, ce.Row)
	assert.Equal(t, "Total", ce.Field)
	assert.Equal(t, "n/a", ce.Value)
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestLoadSales_MissingHeaderField(t *testing.T) {
	p := writeFile(t, "sales.csv", []string{"City,Total", "Yangon,1"})
	_, err := LoadSales(p, DefaultSalesColumns(), Options{})
	require.ErrorIs(t, err, ErrMissingField)
}

func TestLoadSales_EmptyFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, os.WriteFile(p, nil, 0o644))
	_, err := LoadSales(p, DefaultSalesColumns(), Options{})
	require.ErrorIs(t, err, ErrEmptyFile)
}

func TestLoadSales_HeaderOnlyIsEmptyTable(t *testing.T) {
	p := writeFile(t, "sales.csv", salesRows[:1])
	tbl, err := LoadSales(p, DefaultSalesColumns(), Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.Len())
}

func TestLoadQuality_DropsInvalidRows(t *testing.T) {
	p := writeFile(t, "apple_quality.csv", qualityRows)
	spec := QualitySpec{Label: "Quality", Exclude: []string{"A_id"}}
	tbl, stats, err := LoadQuality(p, spec, Options{})
	require.NoError(t, err)

	// rows 3 (x), 4 (empty acidity), 5 (empty label) and the trailer fail.
	assert.Equal(t, 8, stats.Rows)
	assert.Equal(t, 4, stats.Dropped)
	assert.Equal(t, 4, stats.Kept)
	assert.Equal(t, stats.Rows-stats.Dropped, tbl.Len())
	assert.Equal(t, 2, stats.DroppedBy["Acidity"])
	assert.Equal(t, 1, stats.DroppedBy["Quality"])
	assert.Equal(t, 1, stats.DroppedBy["Size"])

	acid, err := tbl.Numeric("Acidity")
	require.NoError(t, err)
	for _, v := range acid {
		assert.False(t, math.IsNaN(v))
	}
	assert.Equal(t, []string{"Size", "Weight", "Sweetness", "Acidity", "Quality"}, tbl.Schema().Names())
	assert.Equal(t, []string{"Size", "Weight", "Sweetness", "Acidity"}, spec.FeatureNames(tbl.Schema()))
}

func TestQualitySpec_ExplicitFeatures(t *testing.T) {
	spec := QualitySpec{Label: "Quality", Features: []string{"Size", "Acidity"}}
	s, err := spec.Schema([]string{"A_id", "Size", "Weight", "Acidity", "Quality"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Size", "Acidity", "Quality"}, s.Names())

	_, err = QualitySpec{}.Schema([]string{"a"})
	assert.ErrorIs(t, err, ErrSchema)
}

func TestParseNumeric_Locales(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"548.9715", 548.9715, true},
		{"1.234,5", 1234.5, true},
		{"1,234.5", 1234.5, true},
		{"0,5", 0.5, true},
		{"-0.491590483", -0.491590483, true},
		{"NaN", 0, false},
		{"", 0, false},
		{"abc", 0, false},
	}
	for _, c := range cases {
		got, ok := parseNumeric(c.in, Options{})
		if ok != c.ok {
			t.Fatalf("parseNumeric(%q) ok=%v want %v", c.in, ok, c.ok)
		}
		if ok && math.Abs(got-c.want) > 1e-9 {
			t.Fatalf("parseNumeric(%q) = %v want %v", c.in, got, c.want)
		}
	}
}

func TestWithMonth_DerivesWithoutMutating(t *testing.T) {
	p := writeFile(t, "sales.csv", salesRows)
	tbl, err := LoadSales(p, DefaultSalesColumns(), Options{})
	require.NoError(t, err)

	withMonth, err := tbl.WithMonth("Date", "Month")
	require.NoError(t, err)
	months, err := withMonth.Categorical("Month")
	require.NoError(t, err)
	assert.Equal(t, []string{"2019-01", "2019-03", "2019-03", "2019-01", "2019-02"}, months)

	_, err = tbl.Categorical("Month")
	assert.ErrorIs(t, err, ErrMissingField, "source table must stay unchanged")
	assert.Len(t, tbl.Schema().Fields, 6)

	_, err = withMonth.WithMonth("Date", "month")
	assert.ErrorIs(t, err, ErrSchema)
}

func TestMonth_OrderPreserved(t *testing.T) {
	dates := []time.Time{
		time.Date(2018, 12, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2019, 1, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2019, 2, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2019, 10, 2, 0, 0, 0, 0, time.UTC),
	}
	for i := 1; i < len(dates); i++ {
		a, b := MonthOf(dates[i-1]), MonthOf(dates[i])
		if b.Numeric() < a.Numeric() {
			t.Fatalf("%v before %v", b, a)
		}
		if a.String() > b.String() {
			t.Fatalf("string order broken: %s > %s", a, b)
		}
	}
	m := MonthOf(dates[4])
	assert.Equal(t, "2019-10", m.String())
	assert.Equal(t, 201910, m.Numeric())
	parsed, err := ParseMonth("2019-10")
	require.NoError(t, err)
	assert.Equal(t, m, parsed)
}

func TestOpen_TSVAndXLSX(t *testing.T) {
	tsv := writeFile(t, "sales.tsv", []string{"City\tTotal", "Yangon\t1,5", "Mandalay\t2"})
	raw, err := Open(tsv, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"City", "Total"}, raw.Header)
	assert.Len(t, raw.Records, 2)

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"City", "Total"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"Yangon", 10.5}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]interface{}{"Mandalay", 4}))
	xlsx := filepath.Join(t.TempDir(), "sales.xlsx")
	require.NoError(t, f.SaveAs(xlsx))

	tbl, _, err := Load(xlsx, NewSchema(Cat("City"), Num("Total")), Strict, Options{})
	require.NoError(t, err)
	totals, err := tbl.Numeric("Total")
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{10.5, 4}, totals, 1e-9)

	_, err = Open(xlsx, Options{Sheet: "Nope"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Available sheets")
}

func TestProfileRaw(t *testing.T) {
	p := writeFile(t, "sales.csv", salesRows)
	raw, err := Open(p, Options{})
	require.NoError(t, err)
	prof := ProfileRaw(raw, 2, Options{})
	kinds := map[string]string{}
	for _, c := range prof.Cols {
		kinds[c.Name] = c.Kind
	}
	assert.Equal(t, "categorical", kinds["City"])
	assert.Equal(t, "numeric", kinds["Total"])
	assert.Equal(t, "date", kinds["Date"])
	assert.Len(t, prof.Samples, 2)

	md := prof.Markdown()
	assert.Contains(t, md, "Rows: 5")
	assert.Contains(t, md, "- City: categorical")
	assert.Contains(t, md, "Yangon(4)")
}
