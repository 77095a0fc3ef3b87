package export

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/salescope/internal/aggregate"
	"github.com/KaramelBytes/salescope/internal/model"
)

func TestWorkbookRoundTrip(t *testing.T) {
	w, err := New()
	require.NoError(t, err)
	defer w.Close()

	rows := []aggregate.Row{
		{Keys: []string{"Mandalay", "Member"}, Total: 53637.48, Count: 165},
		{Keys: []string{"Yangon", "Normal"}, Total: 51607.02, Count: 173},
	}
	require.NoError(t, w.AddRows("city-customer", []string{"City", "Customer type"}, rows))
	require.NoError(t, w.AddRows("empty", []string{"Gender"}, nil))
	conf, err := model.NewConfusion([]string{"bad", "good", "good"}, []string{"bad", "good", "bad"})
	require.NoError(t, err)
	require.NoError(t, w.AddConfusion("confusion", conf))
	assert.Equal(t, []string{"city-customer", "empty", "confusion"}, w.Sheets())

	path := filepath.Join(t.TempDir(), "nested", "report.xlsx")
	require.NoError(t, w.Save(path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"city-customer", "empty", "confusion"}, f.GetSheetList())

	got, err := f.GetRows("city-customer", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"City", "Customer type", "Total", "Rows"}, got[0])
	assert.Equal(t, "Mandalay", got[1][0])
	assert.Equal(t, "53637.48", got[1][2])
	assert.Equal(t, "173", got[2][3])

	got, err = f.GetRows("confusion")
	require.NoError(t, err)
	assert.Equal(t, []string{"actual \\ predicted", "bad", "good"}, got[0])
	assert.Equal(t, []string{"good", "1", "1"}, got[2])
}

func TestSaveEmptyWorkbook(t *testing.T) {
	w, err := New()
	require.NoError(t, err)
	defer w.Close()
	assert.Error(t, w.Save(filepath.Join(t.TempDir(), "x.xlsx")))
}
