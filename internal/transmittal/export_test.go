package transmittal

import (
	"bytes"
	"strings"
	"testing"

	"github.com/1shevadin1/NACHA-converter/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportWorkbook(t *testing.T) {
	draft, err := Format(testutil.ControlLine(42, 150000, 200000), "payment1")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, ExportWorkbook(draft, &buf))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{summarySheet, emailSheet}, f.GetSheetList())

	name, err := f.GetCellValue(summarySheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "payment1.TSYSO", name)

	count, err := f.GetCellValue(summarySheet, "B2", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "42", count)

	net, err := f.GetCellValue(summarySheet, "E2", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "500", net)

	subject, err := f.GetCellValue(emailSheet, "B1")
	require.NoError(t, err)
	assert.Equal(t, strings.TrimSpace(draft.Subject), strings.TrimSpace(subject))
}
