package transmittal

import (
	"fmt"
	"io"

	"github.com/1shevadin1/NACHA-converter/internal/models"
	"github.com/xuri/excelize/v2"
)

const (
	summarySheet = "Summary"
	emailSheet   = "Email"
)

// ExportWorkbook writes draft as an XLSX workbook with a Summary sheet and
// an Email sheet.
func ExportWorkbook(draft *models.EmailDraft, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetDocProps(&excelize.DocProperties{
		Creator: "Pepper Pay Finance Department",
		Title:   draft.Summary.FileName,
	})

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}
	if _, err := f.NewSheet(emailSheet); err != nil {
		return fmt.Errorf("creating email sheet: %w", err)
	}

	if err := writeSummarySheet(f, &draft.Summary); err != nil {
		return err
	}
	if err := writeEmailSheet(f, draft); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, s *models.TransmittalSummary) error {
	headers := []string{
		"Transmittal ACH File",
		"Entry/Addenda #",
		"Debits",
		"Credits",
		"Transmission Amount",
	}
	values := []interface{}{
		s.FileName,
		s.EntryCount,
		s.TotalDebits.InexactFloat64(),
		s.TotalCredits.InexactFloat64(),
		s.NetAmount.InexactFloat64(),
	}

	for i := range headers {
		header, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(summarySheet, header, headers[i]); err != nil {
			return fmt.Errorf("writing summary header: %w", err)
		}
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		if err := f.SetCellValue(summarySheet, cell, values[i]); err != nil {
			return fmt.Errorf("writing summary value: %w", err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}
	f.SetCellStyle(summarySheet, "A1", "E1", headerStyle)

	// Currency columns: #,##0.00
	numStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return fmt.Errorf("creating number style: %w", err)
	}
	f.SetCellStyle(summarySheet, "C2", "E2", numStyle)

	f.SetColWidth(summarySheet, "A", "A", 28)
	f.SetColWidth(summarySheet, "B", "E", 20)
	return nil
}

func writeEmailSheet(f *excelize.File, draft *models.EmailDraft) error {
	rows := [][]interface{}{
		{"Subject", draft.Subject},
		{"Body", draft.Body},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(emailSheet, cell, &row); err != nil {
			return fmt.Errorf("writing email row: %w", err)
		}
	}

	wrap, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})
	if err != nil {
		return fmt.Errorf("creating wrap style: %w", err)
	}
	f.SetCellStyle(emailSheet, "B1", "B2", wrap)
	f.SetColWidth(emailSheet, "B", "B", 70)
	return nil
}
