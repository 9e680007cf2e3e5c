// Package transmittal turns a file control record into a transmittal email draft.
package transmittal

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/1shevadin1/NACHA-converter/internal/models"
	"github.com/1shevadin1/NACHA-converter/internal/parser"
	"github.com/shopspring/decimal"
)

// FileSuffix is the extension every transmitted file name carries.
const FileSuffix = ".TSYSO"

// NormalizeFileName appends FileSuffix unless name already ends with it.
// The check is case-sensitive.
func NormalizeFileName(name string) string {
	if strings.HasSuffix(name, FileSuffix) {
		return name
	}
	return name + FileSuffix
}

// DisplayName is the normalized base name of a file path.
func DisplayName(filePath string) string {
	return NormalizeFileName(filepath.Base(filePath))
}

// Summarize decodes controlLine into a TransmittalSummary for rawFileName.
func Summarize(controlLine, rawFileName string) (*models.TransmittalSummary, error) {
	rec, err := parser.DecodeControlRecord(controlLine)
	if err != nil {
		return nil, err
	}

	debits := decimal.New(rec.TotalDebitCents, -2)
	credits := decimal.New(rec.TotalCreditCents, -2)

	return &models.TransmittalSummary{
		FileName:     NormalizeFileName(rawFileName),
		EntryCount:   rec.EntryAddendaCount,
		TotalDebits:  debits,
		TotalCredits: credits,
		NetAmount:    credits.Sub(debits),
	}, nil
}

// Format builds the email draft for controlLine and rawFileName.
// Identical inputs always yield identical drafts.
func Format(controlLine, rawFileName string) (*models.EmailDraft, error) {
	summary, err := Summarize(controlLine, rawFileName)
	if err != nil {
		return nil, err
	}
	return Render(summary), nil
}

// Render fills the subject and body templates from summary.
func Render(summary *models.TransmittalSummary) *models.EmailDraft {
	return &models.EmailDraft{
		Subject: subjectTemplate.ExecuteString(map[string]interface{}{
			"fileName": summary.FileName,
		}),
		Body: bodyTemplate.ExecuteString(map[string]interface{}{
			"fileName":   summary.FileName,
			"entryCount": strconv.FormatInt(summary.EntryCount, 10),
			"debits":     summary.TotalDebits.StringFixed(2),
			"credits":    summary.TotalCredits.StringFixed(2),
			"net":        summary.NetAmount.StringFixed(2),
		}),
		Summary: *summary,
	}
}
