// Package models contains domain types for the NACHA transmittal generator.
package models

import "github.com/shopspring/decimal"

// TransmittalSummary holds the totals decoded from a file control record.
type TransmittalSummary struct {
	FileName     string
	EntryCount   int64
	TotalDebits  decimal.Decimal
	TotalCredits decimal.Decimal
	NetAmount    decimal.Decimal
}

// SummaryView is the wire form of a summary, amounts fixed to two places.
type SummaryView struct {
	FileName     string `json:"fileName" msgpack:"fileName"`
	EntryCount   int64  `json:"entryCount" msgpack:"entryCount"`
	TotalDebits  string `json:"totalDebits" msgpack:"totalDebits"`
	TotalCredits string `json:"totalCredits" msgpack:"totalCredits"`
	NetAmount    string `json:"netAmount" msgpack:"netAmount"`
}

// View converts the summary for JSON and msgpack responses.
func (s *TransmittalSummary) View() SummaryView {
	return SummaryView{
		FileName:     s.FileName,
		EntryCount:   s.EntryCount,
		TotalDebits:  s.TotalDebits.StringFixed(2),
		TotalCredits: s.TotalCredits.StringFixed(2),
		NetAmount:    s.NetAmount.StringFixed(2),
	}
}

// EmailDraft is the subject and body of a transmittal email.
type EmailDraft struct {
	Subject string
	Body    string
	Summary TransmittalSummary
}

// Display renders the draft the way the results pane shows it.
func (d *EmailDraft) Display() string {
	return "Subject:\n    " + d.Subject + "\n\nBody:\n" + d.Body
}

// DraftView is the wire form of an EmailDraft.
type DraftView struct {
	Subject string      `json:"subject" msgpack:"subject"`
	Body    string      `json:"body" msgpack:"body"`
	Summary SummaryView `json:"summary" msgpack:"summary"`
}

// View converts the draft for JSON and msgpack responses.
func (d *EmailDraft) View() DraftView {
	return DraftView{
		Subject: d.Subject,
		Body:    d.Body,
		Summary: d.Summary.View(),
	}
}

// DraftField selects which part of a draft a copy action reads.
type DraftField string

const (
	FieldSubject DraftField = "subject"
	FieldBody    DraftField = "body"
)

// Valid reports whether f names a copyable field.
func (f DraftField) Valid() bool {
	return f == FieldSubject || f == FieldBody
}

// Text returns the draft text for f.
func (d *EmailDraft) Text(f DraftField) string {
	if f == FieldSubject {
		return d.Subject
	}
	return d.Body
}
