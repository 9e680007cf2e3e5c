package parser

import (
	"fmt"
	"strconv"
	"strings"
)

// Field offsets within the file control record, 0-indexed and end-exclusive.
const (
	entryAddendaCountStart = 13
	entryAddendaCountEnd   = 21
	totalDebitStart        = 31
	totalDebitEnd          = 43
	totalCreditStart       = 43
	totalCreditEnd         = 55

	// ControlRecordMinLength is the shortest line that holds every decoded field.
	ControlRecordMinLength = totalCreditEnd
)

// ControlRecord holds the fields decoded from a file control record.
// Amounts are in minor units (cents).
type ControlRecord struct {
	EntryAddendaCount int64
	TotalDebitCents   int64
	TotalCreditCents  int64
}

// DecodeControlRecord slices the fixed-width numeric fields out of line.
// Offsets count characters, not bytes.
func DecodeControlRecord(line string) (*ControlRecord, error) {
	runes := []rune(line)
	if len(runes) < ControlRecordMinLength {
		return nil, fmt.Errorf("%w: record is %d characters, need at least %d",
			ErrMalformedRecord, len(runes), ControlRecordMinLength)
	}

	count, err := parseField(runes, "entry/addenda count", entryAddendaCountStart, entryAddendaCountEnd)
	if err != nil {
		return nil, err
	}
	debits, err := parseField(runes, "total debit amount", totalDebitStart, totalDebitEnd)
	if err != nil {
		return nil, err
	}
	credits, err := parseField(runes, "total credit amount", totalCreditStart, totalCreditEnd)
	if err != nil {
		return nil, err
	}

	return &ControlRecord{
		EntryAddendaCount: count,
		TotalDebitCents:   debits,
		TotalCreditCents:  credits,
	}, nil
}

// parseField parses runes[start:end] as a base-10 integer after trimming
// surrounding whitespace. A leading sign is accepted.
func parseField(runes []rune, name string, start, end int) (int64, error) {
	raw := strings.TrimSpace(string(runes[start:end]))
	val, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s at [%d:%d] is %q", ErrMalformedRecord, name, start, end, raw)
	}
	return val, nil
}
