package transmittal

import (
	"strings"
	"testing"

	"github.com/1shevadin1/NACHA-converter/internal/parser"
	"github.com/1shevadin1/NACHA-converter/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeFileName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"payment1", "payment1.TSYSO"},
		{"payment1.TSYSO", "payment1.TSYSO"},
		{"payment1.tsyso", "payment1.tsyso.TSYSO"},
		{"payment1.TSYSO.txt", "payment1.TSYSO.txt.TSYSO"},
		{"", ".TSYSO"},
	}
	for _, tt := range tests {
		got := NormalizeFileName(tt.input)
		if got != tt.want {
			t.Errorf("NormalizeFileName(%q) = %q, want %q", tt.input, got, tt.want)
		}
		if again := NormalizeFileName(got); again != got {
			t.Errorf("NormalizeFileName not idempotent for %q: %q then %q", tt.input, got, again)
		}
	}
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "payment1.TSYSO", DisplayName("/var/data/payment1"))
	assert.Equal(t, "payment1.TSYSO", DisplayName("payment1.TSYSO"))
}

func TestFormat(t *testing.T) {
	line := testutil.ControlLine(42, 150000, 200000)

	draft, err := Format(line, "payment1")
	require.NoError(t, err)

	assert.Equal(t, "\nPepper Pay ACH File payment1.TSYSO", draft.Subject)

	want := "\n" +
		"    Hello,\n" +
		"    Please see below the transmittal information\n" +
		"\n" +
		"    Transmittal ACH File: payment1.TSYSO\n" +
		"\n" +
		"    Entry/Addenda #: 42\n" +
		"\n" +
		"    $ Debits: $1500.00\n" +
		"\n" +
		"    $ Credits: $2000.00\n" +
		"\n" +
		"    $ Transmission amount: $500.00\n" +
		"\n" +
		"    Thank you,\n" +
		"    Pepper Pay Finance Department\n" +
		"    "
	assert.Equal(t, want, draft.Body)

	assert.Contains(t, draft.Body, "$ Debits: $1500.00")
	assert.Contains(t, draft.Body, "$ Credits: $2000.00")
	assert.Contains(t, draft.Body, "$ Transmission amount: $500.00")

	s := draft.Summary
	assert.Equal(t, "payment1.TSYSO", s.FileName)
	assert.Equal(t, int64(42), s.EntryCount)
	assert.Equal(t, "1500.00", s.TotalDebits.StringFixed(2))
	assert.Equal(t, "2000.00", s.TotalCredits.StringFixed(2))
	assert.Equal(t, "500.00", s.NetAmount.StringFixed(2))
}

func TestFormat_Deterministic(t *testing.T) {
	line := testutil.ControlLine(7, 123456, 654321)

	first, err := Format(line, "batch.TSYSO")
	require.NoError(t, err)
	second, err := Format(line, "batch.TSYSO")
	require.NoError(t, err)

	assert.Equal(t, first.Subject, second.Subject)
	assert.Equal(t, first.Body, second.Body)
}

func TestFormat_NegativeNet(t *testing.T) {
	line := testutil.ControlLine(3, 10000, 7450)

	draft, err := Format(line, "refunds")
	require.NoError(t, err)

	assert.True(t, draft.Summary.NetAmount.IsNegative())
	assert.Equal(t, "-25.50", draft.Summary.NetAmount.StringFixed(2))
	assert.Contains(t, draft.Body, "$ Transmission amount: $-25.50\n")
	assert.NotContains(t, draft.Body, "+")
}

func TestFormat_ZeroAndOddCents(t *testing.T) {
	line := testutil.ControlLine(0, 1, 0)

	draft, err := Format(line, "tiny")
	require.NoError(t, err)
	assert.Contains(t, draft.Body, "Entry/Addenda #: 0\n")
	assert.Contains(t, draft.Body, "$ Debits: $0.01\n")
	assert.Contains(t, draft.Body, "$ Credits: $0.00\n")
	assert.Contains(t, draft.Body, "$ Transmission amount: $-0.01\n")
}

func TestFormat_ShortLine(t *testing.T) {
	line := strings.TrimRight(testutil.ControlLine(42, 150000, 200000), " ")

	draft, err := Format(line[:54], "payment1")
	assert.Nil(t, draft)
	assert.ErrorIs(t, err, parser.ErrMalformedRecord)
}

func TestFormat_NonNumeric(t *testing.T) {
	line := []rune(testutil.ControlLine(42, 150000, 200000))
	line[35] = 'Z'

	_, err := Format(string(line), "payment1")
	assert.ErrorIs(t, err, parser.ErrMalformedRecord)
}

func TestFormat_FromLocatedRecord(t *testing.T) {
	path := testutil.WriteFile(t, "payment1", testutil.NACHAFile(testutil.ControlLine(42, 150000, 200000), "\r\n"))

	line, err := parser.LocateControlRecord(path)
	require.NoError(t, err)

	draft, err := Format(line, DisplayName(path))
	require.NoError(t, err)
	assert.Equal(t, "\nPepper Pay ACH File payment1.TSYSO", draft.Subject)
	assert.Contains(t, draft.Body, "$ Transmission amount: $500.00")
}
