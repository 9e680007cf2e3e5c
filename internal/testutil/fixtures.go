// fixtures.go - NACHA file fixtures for tests
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Sample records from a small two-entry NACHA file.
const (
	FileHeaderLine  = "101 091000019 1234567891810011200A094101WELLS FARGO            PEPPER PAY                     "
	BatchHeaderLine = "5200PEPPER PAY                          1234567891PPDPAYROLL         181001   1091000010000001"
	EntryLine       = "62209100001912345678         0000150000               ALICE EXAMPLE           0091000010000001"
	BatchControl    = "820000000200091000010000001500000000002000001234567891                         091000010000001"
)

// ControlLine builds a 94-character file control record with the given
// entry/addenda count and debit/credit totals in cents.
func ControlLine(entryAddendaCount, debitCents, creditCents int64) string {
	line := fmt.Sprintf("9%06d%06d%08d%010d%012d%012d",
		1, 1, entryAddendaCount, 9100001, debitCents, creditCents)
	return line + strings.Repeat(" ", 94-len(line))
}

// NACHAFile assembles a file body around control, joined with newline.
func NACHAFile(control, newline string) string {
	lines := []string{FileHeaderLine, BatchHeaderLine, EntryLine, BatchControl, control}
	return strings.Join(lines, newline) + newline
}

// WriteFile writes content to name inside a fresh temp directory and returns the path.
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write fixture %s: %v", name, err)
	}
	return path
}
