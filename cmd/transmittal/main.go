// Transmittal reads the file control record of a NACHA file and prints the
// transmittal email subject and body for it.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/1shevadin1/NACHA-converter/internal/models"
	"github.com/1shevadin1/NACHA-converter/internal/parser"
	"github.com/1shevadin1/NACHA-converter/internal/transmittal"
)

const version = "1.0.0"

func usage(w io.Writer) {
	fmt.Fprintf(w, `transmittal v%s
NACHA transmittal email generator

Usage:
  transmittal generate <file>          Print subject and body
  transmittal subject  <file>          Print the subject only
  transmittal body     <file>          Print the body only
  transmittal xlsx     <file> [output] Write the summary workbook (default <name>.TSYSO.xlsx)
  transmittal help                     Show this help message

Examples:
  transmittal generate payment1
  transmittal body payment1 | pbcopy
`, version)
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		usage(stderr)
		return 1
	}

	cmd := strings.ToLower(args[0])
	args = args[1:]

	switch cmd {
	case "help", "-h", "--help":
		usage(stdout)
		return 0
	case "version", "-v", "--version":
		fmt.Fprintln(stdout, version)
		return 0
	case "generate", "subject", "body", "xlsx":
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", cmd)
		usage(stderr)
		return 1
	}

	if len(args) < 1 {
		fmt.Fprintln(stderr, "Error: file path required")
		usage(stderr)
		return 1
	}

	draft, err := generate(args[0])
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	switch cmd {
	case "generate":
		fmt.Fprintln(stdout, draft.Display())
	case "subject":
		fmt.Fprint(stdout, draft.Text(models.FieldSubject))
	case "body":
		fmt.Fprint(stdout, draft.Text(models.FieldBody))
	case "xlsx":
		out := draft.Summary.FileName + ".xlsx"
		if len(args) >= 2 {
			out = args[1]
		}
		if err := writeWorkbook(draft, out); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Fprintf(stdout, "Wrote %s\n", out)
	}
	return 0
}

func generate(path string) (*models.EmailDraft, error) {
	line, err := parser.LocateControlRecord(path)
	if err != nil {
		return nil, err
	}
	return transmittal.Format(line, transmittal.DisplayName(path))
}

func writeWorkbook(draft *models.EmailDraft, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := transmittal.ExportWorkbook(draft, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
