// Package parser locates and decodes the file control record of a NACHA file.
package parser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"
)

// ControlRecordMarker is the record type code of the file control (trailer) record.
const ControlRecordMarker = '9'

// LocateControlRecord returns the first line of the file at filePath that
// starts with the control record marker, with trailing whitespace removed.
func LocateControlRecord(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("%w: opening %s: %w", ErrIOFailure, filePath, err)
	}
	defer file.Close()

	return LocateControlRecordFromReader(file)
}

// LocateControlRecordFromReader is LocateControlRecord over an io.Reader.
// Lines may end in "\n", "\r\n" or a lone "\r" and have no length limit.
func LocateControlRecordFromReader(r io.Reader) (string, error) {
	reader := bufio.NewReader(r)
	for {
		chunk, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("%w: reading file: %w", ErrIOFailure, err)
		}

		// A lone '\r' also ends a line.
		for _, line := range strings.Split(strings.TrimSuffix(chunk, "\n"), "\r") {
			if strings.HasPrefix(line, string(ControlRecordMarker)) {
				return strings.TrimRightFunc(line, unicode.IsSpace), nil
			}
		}

		if err != nil {
			break
		}
	}

	return "", fmt.Errorf("%w in the NACHA file", ErrRecordNotFound)
}
