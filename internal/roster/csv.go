package roster

import (
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"strings"
)

// Canvas gradebook export columns. The numeric assignment IDs in the headers
// change between terms, so columns are located by name prefix.
const (
	_colStudent   = "Student"
	_colSISUserID = "SIS User ID"

	_prefixBlue   = "BLUE TAG"
	_prefixGreen  = "GREEN TAG"
	_prefixOrange = "ORANGE TAG"
	_prefixWhite  = "Training Affirmation"
)

// The gradebook carries a synthetic test student that must never reach the
// roster.
const _testStudentName = "Student, Test"

// ParseCanvasCSV extracts roster rows from a Canvas gradebook export. The
// first data row (possible points) and test-student rows are dropped. Rows it
// cannot make sense of are returned as-is with blank fields; the reconciler
// counts those as skipped.
func ParseCanvasCSV(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return []Row{}, nil
		}
		return nil, err
	}

	cols := locateColumns(header)

	rows := make([]Row, 0)
	pointsRowSeen := false

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		if !pointsRowSeen {
			pointsRowSeen = true
			continue
		}

		student := field(record, cols.student)
		if student == _testStudentName {
			continue
		}

		lastName, firstName := splitName(student)

		rows = append(rows, Row{
			StudentID: field(record, cols.sisUserID),
			FirstName: firstName,
			LastName:  lastName,
			WhiteTag:  field(record, cols.white) == "100",
			BlueTag:   field(record, cols.blue) == "1",
			GreenTag:  isNumeric(field(record, cols.green)),
			OrangeTag: isNumeric(field(record, cols.orange)),
		})
	}

	return rows, nil
}

type columnIndexes struct {
	student   int
	sisUserID int
	white     int
	blue      int
	green     int
	orange    int
}

func locateColumns(header []string) columnIndexes {
	cols := columnIndexes{student: -1, sisUserID: -1, white: -1, blue: -1, green: -1, orange: -1}

	for i, name := range header {
		name = strings.TrimSpace(name)
		switch {
		case name == _colStudent:
			cols.student = i
		case name == _colSISUserID:
			cols.sisUserID = i
		case strings.HasPrefix(name, _prefixWhite):
			cols.white = i
		case strings.HasPrefix(name, _prefixBlue):
			cols.blue = i
		case strings.HasPrefix(name, _prefixGreen):
			cols.green = i
		case strings.HasPrefix(name, _prefixOrange):
			cols.orange = i
		}
	}

	return cols
}

func field(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

// splitName splits the Canvas "Last, First" form.
func splitName(full string) (lastName, firstName string) {
	parts := strings.SplitN(full, ",", 2)
	lastName = strings.TrimSpace(parts[0])
	if len(parts) > 1 {
		firstName = strings.TrimSpace(parts[1])
	}
	return lastName, firstName
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}
