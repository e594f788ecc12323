package transfer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/rgehrsitz/taxhelper/internal/domain"
)

// TimesheetRow is one rejected line of a timesheet, reported back to the user
type TimesheetRow struct {
	Line   int
	Reason string
}

// Timesheet is the result of reading a timesheet CSV
type Timesheet struct {
	Entries  []domain.WfhHoursLogEntry
	Rejected []TimesheetRow
}

// ReadTimesheet parses a CSV with a header row naming a date column and
// either an hours or a minutes column. Rows that cannot be read are
// collected in Rejected; only a missing header is an error.
func ReadTimesheet(r io.Reader) (Timesheet, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Timesheet{}, fmt.Errorf("%w: empty timesheet", ErrInvalidFormat)
		}
		return Timesheet{}, fmt.Errorf("failed to read timesheet header: %w", err)
	}

	dateCol, hoursCol, minutesCol := -1, -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "date":
			dateCol = i
		case "hours":
			hoursCol = i
		case "minutes":
			minutesCol = i
		}
	}
	if dateCol < 0 || (hoursCol < 0 && minutesCol < 0) {
		return Timesheet{}, fmt.Errorf("%w: timesheet needs a date column and an hours or minutes column", ErrInvalidFormat)
	}

	var ts Timesheet
	line := 1
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			ts.Rejected = append(ts.Rejected, TimesheetRow{Line: line, Reason: err.Error()})
			continue
		}

		date := field(record, dateCol)
		day, ok := domain.ParseDate(date)
		if !ok {
			ts.Rejected = append(ts.Rejected, TimesheetRow{Line: line, Reason: fmt.Sprintf("invalid date %q", date)})
			continue
		}

		minutes, err := rowMinutes(record, hoursCol, minutesCol)
		if err != nil {
			ts.Rejected = append(ts.Rejected, TimesheetRow{Line: line, Reason: err.Error()})
			continue
		}
		ts.Entries = append(ts.Entries, domain.WfhHoursLogEntry{Date: day.Format(domain.DateLayout), Minutes: minutes})
	}
	return ts, nil
}

func field(record []string, col int) string {
	if col < 0 || col >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[col])
}

var errTimeWorked = errors.New("time worked must be more than 0 and at most 24 hours")

// rowMinutes reads the minutes column when present, else the hours column.
// Hours are range-checked before the int conversion.
func rowMinutes(record []string, hoursCol, minutesCol int) (int, error) {
	if m := field(record, minutesCol); m != "" {
		minutes, err := strconv.Atoi(m)
		if err != nil || minutes <= 0 || minutes > domain.MaxMinutesPerDay {
			return 0, errTimeWorked
		}
		return minutes, nil
	}
	h, err := strconv.ParseFloat(field(record, hoursCol), 64)
	if err != nil || math.IsNaN(h) || h <= 0 || h > 24 {
		return 0, errTimeWorked
	}
	minutes := int(math.Round(h * 60))
	if minutes <= 0 {
		return 0, errTimeWorked
	}
	return minutes, nil
}
