package decoder

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/Artexxx/pair-overlap/internal/dto"
)

const (
	ColumnEmpID     = "EmpID"
	ColumnProjectID = "ProjectID"
	ColumnDateFrom  = "DateFrom"
	ColumnDateTo    = "DateTo"

	nullMarker = "NULL"
)

var requiredColumns = []string{ColumnEmpID, ColumnProjectID, ColumnDateFrom, ColumnDateTo}

// Decoder turns CSV assignment rows into typed records.
type Decoder struct {
	Comma rune
}

func New() *Decoder {
	return &Decoder{Comma: ','}
}

// Decode reads the whole input with the default comma-separated decoder.
func Decode(r io.Reader, dateFormat string) ([]dto.AssignmentRecord, error) {
	return New().Decode(r, dateFormat)
}

// Decode parses every row or fails; partial results are never returned.
func (d *Decoder) Decode(r io.Reader, dateFormat string) ([]dto.AssignmentRecord, error) {
	if strings.TrimSpace(dateFormat) == "" {
		return nil, dto.ErrDateFormatRequired
	}

	layout, err := Layout(dateFormat)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", dto.ErrDateFormatRequired, err)
	}

	reader := csv.NewReader(r)
	reader.Comma = d.Comma
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &dto.DecodeError{Err: errors.New("empty input: header row is missing")}
		}
		return nil, readError(err)
	}

	idx, err := headerIndex(header)
	if err != nil {
		return nil, &dto.DecodeError{Line: 1, Err: err}
	}

	var records []dto.AssignmentRecord
	for {
		rec, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, readError(err)
		}

		line, _ := reader.FieldPos(0)

		record, err := decodeRow(rec, idx, layout, line)
		if err != nil {
			return nil, err
		}

		records = append(records, record)
	}

	return records, nil
}

func decodeRow(rec []string, idx map[string]int, layout string, line int) (dto.AssignmentRecord, error) {
	get := func(name string) string {
		i := idx[name]
		if i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	out := dto.AssignmentRecord{Line: line}

	var err error
	if out.EmployeeID, err = parseInt(get(ColumnEmpID), ColumnEmpID, line); err != nil {
		return out, err
	}

	if out.ProjectID, err = parseInt(get(ColumnProjectID), ColumnProjectID, line); err != nil {
		return out, err
	}

	from := get(ColumnDateFrom)
	if out.DateFrom, err = parseDate(from, layout); err != nil {
		return out, &dto.DecodeError{Line: line, Column: ColumnDateFrom, Value: from, Err: err}
	}

	to := get(ColumnDateTo)
	if to == "" || strings.EqualFold(to, nullMarker) {
		return out, nil
	}

	dateTo, err := parseDate(to, layout)
	if err != nil {
		return out, &dto.DecodeError{Line: line, Column: ColumnDateTo, Value: to, Err: err}
	}
	out.DateTo = &dateTo

	return out, nil
}

// readError keeps malformed CSV apart from failures of the underlying reader.
func readError(err error) error {
	var perr *csv.ParseError
	if errors.As(err, &perr) {
		return &dto.DecodeError{Line: perr.Line, Err: perr.Err}
	}

	return fmt.Errorf("csv.Read: %w", err)
}

func headerIndex(header []string) (map[string]int, error) {
	byName := make(map[string]int, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		name := strings.ToLower(strings.TrimSpace(h))
		if _, dup := byName[name]; !dup {
			byName[name] = i
		}
	}

	idx := make(map[string]int, len(requiredColumns))
	var missing []string
	for _, col := range requiredColumns {
		i, ok := byName[strings.ToLower(col)]
		if !ok {
			missing = append(missing, col)
			continue
		}
		idx[col] = i
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	return idx, nil
}

func parseInt(v, column string, line int) (int, error) {
	if v == "" {
		return 0, &dto.DecodeError{Line: line, Column: column, Value: v, Err: errors.New("value is required")}
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, &dto.DecodeError{Line: line, Column: column, Value: v, Err: err}
	}

	return n, nil
}

func parseDate(v, layout string) (time.Time, error) {
	if v == "" {
		return time.Time{}, errors.New("value is required")
	}

	if !strings.Contains(layout, "_") {
		v = strings.ReplaceAll(v, "_", " ")
	}

	t, err := time.ParseInLocation(layout, v, time.UTC)
	if err != nil {
		return time.Time{}, err
	}

	return DateOnly(t), nil
}

// DateOnly drops the clock part of t and moves it to UTC midnight.
func DateOnly(t time.Time) time.Time {
	if t.IsZero() {
		return time.Time{}
	}

	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
