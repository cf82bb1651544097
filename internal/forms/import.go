package forms

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/hmhbrian/qldt-go/internal/dto"
	"github.com/hmhbrian/qldt-go/internal/validator"
)

// Question workbooks use one header row followed by one row per question.
// Column order is free; names are matched case-insensitively.
//
//	question | type | a | b | c | d | correct | explanation
var (
	requiredColumns = []string{"question", "type", "a", "b", "correct"}
	optionalColumns = []string{"c", "d", "explanation"}
)

// ErrEmptyWorkbook is returned when the first sheet has no rows at all.
var ErrEmptyWorkbook = errors.New("forms: workbook has no rows")

// HeaderError reports a malformed header row: required columns missing.
type HeaderError struct {
	Missing []string
}

func (e *HeaderError) Error() string {
	return "forms: missing required columns: " + strings.Join(e.Missing, ", ")
}

// RowError carries the validation failures of one data row. Row is the
// 1-based row number in the sheet, header included.
type RowError struct {
	Row    int
	Fields map[string]string
}

func (e RowError) Error() string {
	return fmt.Sprintf("forms: row %d invalid", e.Row)
}

// ImportQuestions reads an .xlsx workbook and returns the valid question
// payloads plus per-row errors for the rest. A nil error with a non-empty
// rowErrs slice means a partial import the caller can present for review.
func ImportQuestions(r io.Reader) (questions []dto.QuestionPayload, rowErrs []RowError, err error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("forms: open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, nil, fmt.Errorf("forms: read sheet: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil, ErrEmptyWorkbook
	}

	cols, err := mapColumns(rows[0])
	if err != nil {
		return nil, nil, err
	}

	for i, row := range rows[1:] {
		rowNum := i + 2
		if blankRow(row) {
			continue
		}

		q := dto.QuestionPayload{
			QuestionText:  cell(row, cols, "question"),
			QuestionType:  normalizeType(cell(row, cols, "type")),
			OptionA:       cell(row, cols, "a"),
			OptionB:       cell(row, cols, "b"),
			OptionC:       optionalCell(row, cols, "c"),
			OptionD:       optionalCell(row, cols, "d"),
			CorrectOption: strings.ToLower(strings.ReplaceAll(cell(row, cols, "correct"), " ", "")),
			Explanation:   cell(row, cols, "explanation"),
			Position:      len(questions),
		}

		fields := validator.Struct(q)
		if fields == nil {
			fields = make(map[string]string)
		}
		validateQuestionSemantics("question", q, fields)

		if len(fields) > 0 {
			rowErrs = append(rowErrs, RowError{Row: rowNum, Fields: fields})
			continue
		}
		questions = append(questions, q)
	}

	return questions, rowErrs, nil
}

// mapColumns resolves header names to column indices, failing when any
// required column is absent.
func mapColumns(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		if key != "" {
			cols[key] = i
		}
	}

	var missing []string
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &HeaderError{Missing: missing}
	}
	return cols, nil
}

// normalizeType maps spreadsheet-friendly type spellings to canonical ones.
func normalizeType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(strings.ReplaceAll(raw, " ", "_"))) {
	case "single", "single_choice", "one":
		return "single_choice"
	case "multiple", "multiple_choice", "multi":
		return "multiple_choice"
	case "select_all", "all":
		return "select_all"
	default:
		return strings.ToLower(strings.TrimSpace(raw))
	}
}

func cell(row []string, cols map[string]int, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func optionalCell(row []string, cols map[string]int, name string) *string {
	v := cell(row, cols, name)
	if v == "" {
		return nil
	}
	return &v
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
