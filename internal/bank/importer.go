package bank

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ImportResult holds the outcome of a spreadsheet import.
type ImportResult struct {
	Topics    []Topic
	Questions []Question
	Skipped   int
	Errors    []string
}

// ImportXLSX reads questions from an Excel sheet. The first row is a header
// naming the columns: id, topic_id, question, option_1..option_n, correct
// (1-based) and an optional explanation. An empty sheet name selects the
// first sheet. Rows that do not form a valid question are skipped and
// reported in ImportResult.Errors.
func ImportXLSX(path, sheet string) (*ImportResult, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheet)
	}

	cols, err := parseHeader(rows[0])
	if err != nil {
		return nil, err
	}

	result := &ImportResult{}
	seenTopic := make(map[string]bool)
	for i, row := range rows[1:] {
		rowNum := i + 2
		if isBlankRow(row) {
			continue
		}
		raw, err := cols.rowToRaw(row)
		if err == nil {
			var q Question
			q, err = decodeQuestion(raw)
			if err == nil {
				result.Questions = append(result.Questions, q)
				if !seenTopic[q.TopicID] {
					seenTopic[q.TopicID] = true
					result.Topics = append(result.Topics, Topic{ID: q.TopicID, Name: q.TopicID})
				}
				continue
			}
		}
		result.Skipped++
		result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", rowNum, err))
	}

	slog.Info("spreadsheet imported", "path", path, "sheet", sheet,
		"questions", len(result.Questions), "skipped", result.Skipped)
	return result, nil
}

type columnMap struct {
	id, topic, text, correct, explanation int
	options                               []int
}

func parseHeader(header []string) (columnMap, error) {
	cols := columnMap{id: -1, topic: -1, text: -1, correct: -1, explanation: -1}
	for i, h := range header {
		switch name := strings.ToLower(strings.TrimSpace(h)); {
		case name == "id":
			cols.id = i
		case name == "topic_id" || name == "topic":
			cols.topic = i
		case name == "question" || name == "text":
			cols.text = i
		case name == "correct":
			cols.correct = i
		case name == "explanation":
			cols.explanation = i
		case strings.HasPrefix(name, "option"):
			cols.options = append(cols.options, i)
		}
	}

	var missing []string
	if cols.id < 0 {
		missing = append(missing, "id")
	}
	if cols.topic < 0 {
		missing = append(missing, "topic_id")
	}
	if cols.text < 0 {
		missing = append(missing, "question")
	}
	if cols.correct < 0 {
		missing = append(missing, "correct")
	}
	if len(cols.options) == 0 {
		missing = append(missing, "option_1")
	}
	if len(missing) > 0 {
		return cols, fmt.Errorf("header is missing columns: %s", strings.Join(missing, ", "))
	}
	return cols, nil
}

// rowToRaw builds the loose map form that decodeQuestion validates.
func (c columnMap) rowToRaw(row []string) (map[string]any, error) {
	var options []any
	for _, idx := range c.options {
		if v := cell(row, idx); v != "" {
			options = append(options, v)
		}
	}

	correct, err := strconv.Atoi(cell(row, c.correct))
	if err != nil {
		return nil, fmt.Errorf("correct must be an option number: %w", err)
	}
	if correct < 1 {
		return nil, fmt.Errorf("correct must be >= 1, got %d", correct)
	}

	raw := map[string]any{
		"id":            cell(row, c.id),
		"topic_id":      cell(row, c.topic),
		"text":          cell(row, c.text),
		"options":       options,
		"correct_index": correct - 1,
	}
	if c.explanation >= 0 {
		raw["explanation"] = cell(row, c.explanation)
	}
	return raw, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
