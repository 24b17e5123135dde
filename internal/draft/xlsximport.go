package draft

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ImportQuestions reads a question bank from the first sheet of an XLSX
// workbook. Each row after the header holds: question text, options A–D,
// correct letter. Blank rows are skipped; a row with a malformed correct
// letter fails the whole import so a typo cannot silently drop a question.
func ImportQuestions(path string) ([]Question, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	if len(rows) < 2 {
		return []Question{}, nil
	}

	questions := []Question{}
	for i, row := range rows[1:] { // rows[0] is the header
		if isBlankRow(row) {
			continue
		}
		if len(row) < 6 {
			return nil, fmt.Errorf("row %d: want 6 columns (text, A, B, C, D, correct), got %d", i+2, len(row))
		}

		correct := strings.ToUpper(strings.TrimSpace(row[5]))
		q := Question{
			Text:    strings.TrimSpace(row[0]),
			OptionA: strings.TrimSpace(row[1]),
			OptionB: strings.TrimSpace(row[2]),
			OptionC: strings.TrimSpace(row[3]),
			OptionD: strings.TrimSpace(row[4]),
			Correct: correct,
		}
		if _, ok := q.Option(correct); !ok {
			return nil, fmt.Errorf("row %d: correct option %q is not one of A-D", i+2, row[5])
		}
		questions = append(questions, q)
	}

	return questions, nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
