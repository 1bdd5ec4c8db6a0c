package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/flashbot/pkg/models"
	"github.com/xuri/excelize/v2"
)

// Config defines how card fields map onto the spreadsheet columns
type Config struct {
	FilePath       string // Path to the Excel or CSV file
	OwnerID        int64  // User the imported cards belong to
	QuestionColumn string // Column with the question
	AnswerColumn   string // Column with the answer
	TypeColumn     string // Column with the card type (optional)
	SheetName      string // Name of the sheet to import
	StartRow       int    // The row to start importing from (1-based index)
}

// DefaultConfig returns the default import configuration
func DefaultConfig() Config {
	return Config{
		QuestionColumn: "A",
		AnswerColumn:   "B",
		TypeColumn:     "C",
		SheetName:      "Sheet1",
		StartRow:       2, // By default, start from the second row (skip header)
	}
}

// Result holds the result of an import operation
type Result struct {
	TotalProcessed int
	Created        int
	Skipped        int
	Errors         []string
}

// CardCreator is the storage the importer writes through
type CardCreator interface {
	Create(ctx context.Context, card *models.Card) error
}

// Importer loads cards in bulk from Excel or CSV files. Imported cards
// start with the default scheduling state and are immediately due.
type Importer struct {
	cards CardCreator
}

// New creates a new importer writing through the given store
func New(cards CardCreator) *Importer {
	return &Importer{cards: cards}
}

// ImportCards imports cards from an Excel or CSV file
func (im *Importer) ImportCards(ctx context.Context, config Config) (*Result, error) {
	if config.OwnerID == 0 {
		return nil, fmt.Errorf("import config is missing the owner")
	}

	ext := strings.ToLower(filepath.Ext(config.FilePath))
	if ext == ".csv" {
		return im.importFromCSV(ctx, config)
	}
	return im.importFromExcel(ctx, config)
}

// importFromExcel imports cards from an Excel file
func (im *Importer) importFromExcel(ctx context.Context, config Config) (*Result, error) {
	f, err := excelize.OpenFile(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(config.SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %v", config.SheetName, err)
	}

	result := &Result{Errors: make([]string, 0)}
	for i := config.StartRow - 1; i < len(rows); i++ {
		im.importRow(ctx, config, rows[i], i+1, result)
	}
	return result, nil
}

// importFromCSV imports cards from a CSV file
func (im *Importer) importFromCSV(ctx context.Context, config Config) (*Result, error) {
	f, err := os.Open(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %v", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // Rows may have trailing empty columns trimmed

	result := &Result{Errors: make([]string, 0)}
	rowNum := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %v", err)
		}
		rowNum++
		if rowNum < config.StartRow {
			continue
		}
		im.importRow(ctx, config, row, rowNum, result)
	}
	return result, nil
}

// importRow maps one spreadsheet row to a card and stores it
func (im *Importer) importRow(ctx context.Context, config Config, row []string, rowNum int, result *Result) {
	result.TotalProcessed++

	question := strings.TrimSpace(cellValue(row, config.QuestionColumn))
	answer := strings.TrimSpace(cellValue(row, config.AnswerColumn))
	cardType := strings.TrimSpace(cellValue(row, config.TypeColumn))

	// Rows without both a question and an answer are skipped, not errors
	if question == "" || answer == "" {
		result.Skipped++
		return
	}

	card := &models.Card{
		UserID:   config.OwnerID,
		Question: question,
		Answer:   answer,
		CardType: cardType,
	}
	if err := im.cards.Create(ctx, card); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", rowNum, err))
		return
	}
	result.Created++
}

// cellValue returns the value of a row cell addressed by column letter,
// or "" when the row is too short
func cellValue(row []string, column string) string {
	if column == "" {
		return ""
	}
	n, err := excelize.ColumnNameToNumber(column)
	if err != nil || n > len(row) {
		return ""
	}
	return row[n-1]
}
