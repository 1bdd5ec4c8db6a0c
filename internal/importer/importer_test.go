package importer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/example/flashbot/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type fakeCreator struct {
	created []models.Card
	failOn  string
}

func (c *fakeCreator) Create(_ context.Context, card *models.Card) error {
	if c.failOn != "" && card.Question == c.failOn {
		return assert.AnError
	}
	c.created = append(c.created, *card)
	return nil
}

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cards.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestImportCards_CSV(t *testing.T) {
	creator := &fakeCreator{}
	im := New(creator)

	cfg := DefaultConfig()
	cfg.OwnerID = 7
	cfg.FilePath = writeTempCSV(t,
		"question,answer,type\n"+
			"What is 2+2?,4,basic\n"+
			"The capital of France is {{c1::Paris}},Paris,cloze\n"+
			",missing question,\n"+
			"missing answer,,\n")

	result, err := im.ImportCards(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, 4, result.TotalProcessed) // header row is skipped entirely
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 2, result.Skipped)
	assert.Empty(t, result.Errors)

	require.Len(t, creator.created, 2)
	assert.Equal(t, int64(7), creator.created[0].UserID)
	assert.Equal(t, "What is 2+2?", creator.created[0].Question)
	assert.Equal(t, "basic", creator.created[0].CardType)
	assert.Equal(t, "cloze", creator.created[1].CardType)
}

func TestImportCards_CSVRowError(t *testing.T) {
	creator := &fakeCreator{failOn: "bad row"}
	im := New(creator)

	cfg := DefaultConfig()
	cfg.OwnerID = 7
	cfg.StartRow = 1 // no header
	cfg.FilePath = writeTempCSV(t, "good row,answer\nbad row,answer\n")

	result, err := im.ImportCards(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Created)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "row 2")
}

func TestImportCards_Excel(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "Question"))
	require.NoError(t, f.SetCellValue("Sheet1", "B1", "Answer"))
	require.NoError(t, f.SetCellValue("Sheet1", "A2", "What is the integral of 1/x?"))
	require.NoError(t, f.SetCellValue("Sheet1", "B2", "ln|x| + C"))
	require.NoError(t, f.SetCellValue("Sheet1", "A3", "What is the area of a circle?"))
	require.NoError(t, f.SetCellValue("Sheet1", "B3", "pi r^2"))

	path := filepath.Join(t.TempDir(), "cards.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	creator := &fakeCreator{}
	im := New(creator)

	cfg := DefaultConfig()
	cfg.OwnerID = 7
	cfg.FilePath = path

	result, err := im.ImportCards(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Created)
	assert.Zero(t, result.Skipped)
	require.Len(t, creator.created, 2)
	assert.Equal(t, "What is the integral of 1/x?", creator.created[0].Question)
}

func TestImportCards_MissingOwner(t *testing.T) {
	im := New(&fakeCreator{})

	cfg := DefaultConfig()
	cfg.FilePath = "cards.csv"

	_, err := im.ImportCards(context.Background(), cfg)
	assert.Error(t, err)
}
