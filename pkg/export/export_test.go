package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	f, err = ParseFormat(" PDF ")
	require.NoError(t, err)
	assert.Equal(t, FormatPDF, f)

	_, err = ParseFormat("xlsx")
	assert.Error(t, err)
}

func TestRenderCSVPadsShortRows(t *testing.T) {
	file, err := Render(FormatCSV, "roster", Table{
		Headers: []string{"Name", "Email"},
		Rows:    [][]string{{"Ana", "ana@example.com"}, {"Budi"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "roster.csv", file.Name)
	assert.Equal(t, "text/csv; charset=utf-8", file.ContentType)
	assert.Equal(t, "Name,Email\nAna,ana@example.com\nBudi,\n", string(file.Data))
}

func TestRenderPDF(t *testing.T) {
	file, err := Render(FormatPDF, "roster", Table{
		Title:   "Algebra",
		Headers: []string{"Name"},
		Rows:    [][]string{{"Ana"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, bytes.HasPrefix(file.Data, []byte("%PDF")))
}

func TestRenderRequiresHeaders(t *testing.T) {
	_, err := Render(FormatCSV, "roster", Table{})
	assert.Error(t, err)
}
