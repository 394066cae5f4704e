package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortuna/mystats/internal/stats"
)

func TestParseCSV(t *testing.T) {
	text := "\ufeffdate, opponent ,pts,ast\r\n" +
		"2024-07-01,Kings,21,4\r\n" +
		"\r\n" +
		",,,\r\n" +
		"2024-07-08,\"Bears, North\",9\r\n"

	rows, err := ParseCSV(text)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, stats.RawRow{"date": "2024-07-01", "opponent": "Kings", "pts": "21", "ast": "4"}, rows[0])
	assert.Equal(t, "Bears, North", rows[1]["opponent"])
	assert.Equal(t, "", rows[1]["ast"], "short rows are padded")
}

func TestParseCSV_Empty(t *testing.T) {
	rows, err := ParseCSV("")
	require.NoError(t, err)
	assert.Empty(t, rows)

	rows, err = ParseCSV("pts,ast\n")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

const publishedSheet = `<html><body><div id="sheets-viewport"><table class="waffle">
<thead><tr><th class="row-header"></th><th>A</th><th>B</th><th>C</th></tr></thead>
<tbody>
<tr><th class="row-headers-background">1</th><td></td><td></td><td></td></tr>
<tr><th class="row-headers-background">2</th><td>player</td><td>team</td><td>pts</td></tr>
<tr><th class="row-headers-background">3</th><td> Sam Lee </td><td>hawks</td><td>21</td></tr>
<tr><th class="row-headers-background">4</th><td>Ana Diaz</td><td>kings</td></tr>
</tbody></table></div></body></html>`

func TestParseHTMLTable(t *testing.T) {
	rows, err := ParseHTMLTable(publishedSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, stats.RawRow{"player": "Sam Lee", "team": "hawks", "pts": "21"}, rows[0])
	assert.Equal(t, "", rows[1]["pts"])
}

func TestParseHTMLTable_NoTable(t *testing.T) {
	_, err := ParseHTMLTable("<html><body><p>moved</p></body></html>")
	assert.Error(t, err)
}

func TestParseTable_Sniffs(t *testing.T) {
	fromHTML, err := ParseTable("  \n" + publishedSheet)
	require.NoError(t, err)
	assert.Len(t, fromHTML, 2)

	fromCSV, err := ParseTable("player,pts\nSam,3\n")
	require.NoError(t, err)
	assert.Equal(t, []stats.RawRow{{"player": "Sam", "pts": "3"}}, fromCSV)
}
