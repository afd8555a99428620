package scraper

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tds-export/utils"
)

const mappingPage = `<html><body>
<table>
  <tr><th>Field</th><th>Description</th></tr>
  <tr><td>Account</td><td>The loan account number.</td></tr>
  <tr>
    <td>NoteDate</td>
    <td>Date the note was signed.<br>Stored in server time.</td>
  </tr>
  <tr>
    <td>Status</td>
    <td><p>Current servicing status.</p><ul><li>Active</li><li>Paid Off</li></ul></td>
  </tr>
  <tr><td></td><td>ignored: blank field name</td></tr>
  <tr><td>lonely cell</td></tr>
</table>
</body></html>`

func TestFieldDefinitions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(mappingPage))
	}))
	defer srv.Close()

	defs := NewClient(utils.NewLogger()).FieldDefinitions(srv.URL)

	// The header row is harvested like any other: th cells count too.
	require.Len(t, defs, 4)
	assert.Equal(t, "Description", defs["Field"])
	assert.Equal(t, "The loan account number.", defs["Account"])
	assert.Equal(t, "Date the note was signed.\nStored in server time.", defs["NoteDate"])
	assert.Equal(t, "Current servicing status.\nActive\nPaid Off", defs["Status"])
}

func TestFieldDefinitionsEmptyURL(t *testing.T) {
	defs := NewClient(utils.NewLogger()).FieldDefinitions("")
	assert.Empty(t, defs)
}

func TestFieldDefinitionsUnreachableHost(t *testing.T) {
	defs := NewClient(utils.NewLogger()).FieldDefinitions("http://127.0.0.1:1/mapping")
	assert.Empty(t, defs)
}

func TestFieldDefinitionsBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	defs := NewClient(utils.NewLogger()).FieldDefinitions(srv.URL)
	assert.Empty(t, defs)
}
