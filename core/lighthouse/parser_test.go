package lighthouse_test

import (
	"errors"
	"testing"

	"refraction/core/lighthouse"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ticketsXML = `<?xml version="1.0" encoding="UTF-8"?>
<tickets type="array">
  <ticket>
    <number type="integer">12</number>
    <Title>Crash on save</Title>
    <state>open</state>
    <milestone-id type="integer" nil="true"></milestone-id>
    <url>http://refraction.lighthouseapp.com/projects/55411/tickets/12</url>
    <assigned-user-name>Sam</assigned-user-name>
  </ticket>
  <ticket>
    <number type="integer">13</number>
    <title>  Slow import  </title>
    <versions type="array">
      <version><body>first</body></version>
    </versions>
    <state>new</state>
  </ticket>
</tickets>`

func TestParseTickets(t *testing.T) {
	items, err := lighthouse.ParseTickets([]byte(ticketsXML))
	require.NoError(t, err)
	require.Len(t, items, 2)

	first := items[0].Fields
	require.Len(t, first, 6)
	assert.Equal(t, "number", first[0].Name)
	assert.Equal(t, "12", first[0].Value)
	assert.Equal(t, "Title", first[1].Name)
	assert.Equal(t, "Crash on save", first[1].Value)
	assert.Equal(t, "milestone-id", first[3].Name)
	assert.Equal(t, "", first[3].Value)
	assert.NoError(t, first[3].Err)

	second := items[1].Fields
	require.Len(t, second, 4)
	assert.Equal(t, "Slow import", second[1].Value)
	assert.Equal(t, "versions", second[2].Name)
	assert.Error(t, second[2].Err)
	assert.Equal(t, "state", second[3].Name)
	assert.Equal(t, "new", second[3].Value)
}

func TestParseTickets_EmptyResults(t *testing.T) {
	for name, doc := range map[string]string{
		"EmptyArray":  `<tickets type="array"></tickets>`,
		"SelfClosing": `<tickets/>`,
		"RailsNil":    `<?xml version="1.0"?><nil-classes type="array"/>`,
	} {
		t.Run(name, func(t *testing.T) {
			items, err := lighthouse.ParseTickets([]byte(doc))
			require.NoError(t, err)
			assert.Empty(t, items)
		})
	}
}

func TestParseTickets_IgnoresNonTicketChildren(t *testing.T) {
	items, err := lighthouse.ParseTickets([]byte(`<tickets><page>1</page><ticket><number>1</number></ticket></tickets>`))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "1", items[0].Fields[0].Value)
}

func TestParseTickets_Failures(t *testing.T) {
	cases := map[string]string{
		"Empty":       ``,
		"NotXML":      `{"tickets": []}`,
		"WrongRoot":   `<html><body>Login</body></html>`,
		"Truncated":   `<tickets><ticket><number>1</number>`,
		"Mismatched":  `<tickets><ticket><number>1</title></ticket></tickets>`,
		"TrailingDoc": `<tickets></tickets><tickets></tickets>`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := lighthouse.ParseTickets([]byte(doc))
			require.Error(t, err)
			assert.True(t, errors.Is(err, lighthouse.ErrParse))
		})
	}
}
