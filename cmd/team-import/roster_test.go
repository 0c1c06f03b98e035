package main

import (
	"strings"
	"testing"

	"crm_backend/internal/team"
	"crm_backend/platform/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRoster(t *testing.T) {
	doc := `
members:
  - name: John Smith
    email: John.Smith@Example.com
    territory: West Coast
  - name: "  Emma Wilson "
    email: emma@example.com
    territory: East Coast
`
	got, err := parseRoster(strings.NewReader(doc), validator.New())
	require.NoError(t, err)
	assert.Equal(t, []team.CreateParams{
		{Name: "John Smith", Email: "john.smith@example.com", Territory: "West Coast"},
		{Name: "Emma Wilson", Email: "emma@example.com", Territory: "East Coast"},
	}, got)
}

func TestParseRosterRejectsBadInput(t *testing.T) {
	tests := map[string]string{
		"empty":         "members: []\n",
		"missing email": "members:\n  - name: David Kim\n",
		"bad email":     "members:\n  - name: David Kim\n    email: not-an-email\n",
		"unknown field": "members:\n  - name: David Kim\n    email: david@example.com\n    phone: 555\n",
		"duplicate":     "members:\n  - name: A\n    email: a@example.com\n  - name: B\n    email: A@example.com\n",
	}

	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := parseRoster(strings.NewReader(doc), validator.New())
			assert.Error(t, err)
		})
	}
}
