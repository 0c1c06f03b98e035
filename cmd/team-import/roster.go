package main

import (
	"fmt"
	"io"
	"strings"

	"crm_backend/internal/team"
	"crm_backend/platform/validator"

	"gopkg.in/yaml.v3"
)

type rosterEntry struct {
	Name      string `yaml:"name" validate:"required,max=200"`
	Email     string `yaml:"email" validate:"required,email,max=254"`
	Territory string `yaml:"territory" validate:"max=100"`
}

type roster struct {
	Members []rosterEntry `yaml:"members" validate:"required,min=1,dive"`
}

// parseRoster decodes and validates a YAML roster. Emails are lowercased and
// must be unique within the file.
func parseRoster(r io.Reader, val *validator.Validator) ([]team.CreateParams, error) {
	var doc roster
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode roster: %w", err)
	}
	if err := val.Struct(doc); err != nil {
		return nil, fmt.Errorf("invalid roster: %v", validator.FieldErrors(err))
	}

	seen := make(map[string]struct{}, len(doc.Members))
	out := make([]team.CreateParams, 0, len(doc.Members))
	for _, m := range doc.Members {
		email := strings.ToLower(strings.TrimSpace(m.Email))
		if _, dup := seen[email]; dup {
			return nil, fmt.Errorf("invalid roster: duplicate email %s", email)
		}
		seen[email] = struct{}{}
		out = append(out, team.CreateParams{
			Name:      strings.TrimSpace(m.Name),
			Email:     email,
			Territory: strings.TrimSpace(m.Territory),
		})
	}
	return out, nil
}
