package rpc

import (
	"strings"

	"github.com/google/uuid"

	"github.com/mcdev12/pickswap/go/internal/errs"
)

// ParseID parses a required id field
func ParseID(field, value string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil {
		return uuid.Nil, errs.Wrap(errs.KindValidation, err, "%s must be a valid id", field)
	}
	return id, nil
}

// ParseOptionalID returns nil for an empty value
func ParseOptionalID(field, value string) (*uuid.UUID, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	id, err := ParseID(field, value)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// ParseIDs parses every element of a repeated id field
func ParseIDs(field string, values []string) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, 0, len(values))
	for _, v := range values {
		id, err := ParseID(field, v)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}
