package main

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mcdev12/pickswap/go/internal/models"
)

const defaultPosition = "F"

// Row is one player from the bios export
type Row struct {
	ExternalID   string
	Name         string
	Team         *string
	Position     string
	HeadshotURL  *string
	JerseyNumber *int
	Bio          models.PlayerBio
}

// BioJSON encodes the jsonb bio column
func (r Row) BioJSON() ([]byte, error) {
	return json.Marshal(r.Bio)
}

// ParseResult holds the importable rows and how many lines were skipped
type ParseResult struct {
	Rows    []Row
	Skipped int
}

// parseCSV reads the skater bios export. Rows without a PlayerID are skipped.
func parseCSV(r io.Reader) (*ParseResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return &ParseResult{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	if _, ok := index["PlayerID"]; !ok {
		return nil, fmt.Errorf("missing PlayerID column")
	}

	res := &ParseResult{}
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		get := func(col string) *string {
			i, ok := index[col]
			if !ok || i >= len(record) {
				return nil
			}
			v := strings.TrimSpace(record[i])
			if v == "" || v == "null" {
				return nil
			}
			return &v
		}
		getInt := func(col string) *int {
			v := get(col)
			if v == nil {
				return nil
			}
			n, err := strconv.Atoi(*v)
			if err != nil {
				return nil
			}
			return &n
		}

		id := get("PlayerID")
		if id == nil {
			res.Skipped++
			continue
		}

		row := Row{
			ExternalID:   *id,
			Name:         orDefault(get("Player"), "Unknown"),
			Team:         get("Team"),
			Position:     orDefault(get("Position"), defaultPosition),
			HeadshotURL:  get("Headshot"),
			JerseyNumber: getInt("Jersey Number"),
			Bio: models.PlayerBio{
				Age:           getInt("Age"),
				DateOfBirth:   get("Date of Birth"),
				BirthCity:     get("Birth City"),
				BirthCountry:  get("Birth Country"),
				Nationality:   get("Nationality"),
				HeightIn:      getInt("Height (in)"),
				WeightLbs:     getInt("Weight (lbs)"),
				DraftYear:     getInt("Draft Year"),
				DraftTeam:     get("Draft Team"),
				DraftRound:    getInt("Draft Round"),
				DraftPosition: getInt("Overall Draft Position"),
				TeamLogoURL:   get("Team Logo"),
			},
		}
		res.Rows = append(res.Rows, row)
	}
	return res, nil
}

func orDefault(v *string, def string) string {
	if v == nil {
		return def
	}
	return *v
}
