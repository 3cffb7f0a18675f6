package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const sample = "\ufeffPlayerID,Player,Team,Position,Jersey Number,Age,Height (in),Weight (lbs),Draft Year,Draft Round,Overall Draft Position,Draft Team,Headshot\n" +
	"8478402,Connor McDavid,EDM,C,97,28,73,194,2015,1,1,EDM,https://img/97.png\n" +
	",Nobody,,,,,,,,,,,\n" +
	"8471214,Alex Ovechkin,WSH,,8,,,,,,,,\n"

func TestParseCSV(t *testing.T) {
	res, err := parseCSV(strings.NewReader(sample))
	require.NoError(t, err)
	require.Equal(t, 1, res.Skipped)
	require.Len(t, res.Rows, 2)

	mcd := res.Rows[0]
	require.Equal(t, "8478402", mcd.ExternalID)
	require.Equal(t, "Connor McDavid", mcd.Name)
	require.Equal(t, "EDM", *mcd.Team)
	require.Equal(t, 97, *mcd.JerseyNumber)
	require.Equal(t, 73, *mcd.Bio.HeightIn)
	require.Equal(t, 1, *mcd.Bio.DraftPosition)
	require.Nil(t, mcd.Bio.BirthCity)

	ovi := res.Rows[1]
	require.Equal(t, defaultPosition, ovi.Position)
	require.Nil(t, ovi.Bio.Age)

	bio, err := ovi.BioJSON()
	require.NoError(t, err)
	require.JSONEq(t, `{}`, string(bio))
}

func TestParseCSVRequiresPlayerID(t *testing.T) {
	_, err := parseCSV(strings.NewReader("Player,Team\nX,Y\n"))
	require.ErrorContains(t, err, "PlayerID")

	res, err := parseCSV(strings.NewReader(""))
	require.NoError(t, err)
	require.Empty(t, res.Rows)
}
