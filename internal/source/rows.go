// Package source reads the results files and the match sheets the
// processing works on.
package source

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/ezBadminton/volleyrank/core"
)

var (
	ErrMissingColumn = errors.New("missing column in results header")
)

const (
	colEntity    = "Entit"
	colDay       = "Jo"
	colMatch     = "Match"
	colDate      = "Date"
	colTime      = "Heure"
	colTeamA     = "EQA_no"
	colTeamAName = "EQA_nom"
	colTeamB     = "EQB_no"
	colTeamBName = "EQB_nom"
	colSet       = "Set"
	colScore     = "Score"
	colTotal     = "Total"
)

var requiredColumns = []string{colDay, colMatch, colTeamA, colTeamB}

type header map[string]int

func newHeader(fields []string) header {
	h := make(header, len(fields))
	for i, f := range fields {
		f = strings.TrimSpace(f)
		// The accented entity column is spelled differently depending on
		// the export encoding
		if strings.HasPrefix(f, colEntity) {
			f = colEntity
		}
		h[f] = i
	}
	return h
}

func (h header) get(record []string, col string) string {
	i, ok := h[col]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// ReadRows reads the rows of a ';' separated results file with a
// header line. Files that are not valid UTF-8 are read as Latin-1.
func ReadRows(r io.Reader) ([]core.Row, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read results: %w", err)
	}
	if !utf8.Valid(data) {
		data, err = charmap.ISO8859_1.NewDecoder().Bytes(data)
		if err != nil {
			return nil, fmt.Errorf("decode results: %w", err)
		}
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	fields, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read results header: %w", err)
	}
	h := newHeader(fields)
	for _, col := range requiredColumns {
		if _, ok := h[col]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read results: %w", err)
	}

	rows := make([]core.Row, 0, len(records))
	for _, rec := range records {
		row := core.Row{
			Entity:    h.get(rec, colEntity),
			Day:       h.get(rec, colDay),
			Match:     h.get(rec, colMatch),
			Date:      h.get(rec, colDate),
			Time:      h.get(rec, colTime),
			TeamA:     h.get(rec, colTeamA),
			TeamAName: h.get(rec, colTeamAName),
			TeamB:     h.get(rec, colTeamB),
			TeamBName: h.get(rec, colTeamBName),
			Set:       h.get(rec, colSet),
			Score:     h.get(rec, colScore),
			Total:     h.get(rec, colTotal),
		}
		if row.Match == "" {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func ReadRowsFile(path string) ([]core.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open results %s: %w", path, err)
	}
	defer f.Close()

	rows, err := ReadRows(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}
