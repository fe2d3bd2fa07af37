package source

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const results = "Entité;Jo;Match;Date;Heure;EQA_no;EQA_nom;EQB_no;EQB_nom;Set;Score;Total\n" +
	"ACJEUNES;1;2AA001;12/10/24;14:00;0750001;PARIS VB;0750002;ST MAUR;3/0;25-15,25-20,25-15;75-50\n" +
	"\n" +
	"ACJEUNES;1;2AA002;12/10/24;15:00;0750002;ST MAUR;0920001;BOULOGNE;;;\n"

func TestReadRows(t *testing.T) {
	rows, err := ReadRows(strings.NewReader(results))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("read %d rows", len(rows))
	}
	r := rows[0]
	if r.Entity != "ACJEUNES" || r.DayNumber() != 1 || r.Match != "2AA001" || r.Time != "14:00" {
		t.Fatal("row fields are wrong")
	}
	if r.TeamA != "0750001" || r.TeamBName != "ST MAUR" || r.Set != "3/0" || r.Total != "75-50" {
		t.Fatal("team or score fields are wrong")
	}
	if rows[1].Set != "" || rows[1].Score != "" {
		t.Fatal("an unplayed match has a score")
	}
}

func TestReadRowsLatin1(t *testing.T) {
	data := []byte("Entit\xe9;Jo;Match;EQA_no;EQA_nom;EQB_no;EQB_nom\nACJEUNES;1;0AA001;1;ST \xc9TIENNE;2;B\n")
	rows, err := ReadRows(strings.NewReader(string(data)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 || rows[0].Entity != "ACJEUNES" || rows[0].TeamAName != "ST ÉTIENNE" {
		t.Fatal("latin-1 file was not decoded")
	}
}

func TestReadRowsErrors(t *testing.T) {
	_, err := ReadRows(strings.NewReader("Jo;Match;EQA_no\n1;0AA001;1\n"))
	if !errors.Is(err, ErrMissingColumn) {
		t.Fatal("a header without the second team did not error")
	}

	rows, err := ReadRows(strings.NewReader(""))
	if err != nil || len(rows) != 0 {
		t.Fatal("an empty file is not empty")
	}

	if _, err := ReadRowsFile(filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Fatal("a missing file did not error")
	}
}

const sheetJSON = `{
	"match": "2AA001",
	"day": "%s",
	"teamA": {"name": "PARIS VB", "players": [{"number": "1", "licence": "X1"}]},
	"teamB": {"name": "ST MAUR"},
	"sets": [{"pointsA": [25], "pointsB": [-1, 0], "inverted": true}]
}`

func sheetOf(day string) string {
	return strings.Replace(sheetJSON, "%s", day, 1)
}

func TestReadSheets(t *testing.T) {
	byDay := "[{}, {\"2AA001\": " + sheetOf("2") + "}]"
	sheets, err := ReadSheets(strings.NewReader(byDay))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sm := sheets[2]["2AA001"]
	if len(sheets) != 1 || sm == nil {
		t.Fatal("sheets are not indexed by day")
	}
	if sm.TeamA.Players[0].Licence != "X1" || !sm.Sets[0].Inverted || sm.Sets[0].PointsB[0] != -1 {
		t.Fatal("sheet fields are wrong")
	}

	path := filepath.Join(t.TempDir(), "sheets.json")
	if err := os.WriteFile(path, []byte("{\"2AA001\": "+sheetOf("3")+"}"), 0o644); err != nil {
		t.Fatal(err)
	}
	sheets, err = ReadSheetsFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sheets[3]["2AA001"] == nil {
		t.Fatal("sheets are not grouped by their day")
	}

	if _, err := ReadSheets(strings.NewReader("{\"2AA001\": " + sheetOf("") + "}")); err == nil {
		t.Fatal("a sheet without a day did not error")
	}
	if sheets, err := ReadSheets(strings.NewReader("  ")); err != nil || len(sheets) != 0 {
		t.Fatal("an empty file is not empty")
	}
}

func TestReadSheetsNull(t *testing.T) {
	byID := "{\"2AA001\": null, \"2AA002\": " + sheetOf("1") + "}"
	sheets, err := ReadSheets(strings.NewReader(byID))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sheets[1]) != 1 || sheets[1]["2AA002"] == nil {
		t.Fatal("a null sheet was kept")
	}

	byDay := "[{\"2AA001\": null}, {\"2AA002\": null, \"2AA003\": " + sheetOf("2") + "}]"
	sheets, err = ReadSheets(strings.NewReader(byDay))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sheets) != 1 || len(sheets[2]) != 1 || sheets[2]["2AA003"] == nil {
		t.Fatal("null sheets were kept")
	}
}
