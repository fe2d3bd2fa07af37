package source

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ezBadminton/volleyrank/sheet"
)

// Sheets holds the match sheets by day and match ID.
type Sheets = map[int]map[string]*sheet.SheetMatch

// ReadSheets reads match sheets in one of two layouts: an array with
// one {matchID: sheet} object per day starting at day 1, or a single
// {matchID: sheet} object where each sheet carries its day.
func ReadSheets(r io.Reader) (Sheets, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read sheets: %w", err)
	}
	data = bytes.TrimSpace(data)
	sheets := make(Sheets)
	if len(data) == 0 {
		return sheets, nil
	}

	if data[0] == '[' {
		var days []map[string]*sheet.SheetMatch
		if err := json.Unmarshal(data, &days); err != nil {
			return nil, fmt.Errorf("decode sheets: %w", err)
		}
		for i, matches := range days {
			for id, sm := range matches {
				if sm == nil {
					delete(matches, id)
				}
			}
			if len(matches) > 0 {
				sheets[i+1] = matches
			}
		}
		return sheets, nil
	}

	var matches map[string]*sheet.SheetMatch
	if err := json.Unmarshal(data, &matches); err != nil {
		return nil, fmt.Errorf("decode sheets: %w", err)
	}
	for id, sm := range matches {
		if sm == nil {
			continue
		}
		day, err := strconv.Atoi(strings.TrimSpace(sm.Day))
		if err != nil || day < 1 {
			return nil, fmt.Errorf("decode sheets: match %s has no day", id)
		}
		if sheets[day] == nil {
			sheets[day] = make(map[string]*sheet.SheetMatch)
		}
		sheets[day][id] = sm
	}
	return sheets, nil
}

func ReadSheetsFile(path string) (Sheets, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sheets %s: %w", path, err)
	}
	defer f.Close()

	sheets, err := ReadSheets(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sheets, nil
}
