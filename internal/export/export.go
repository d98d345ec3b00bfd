// Package export renders a season plan as an Excel workbook.
package export

import (
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/example/plsched/internal/roster"
	"github.com/example/plsched/internal/template"
)

// Generate creates a workbook with the master schedule and per-team
// sheets.
func Generate(divisionName string, rows []template.Row, res *roster.Resolver) (*excelize.File, error) {
	f := excelize.NewFile()
	f.SetDefaultFont("Arial")

	if err := writeMasterSheet(f, divisionName, rows, res); err != nil {
		return nil, fmt.Errorf("writing master sheet: %w", err)
	}
	if err := writeTeamSheets(f, rows, res); err != nil {
		return nil, fmt.Errorf("writing team sheets: %w", err)
	}

	f.DeleteSheet("Sheet1")
	return f, nil
}

func teamName(res *roster.Resolver, id int) string {
	if t, ok := res.Lookup(id); ok {
		return t.Name
	}
	return fmt.Sprintf("Team %d", id)
}

// lineKey identifies one master sheet line: a kickoff within a week.
type lineKey struct {
	week    int
	kickoff string
}

func writeMasterSheet(f *excelize.File, divisionName string, rows []template.Row, res *roster.Resolver) error {
	sheet := divisionName
	if sheet == "" {
		sheet = "Master Schedule"
	}
	f.NewSheet(sheet)

	headers := []string{"Week", "Date", "Day", "Time", "North", "South"}
	for i, h := range headers {
		f.SetCellValue(sheet, cellRef(i+1, 1), h)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 16, Family: "Arial"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#4472C4"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if headerStyle != 0 {
		for i := range headers {
			f.SetCellStyle(sheet, cellRef(i+1, 1), cellRef(i+1, 1), headerStyle)
		}
	}

	cellStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Size: 16, Family: "Arial"},
	})
	fieldCellStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Size: 16, Family: "Arial"},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})

	byLine := make(map[lineKey][]template.Row)
	var lines []lineKey
	for _, r := range rows {
		k := lineKey{r.WeekNumber, r.Kickoff}
		if _, ok := byLine[k]; !ok {
			lines = append(lines, k)
		}
		byLine[k] = append(byLine[k], r)
	}
	sort.Slice(lines, func(i, j int) bool {
		if lines[i].week != lines[j].week {
			return lines[i].week < lines[j].week
		}
		return lines[i].kickoff < lines[j].kickoff
	})

	for i, k := range lines {
		row := i + 2
		line := byLine[k]
		f.SetCellValue(sheet, cellRef(1, row), k.week)
		f.SetCellValue(sheet, cellRef(2, row), line[0].Date.Format("01/02/2006"))
		f.SetCellValue(sheet, cellRef(3, row), line[0].Date.Format("Mon"))
		f.SetCellValue(sheet, cellRef(4, row), k.kickoff)

		for _, r := range line {
			col := 5
			if r.Field == "South" {
				col = 6
			}
			f.SetCellValue(sheet, cellRef(col, row), cellText(r, res))
		}

		if cellStyle != 0 {
			for col := 1; col <= 4; col++ {
				f.SetCellStyle(sheet, cellRef(col, row), cellRef(col, row), cellStyle)
			}
			for col := 5; col <= 6; col++ {
				f.SetCellStyle(sheet, cellRef(col, row), cellRef(col, row), fieldCellStyle)
			}
		}
	}

	f.SetColWidth(sheet, "A", "A", 8)
	f.SetColWidth(sheet, "B", "B", 18)
	f.SetColWidth(sheet, "C", "C", 8)
	f.SetColWidth(sheet, "D", "D", 10)
	f.SetColWidth(sheet, "E", "F", 34)

	return nil
}

// cellText renders a row for the master sheet. Fixtures read
// "Away @ Home"; playoff slots and special week rows carry a title
// instead.
func cellText(r template.Row, res *roster.Resolver) string {
	switch {
	case r.IsPlayoff && r.Placeholder():
		return fmt.Sprintf("Playoff R%d: %s", r.PlayoffRound, teamName(res, r.HomeTeamID))
	case r.IsPractice && r.Placeholder():
		return fmt.Sprintf("Practice: %s", teamName(res, r.HomeTeamID))
	case r.Placeholder():
		return fmt.Sprintf("%s: %s", r.WeekType, teamName(res, r.HomeTeamID))
	default:
		return fmt.Sprintf("%s @ %s", teamName(res, r.AwayTeamID), teamName(res, r.HomeTeamID))
	}
}

func writeTeamSheets(f *excelize.File, rows []template.Row, res *roster.Resolver) error {
	for _, team := range res.Teams() {
		sheet := team.Name
		f.NewSheet(sheet)

		headers := []string{"Week", "Date", "Day", "Time", "Field", "Opponent", "Home/Away"}
		for i, h := range headers {
			f.SetCellValue(sheet, cellRef(i+1, 1), h)
		}

		headerStyle, _ := f.NewStyle(&excelize.Style{
			Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 16, Family: "Arial"},
			Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#4472C4"}},
			Alignment: &excelize.Alignment{Horizontal: "center"},
		})
		if headerStyle != 0 {
			for i := range headers {
				f.SetCellStyle(sheet, cellRef(i+1, 1), cellRef(i+1, 1), headerStyle)
			}
		}

		type teamGame struct {
			row      template.Row
			opponent string
			homeAway string
		}
		var games []teamGame
		for _, r := range rows {
			switch {
			case r.Placeholder() && r.HomeTeamID == team.ID:
				label := r.WeekType
				if r.IsPractice {
					label = "Practice"
				}
				games = append(games, teamGame{row: r, opponent: label, homeAway: ""})
			case r.HomeTeamID == team.ID:
				games = append(games, teamGame{row: r, opponent: teamName(res, r.AwayTeamID), homeAway: "Home"})
			case r.AwayTeamID == team.ID:
				games = append(games, teamGame{row: r, opponent: teamName(res, r.HomeTeamID), homeAway: "Away"})
			}
		}
		sort.Slice(games, func(i, j int) bool {
			a, b := games[i].row, games[j].row
			if a.WeekNumber != b.WeekNumber {
				return a.WeekNumber < b.WeekNumber
			}
			return a.Kickoff < b.Kickoff
		})

		cellStyle, _ := f.NewStyle(&excelize.Style{
			Font: &excelize.Font{Size: 16, Family: "Arial"},
		})

		for i, g := range games {
			row := i + 2
			f.SetCellValue(sheet, cellRef(1, row), g.row.WeekNumber)
			f.SetCellValue(sheet, cellRef(2, row), g.row.Date.Format("01/02/2006"))
			f.SetCellValue(sheet, cellRef(3, row), g.row.Date.Format("Mon"))
			f.SetCellValue(sheet, cellRef(4, row), g.row.Kickoff)
			f.SetCellValue(sheet, cellRef(5, row), g.row.Field)
			f.SetCellValue(sheet, cellRef(6, row), g.opponent)
			f.SetCellValue(sheet, cellRef(7, row), g.homeAway)
			if cellStyle != 0 {
				for col := 1; col <= len(headers); col++ {
					f.SetCellStyle(sheet, cellRef(col, row), cellRef(col, row), cellStyle)
				}
			}
		}

		widths := map[string]float64{"A": 8, "B": 18, "C": 8, "D": 10, "E": 12, "F": 22, "G": 14}
		for col, w := range widths {
			f.SetColWidth(sheet, col, col, w)
		}
	}

	return nil
}

func cellRef(col, row int) string {
	return fmt.Sprintf("%s%d", colLetter(col), row)
}

func colLetter(col int) string {
	result := ""
	for col > 0 {
		col--
		result = string(rune('A'+col%26)) + result
		col /= 26
	}
	return result
}
