package export

import (
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/example/plsched/internal/roster"
	"github.com/example/plsched/internal/template"
)

func testData() ([]template.Row, *roster.Resolver) {
	res := roster.NewResolver([]roster.Team{
		{ID: 101, Name: "Maple FC"},
		{ID: 102, Name: "Harbor United"},
		{ID: 103, Name: "Ridgeline SC"},
		{ID: 104, Name: "North End Rovers"},
	})

	date := time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC)
	rows := []template.Row{
		{WeekNumber: 1, HomeTeamID: 101, AwayTeamID: 102, Date: date, Kickoff: "13:10", Field: "North", WeekType: "REGULAR"},
		{WeekNumber: 1, HomeTeamID: 103, AwayTeamID: 104, Date: date, Kickoff: "13:10", Field: "South", WeekType: "REGULAR"},
		{WeekNumber: 1, HomeTeamID: 102, AwayTeamID: 103, Date: date, Kickoff: "14:20", Field: "North", WeekType: "REGULAR"},
		{WeekNumber: 1, HomeTeamID: 104, AwayTeamID: 101, Date: date, Kickoff: "14:20", Field: "South", WeekType: "REGULAR"},
		{WeekNumber: 2, HomeTeamID: 101, AwayTeamID: 101, Date: date.AddDate(0, 0, 7), Kickoff: "13:10", Field: "North",
			WeekType: "PLAYOFF", IsSpecial: true, IsPlayoff: true, PlayoffRound: 1},
	}
	return rows, res
}

func TestGenerateWorkbook(t *testing.T) {
	rows, res := testData()
	f, err := Generate("Classic", rows, res)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	t.Run("has master sheet", func(t *testing.T) {
		idx, err := f.GetSheetIndex("Classic")
		if err != nil {
			t.Fatalf("GetSheetIndex error: %v", err)
		}
		if idx < 0 {
			t.Error("Classic sheet not found")
		}
	})

	t.Run("master sheet has headers", func(t *testing.T) {
		val, _ := f.GetCellValue("Classic", "A1")
		if val != "Week" {
			t.Errorf("A1 = %q, want Week", val)
		}
		val, _ = f.GetCellValue("Classic", "E1")
		if val != "North" {
			t.Errorf("E1 = %q, want North", val)
		}
	})

	t.Run("master sheet has fixture cells", func(t *testing.T) {
		val, _ := f.GetCellValue("Classic", "E2")
		if val != "Harbor United @ Maple FC" {
			t.Errorf("E2 = %q, want %q", val, "Harbor United @ Maple FC")
		}
		val, _ = f.GetCellValue("Classic", "F2")
		if val != "North End Rovers @ Ridgeline SC" {
			t.Errorf("F2 = %q, want %q", val, "North End Rovers @ Ridgeline SC")
		}
	})

	t.Run("playoff row has title cell", func(t *testing.T) {
		val, _ := f.GetCellValue("Classic", "E4")
		if val != "Playoff R1: Maple FC" {
			t.Errorf("E4 = %q, want %q", val, "Playoff R1: Maple FC")
		}
	})

	t.Run("has per-team sheets", func(t *testing.T) {
		for _, team := range []string{"Maple FC", "Harbor United", "Ridgeline SC", "North End Rovers"} {
			idx, err := f.GetSheetIndex(team)
			if err != nil {
				t.Fatalf("GetSheetIndex error: %v", err)
			}
			if idx < 0 {
				t.Errorf("sheet for %s not found", team)
			}
		}
	})

	t.Run("team sheet has correct games", func(t *testing.T) {
		rows, _ := f.GetRows("Maple FC")
		gameRows := 0
		for _, row := range rows[1:] { // skip header
			if len(row) >= 6 && row[5] != "" {
				gameRows++
			}
		}
		// Two regular fixtures and one playoff placeholder.
		if gameRows != 3 {
			t.Errorf("Maple FC sheet has %d entries, want 3", gameRows)
		}
	})

	t.Run("default Sheet1 removed", func(t *testing.T) {
		idx, _ := f.GetSheetIndex("Sheet1")
		if idx >= 0 {
			t.Error("Sheet1 should be removed")
		}
	})
}

func TestWriteAndRead(t *testing.T) {
	rows, res := testData()
	f, err := Generate("Classic", rows, res)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	path := t.TempDir() + "/test.xlsx"
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs error: %v", err)
	}

	f2, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile error: %v", err)
	}
	defer f2.Close()

	val, _ := f2.GetCellValue("Classic", "A1")
	if val != "Week" {
		t.Errorf("re-read A1 = %q, want Week", val)
	}
}
