package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/example/plsched/internal/config"
	"github.com/example/plsched/internal/export"
	"github.com/example/plsched/internal/logging"
	"github.com/example/plsched/internal/plan"
	"github.com/example/plsched/internal/roster"
	"github.com/example/plsched/internal/store"
	"github.com/example/plsched/internal/template"
)

const defaultConfigFile = "config.yaml"

func resolveConfigPath(configFlag string) (string, error) {
	if configFlag != "" {
		return configFlag, nil
	}
	if _, err := os.Stat(defaultConfigFile); err == nil {
		return defaultConfigFile, nil
	}
	return "", fmt.Errorf("no config file found. Either create %s in the current directory or pass --config", defaultConfigFile)
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "plsched",
		Short: "Recreational league schedule template generator",
	}

	var verbose bool
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	var configFile string
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to config file (default: config.yaml in current directory)")

	newLogger := func() (*zap.SugaredLogger, error) {
		return logging.New("info", verbose)
	}

	var initOutputPath string
	initCmd := &cobra.Command{
		Use:          "init",
		Short:        "Create a starter config.yaml in the current directory",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(initOutputPath)
		},
	}
	initCmd.Flags().StringVarP(&initOutputPath, "output", "o", defaultConfigFile, "Output path for the config file")

	var outputFile string
	var dbPath string
	generateCmd := &cobra.Command{
		Use:          "generate",
		Short:        "Generate a season schedule template from a config file",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, err := resolveConfigPath(configFile)
			if err != nil {
				return err
			}
			log, err := newLogger()
			if err != nil {
				return err
			}
			defer log.Sync()
			return runGenerate(configPath, outputFile, dbPath, log)
		},
	}
	generateCmd.Flags().StringVarP(&outputFile, "output", "o", "schedule.xlsx", "Output Excel file path")
	generateCmd.Flags().StringVar(&dbPath, "db", "", "SQLite database to persist template rows into (optional)")

	previewCmd := &cobra.Command{
		Use:          "preview",
		Short:        "Generate a schedule template and print it without persisting",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, err := resolveConfigPath(configFile)
			if err != nil {
				return err
			}
			log, err := newLogger()
			if err != nil {
				return err
			}
			defer log.Sync()
			return runPreview(configPath, log)
		},
	}

	var commitDB string
	var commitIDs []int64
	commitCmd := &cobra.Command{
		Use:          "commit",
		Short:        "Turn persisted template rows into match records",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, err := resolveConfigPath(configFile)
			if err != nil {
				return err
			}
			log, err := newLogger()
			if err != nil {
				return err
			}
			defer log.Sync()
			return runCommit(configPath, commitDB, commitIDs, log)
		},
	}
	commitCmd.Flags().StringVar(&commitDB, "db", "schedule.db", "SQLite database holding template rows")
	commitCmd.Flags().Int64SliceVar(&commitIDs, "ids", nil, "Template row ids to commit (default: all uncommitted)")
	commitCmd.MarkFlagRequired("db")

	var deleteDB string
	var deleteIDs []int64
	deleteCmd := &cobra.Command{
		Use:          "delete",
		Short:        "Delete uncommitted template rows",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, err := resolveConfigPath(configFile)
			if err != nil {
				return err
			}
			log, err := newLogger()
			if err != nil {
				return err
			}
			defer log.Sync()
			return runDelete(configPath, deleteDB, deleteIDs, log)
		},
	}
	deleteCmd.Flags().StringVar(&deleteDB, "db", "schedule.db", "SQLite database holding template rows")
	deleteCmd.Flags().Int64SliceVar(&deleteIDs, "ids", nil, "Template row ids to delete (default: all uncommitted)")
	deleteCmd.MarkFlagRequired("db")

	rootCmd.AddCommand(initCmd, generateCmd, previewCmd, commitCmd, deleteCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runInit(outputPath string) error {
	if _, err := os.Stat(outputPath); err == nil {
		return fmt.Errorf("%s already exists; remove it first or use -o to write elsewhere", outputPath)
	}

	if err := os.WriteFile(outputPath, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Printf("✓ Created %s\n", outputPath)
	return nil
}

const configTemplate = `# Season Configuration
# ====================
# This file defines one division and its season shape.

# The season start date anchors week 1; later weeks run on a 7-day
# cadence. Classic divisions may open with up to two practice weeks.
season:
  start_date: "2026-09-05"
  practice_weeks: 0

# Division type selects the pairing model:
#   PREMIER - 8 teams, morning kickoffs, 7-week double round robin
#             followed by fun, TST, playoff and bonus weeks.
#   CLASSIC - 4 teams, afternoon kickoffs, 3-week rotation repeated
#             over 8 regular weeks plus one playoff week.
#   ECS_FC  - same shape as CLASSIC without practice weeks.
#
# Team ids must match the league registry; names are display-only.
division:
  name: Premier
  type: PREMIER
  teams:
    - {id: 101, name: Maple FC}
    - {id: 102, name: Harbor United}
    - {id: 103, name: Ridgeline SC}
    - {id: 104, name: North End Rovers}
    - {id: 105, name: Cascade Athletic}
    - {id: 106, name: Pioneer FC}
    - {id: 107, name: Emerald City SC}
    - {id: 108, name: Rainier Rangers}

# Optional: spell out the season week by week instead of using the
# defaults above. Week types: REGULAR, MIXED, PRACTICE, PLAYOFF, FUN,
# TST, BYE, BONUS. A REGULAR week may set practice: true (Classic and
# ECS FC only) to open the day with practice slots.
#
# weeks:
#   - {number: 1, date: "2026-09-05", type: REGULAR}
#   - {number: 2, date: "2026-09-12", type: FUN}
`

func loadDivision(configPath string) (*config.Config, *roster.Resolver, error) {
	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	teams := make([]roster.Team, len(cfg.Division.Teams))
	for i, t := range cfg.Division.Teams {
		teams[i] = roster.Team{ID: t.ID, Name: t.Name}
	}
	return cfg, roster.NewResolver(teams), nil
}

func buildPlan(configPath string, log *zap.SugaredLogger) (*config.Config, *roster.Resolver, *plan.Result, error) {
	cfg, resolver, err := loadDivision(configPath)
	if err != nil {
		return nil, nil, nil, err
	}
	builder := plan.NewBuilder(cfg.DivisionType(), resolver, log)
	res, err := builder.Build(cfg.SeasonWeeks())
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, resolver, res, nil
}

func printReport(res *plan.Result) {
	red := color.New(color.FgRed)
	yellow := color.New(color.FgYellow)

	fmt.Printf("Generated %d template rows (%d of %d expected matches)\n",
		len(res.Rows), res.Report.TotalMatches, res.Report.ExpectedMatches)

	for _, w := range res.Warnings {
		yellow.Printf("⚠ %s\n", w)
	}
	for _, v := range res.Report.Hard() {
		red.Printf("✗ %s: %s\n", v.Constraint, v.Message)
	}
	for _, v := range res.Report.Advisory() {
		yellow.Printf("⚠ %s: %s\n", v.Constraint, v.Message)
	}
	if res.Report.Satisfied() && len(res.Report.Advisory()) == 0 {
		fmt.Println("✓ All constraints satisfied")
	}
}

func runGenerate(configPath, outputPath, dbPath string, log *zap.SugaredLogger) error {
	cfg, resolver, res, err := buildPlan(configPath, log)
	if err != nil {
		return err
	}

	printReport(res)

	f, err := export.Generate(cfg.Division.Name, res.Rows, resolver)
	if err != nil {
		return fmt.Errorf("generating Excel: %w", err)
	}
	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("saving file: %w", err)
	}
	fmt.Printf("✓ Schedule saved to %s\n", outputPath)

	if dbPath != "" {
		st, err := store.Open(dbPath)
		if err != nil {
			return err
		}
		defer st.Close()

		lc := template.NewLifecycle(st, st, resolver, log)
		ids, err := lc.Persist(res.Rows)
		if err != nil {
			return err
		}
		fmt.Printf("✓ %d template rows persisted to %s (uncommitted)\n", len(ids), dbPath)
	}

	if !res.Report.Satisfied() {
		return fmt.Errorf("%d hard constraint violations found", len(res.Report.Hard()))
	}
	return nil
}

func runPreview(configPath string, log *zap.SugaredLogger) error {
	_, resolver, res, err := buildPlan(configPath, log)
	if err != nil {
		return err
	}

	lc := template.NewLifecycle(nil, nil, resolver, log)
	fmt.Print(lc.Preview(res.Rows))
	printReport(res)
	return nil
}

func runCommit(configPath, dbPath string, ids []int64, log *zap.SugaredLogger) error {
	_, resolver, err := loadDivision(configPath)
	if err != nil {
		return err
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	lc := template.NewLifecycle(st, st, resolver, log)
	committed, skipped, err := lc.Commit(ids)
	if err != nil {
		return err
	}
	fmt.Printf("✓ %d rows committed, %d already committed\n", committed, skipped)
	return nil
}

func runDelete(configPath, dbPath string, ids []int64, log *zap.SugaredLogger) error {
	_, resolver, err := loadDivision(configPath)
	if err != nil {
		return err
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	lc := template.NewLifecycle(st, st, resolver, log)
	n, err := lc.Delete(ids)
	if err != nil {
		return err
	}
	fmt.Printf("✓ %d uncommitted rows deleted\n", n)
	return nil
}
