package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/akopylov/chfill/internal/app"
	"github.com/akopylov/chfill/internal/config"
	"github.com/akopylov/chfill/internal/domain"
	"github.com/akopylov/chfill/internal/infra/repos/profiles"
	"github.com/akopylov/chfill/internal/infra/repos/runs"
	"github.com/akopylov/chfill/internal/logging"
	"github.com/akopylov/chfill/internal/registry"
	"github.com/akopylov/chfill/internal/schema"
	"github.com/akopylov/chfill/internal/validation"
)

var (
	profilesDir string
	runsDBPath  string
	logLevel    string
)

func main() {
	cfg := config.Load()

	rootCmd := &cobra.Command{
		Use:   "chfill",
		Short: "Fill analytic-database tables with schema-conforming synthetic rows",
	}

	rootCmd.PersistentFlags().StringVar(&profilesDir, "profiles-dir", cfg.ProfilesDir, "Profiles directory")
	rootCmd.PersistentFlags().StringVar(&runsDBPath, "runs-db", cfg.RunsDBPath, "Run history database path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", cfg.LogLevel, "Log level")

	rootCmd.AddCommand(profileCmd())
	rootCmd.AddCommand(schemaCmd())
	rootCmd.AddCommand(previewCmd())
	rootCmd.AddCommand(fillCmd(cfg))
	rootCmd.AddCommand(runsCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newFillService() (*app.FillService, error) {
	runRepo := runs.NewSQLiteRepository(runsDBPath)
	if err := runRepo.Init(); err != nil {
		return nil, err
	}
	return app.NewFillService(
		profiles.NewFileRepository(profilesDir),
		runRepo,
		registry.DefaultTypeRegistry(),
		logging.NewLogger(logLevel),
	), nil
}

func profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage fill profiles",
	}

	var format string

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo := profiles.NewFileRepository(profilesDir)
			list, err := repo.List()
			if err != nil {
				return err
			}

			if format == "json" {
				data, _ := json.MarshalIndent(list, "", "  ")
				fmt.Println(string(data))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tTABLE\tROWS\tTARGET")
			for _, p := range list {
				kind := "-"
				if p.Target != nil {
					kind = p.Target.Kind
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", p.ID, p.Name, p.Table, p.Rows, kind)
			}
			w.Flush()
			return nil
		},
	}
	listCmd.Flags().StringVar(&format, "format", "table", "Output format (table|json)")

	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show profile details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo := profiles.NewFileRepository(profilesDir)
			profile, err := repo.Get(args[0])
			if err != nil {
				return err
			}
			data, _ := yaml.Marshal(profile)
			fmt.Println(string(data))
			return nil
		},
	}

	validateCmd := &cobra.Command{
		Use:   "validate <id|path>",
		Short: "Validate a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo := profiles.NewFileRepository(profilesDir)
			var profile *domain.Profile
			var err error
			if looksLikePath(args[0]) {
				profile, err = repo.GetByPath(args[0])
			} else {
				profile, err = repo.Get(args[0])
			}
			if err != nil {
				return err
			}

			if err := validation.ValidateProfile(profile); err != nil {
				fmt.Printf("Validation failed: %v\n", err)
				return err
			}
			fmt.Printf("Profile '%s' is valid\n", profile.Name)
			return nil
		},
	}

	cmd.AddCommand(listCmd, showCmd, validateCmd)
	return cmd
}

func schemaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Inspect table schemas",
	}

	var format string

	parseCmd := &cobra.Command{
		Use:   "parse <ddl-file>",
		Short: "Parse a CREATE TABLE file into a column list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := schema.ParseFile(args[0])
			if err != nil {
				return err
			}

			if format == "json" {
				data, _ := json.MarshalIndent(parsed, "", "  ")
				fmt.Println(string(data))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tTYPE\tBASE")
			for _, col := range parsed {
				fmt.Fprintf(w, "%s\t%s\t%s\n", col.Name, col.Type, col.BaseType())
			}
			w.Flush()
			return nil
		},
	}
	parseCmd.Flags().StringVar(&format, "format", "table", "Output format (table|json)")

	cmd.AddCommand(parseCmd)
	return cmd
}

func previewCmd() *cobra.Command {
	var (
		profileID   string
		profilePath string
		rows        int
		seed        int64
		hasSeed     bool
	)

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Print generated rows without inserting them",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newFillService()
			if err != nil {
				return err
			}

			req := &app.FillRequest{ProfileID: profileID, ProfilePath: profilePath}
			if hasSeed {
				req.Seed = &seed
			}
			if req.ProfileID == "" && req.ProfilePath == "" {
				return fmt.Errorf("either --profile or --profile-path required")
			}

			generated, err := svc.Preview(req, rows)
			if err != nil {
				return err
			}
			for _, row := range generated {
				data, err := json.Marshal(row)
				if err != nil {
					return err
				}
				fmt.Println(string(data))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&profileID, "profile", "", "Profile ID or name")
	cmd.Flags().StringVar(&profilePath, "profile-path", "", "Profile file path")
	cmd.Flags().IntVar(&rows, "rows", 5, "Number of rows to preview")
	cmd.Flags().Int64VarP(&seed, "seed", "s", 0, "Seed for RNG")
	cmd.PreRun = func(cmd *cobra.Command, args []string) {
		hasSeed = cmd.Flags().Changed("seed")
	}
	return cmd
}

func fillCmd(cfg *config.Config) *cobra.Command {
	var (
		profileID   string
		profilePath string
		targetKind  string
		targetDSN   string
		seed        int64
		hasSeed     bool
		rows        int64
		mode        string
	)

	cmd := &cobra.Command{
		Use:   "fill",
		Short: "Generate rows and insert them into the target table",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newFillService()
			if err != nil {
				return err
			}

			req := &app.FillRequest{
				ProfileID:    profileID,
				ProfilePath:  profilePath,
				RowsOverride: rows,
				Mode:         mode,
			}
			if req.ProfileID == "" && req.ProfilePath == "" {
				return fmt.Errorf("either --profile or --profile-path required")
			}
			if hasSeed {
				req.Seed = &seed
			}

			if targetDSN != "" {
				if targetKind == "" {
					return fmt.Errorf("--target-kind required when using --dsn")
				}
				req.Target = &domain.TargetConfig{Kind: targetKind, DSN: targetDSN}
			} else if targetKind != "" || cfg.TargetDSN != "" {
				kind := targetKind
				if kind == "" {
					kind = cfg.TargetKind
				}
				if kind != "" && cfg.TargetDSN != "" {
					req.Target = &domain.TargetConfig{Kind: kind, DSN: cfg.TargetDSN}
				}
			}

			run, err := svc.Fill(req)
			if err != nil {
				if run != nil {
					fmt.Printf("Fill failed: %s\n", run.Error)
				}
				return err
			}

			fmt.Printf("Fill completed: run %s\n", run.ID)
			if run.Stats != nil {
				fmt.Printf("Rows inserted: %d\n", run.Stats.RowsInserted)
				fmt.Printf("Duration: %.2fs\n", run.Stats.DurationSeconds)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&profileID, "profile", "", "Profile ID or name")
	cmd.Flags().StringVar(&profilePath, "profile-path", "", "Profile file path")
	cmd.Flags().StringVar(&targetKind, "target-kind", "", "Target kind (clickhouse|postgres|sqlite)")
	cmd.Flags().StringVar(&targetDSN, "dsn", "", "Target DSN, overrides the profile target")
	cmd.Flags().Int64VarP(&seed, "seed", "s", 0, "Seed for RNG")
	cmd.Flags().Int64Var(&rows, "rows", 0, "Override the profile row count")
	cmd.Flags().StringVar(&mode, "mode", "", "Table mode (create|truncate|append)")
	cmd.PreRun = func(cmd *cobra.Command, args []string) {
		hasSeed = cmd.Flags().Changed("seed")
	}
	return cmd
}

func runsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect fill history",
	}

	var limit int
	var status string
	var format string

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo := runs.NewSQLiteRepository(runsDBPath)
			if err := repo.Init(); err != nil {
				return err
			}

			list, err := repo.List(limit, status)
			if err != nil {
				return err
			}

			if format == "json" {
				data, _ := json.MarshalIndent(list, "", "  ")
				fmt.Println(string(data))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tPROFILE\tTABLE\tTARGET\tSTATUS\tSTARTED")
			for _, r := range list {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					r.ID[:8], r.ProfileName, r.Table, r.TargetKind, r.Status, r.StartedAt.Format("2006-01-02 15:04"))
			}
			w.Flush()
			return nil
		},
	}
	listCmd.Flags().IntVar(&limit, "limit", 20, "Limit results")
	listCmd.Flags().StringVar(&status, "status", "", "Filter by status")
	listCmd.Flags().StringVar(&format, "format", "table", "Output format (table|json)")

	showCmd := &cobra.Command{
		Use:   "show <run_id>",
		Short: "Show run details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo := runs.NewSQLiteRepository(runsDBPath)
			if err := repo.Init(); err != nil {
				return err
			}

			run, err := repo.Get(args[0])
			if err != nil {
				return err
			}
			data, _ := yaml.Marshal(run)
			fmt.Println(string(data))
			return nil
		},
	}

	cmd.AddCommand(listCmd, showCmd)
	return cmd
}

func looksLikePath(s string) bool {
	for _, suffix := range []string{".yaml", ".yml", ".json"} {
		if len(s) > len(suffix) && s[len(s)-len(suffix):] == suffix {
			return true
		}
	}
	for i := 0; i < len(s); i++ {
		if s[i] == '/' {
			return true
		}
	}
	return false
}
