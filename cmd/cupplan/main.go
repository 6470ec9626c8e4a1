package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/derekprior/cupplan/internal/config"
	"github.com/derekprior/cupplan/internal/strategy"
)

type app struct {
	env     *config.Env
	logger  *zap.Logger
	verbose bool
}

func (a *app) resolveConfigPath(configFlag string) (string, error) {
	if configFlag != "" {
		return configFlag, nil
	}
	if _, err := os.Stat(a.env.ConfigPath); err == nil {
		return a.env.ConfigPath, nil
	}
	return "", fmt.Errorf("no config file found. Either create %s in the current directory, set CUPPLAN_CONFIG or pass --config", a.env.ConfigPath)
}

func (a *app) loadConfig(configFlag string) (*config.Config, error) {
	path, err := a.resolveConfigPath(configFlag)
	if err != nil {
		return nil, err
	}
	cfg, err := config.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	a.logger.Debug("loaded config", zap.String("path", path), zap.String("tournament", cfg.Name))
	return cfg, nil
}

func newLogger(level string, verbose bool) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	if verbose {
		lvl = zapcore.DebugLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}

func main() {
	_ = godotenv.Load()

	env, err := config.LoadEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "reading environment: %s\n", err)
		os.Exit(1)
	}
	a := &app{env: env, logger: zap.NewNop()}

	rootCmd := &cobra.Command{
		Use:   "cupplan",
		Short: "Round-robin tournament scheduler",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(a.env.LogLevel, a.verbose)
			if err != nil {
				return err
			}
			a.logger = logger
			return nil
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Log debug output to stderr")

	var initOutputPath string
	initCmd := &cobra.Command{
		Use:          "init",
		Short:        "Create a starter tournament.yaml in the current directory",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(initOutputPath)
		},
	}
	initCmd.Flags().StringVarP(&initOutputPath, "output", "o", env.ConfigPath, "Output path for the config file")

	var modelsConfig string
	modelsCmd := &cobra.Command{
		Use:          "models",
		Short:        "Suggest competition models for the configured teams",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runModels(modelsConfig)
		},
	}
	modelsCmd.Flags().StringVar(&modelsConfig, "config", "", "Path to config file (default: tournament.yaml in current directory)")

	scheduleCmd := &cobra.Command{
		Use:   "schedule",
		Short: "Generate, validate and adjust schedules",
	}

	var configFile string
	scheduleCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to config file (default: tournament.yaml in current directory)")

	var outputFile, selected string
	generateCmd := &cobra.Command{
		Use:          "generate",
		Short:        "Generate schedule proposals from a config file",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runGenerate(cmd.Context(), configFile, outputFile, selected)
		},
	}
	generateCmd.Flags().StringVarP(&outputFile, "output", "o", env.OutputPath, "Output Excel file path")
	generateCmd.Flags().StringVar(&selected, "select", "balanced", "Proposal used for the Results sheet")

	var validateProposal string
	validateCmd := &cobra.Command{
		Use:          "validate <schedule.xlsx>",
		Short:        "Validate a proposal sheet against the config",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runValidate(configFile, args[0], validateProposal)
		},
	}
	validateCmd.Flags().StringVar(&validateProposal, "proposal", "balanced", "Proposal sheet to validate")

	var moveProposal string
	moveCmd := &cobra.Command{
		Use:          "move <schedule.xlsx> <from> <to>",
		Short:        "Move a match to another position in a proposal sheet",
		Long: `Move a match to another position in a proposal sheet. Positions are
1-based and count scheduled matches only. When the sheet is the proposal
marked on the Proposals sheet, the Results sheet's date, time and field
columns are updated too.`,
		Args:         cobra.ExactArgs(3),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runMove(args[0], args[1], args[2], moveProposal)
		},
	}
	moveCmd.Flags().StringVar(&moveProposal, "proposal", "balanced", "Proposal sheet to edit")

	resultsCmd := &cobra.Command{
		Use:   "results",
		Short: "Record match results",
	}
	recordCmd := &cobra.Command{
		Use:          "record <schedule.xlsx> <teamA> <teamB> <scoreA> <scoreB>",
		Short:        "Record the final score of a match and refresh standings",
		Args:         cobra.ExactArgs(5),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runRecord(args[0], args[1], args[2], args[3], args[4])
		},
	}

	standingsCmd := &cobra.Command{
		Use:          "standings <schedule.xlsx>",
		Short:        "Compute group standings from the Results sheet",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runStandings(args[0])
		},
	}

	scheduleCmd.AddCommand(generateCmd, validateCmd, moveCmd)
	resultsCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(initCmd, modelsCmd, scheduleCmd, resultsCmd, standingsCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err = rootCmd.ExecuteContext(ctx)
	stop()
	_ = a.logger.Sync()
	if err != nil {
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

func (a *app) runModels(configFlag string) error {
	cfg, err := a.loadConfig(configFlag)
	if err != nil {
		return err
	}

	for _, m := range strategy.SuggestModels(cfg) {
		fmt.Printf("%s (%s)\n", m.Title, m.ID)
		fmt.Printf("  %s\n", m.Description)
		if m.Groups > 0 {
			fmt.Printf("  %d group(s) of up to %d teams\n", m.Groups, m.TeamsPerGroup)
		}
		if m.HasPlayoffs {
			fmt.Println("  Includes playoffs")
		}
		for _, h := range m.Highlights {
			fmt.Printf("  • %s\n", h)
		}
		fmt.Println()
	}
	return nil
}
