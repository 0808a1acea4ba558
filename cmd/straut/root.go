package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gitrdm/straut/internal/config"
	"github.com/gitrdm/straut/internal/logging"
	"github.com/gitrdm/straut/pkg/pipeline"
)

// exit codes, per the solver's external-interface contract: 0 covers both
// sat and unsat (the query was answered), 2 is an I/O failure, 3 is a
// lookup/parse failure (no surface parser exists, so this also covers
// "unknown scenario name"), 4 is anything pipeline.Run itself reports.
const (
	exitAnswered = 0
	exitIOError  = 2
	exitLookup   = 3
	exitInternal = 4
)

var (
	flagLogLevel  string
	flagIntMode   string
	flagBound     uint64
	flagCountMode string
	flagVar       string
	flagDotPath   string
)

var rootCmd = &cobra.Command{
	Use:   "straut",
	Short: "straut counts satisfying assignments of mixed string/integer constraint formulas",
	Long: `straut compiles a constraint formula over string and linear-integer
variables into a deterministic finite automaton and either checks
satisfiability or counts satisfying assignments of a chosen variable up to
a length or magnitude bound.

The CLI ships a fixed registry of built-in formulas (see "straut list")
rather than a surface-syntax parser, which this module deliberately does
not implement.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", `logger verbosity: "debug", "info", "warn", "error", or "disabled"`)
	rootCmd.PersistentFlags().StringVar(&flagIntMode, "int-mode", "natural", `integer variable encoding: "natural" or "signed"`)
	rootCmd.PersistentFlags().Uint64Var(&flagBound, "bound", 0, "counting bound (0 uses the built-in scenario's own bound)")
	rootCmd.PersistentFlags().StringVar(&flagCountMode, "count-mode", "", `counting mode: "atmost" or "exactly" (empty uses the scenario's own mode)`)
	rootCmd.PersistentFlags().StringVar(&flagVar, "var", "", "variable to count (empty uses the scenario's own designated variable)")
	rootCmd.PersistentFlags().StringVar(&flagDotPath, "dot", "", "write a Graphviz dot trace of every processed AST node to this path")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(solveCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "list the built-in demo scenarios",
	Args:  cobra.NoArgs,
	Run:   runList,
}

var solveCmd = &cobra.Command{
	Use:   "solve <scenario-name>",
	Short: "solve (and optionally count) a built-in scenario",
	Args:  cobra.ExactArgs(1),
	Run:   runSolve,
}

func runList(cmd *cobra.Command, args []string) {
	for _, sc := range scenarios() {
		fmt.Printf("%-20s %s\n", sc.name, sc.description)
	}
}

func runSolve(cmd *cobra.Command, args []string) {
	sc, err := findScenario(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitLookup)
	}

	cfg, err := buildConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitLookup)
	}
	log := logging.New(cfg)

	countVar := flagVar
	if countVar == "" {
		countVar = sc.countVar
	}
	bound := flagBound
	if bound == 0 {
		bound = sc.bound
	}
	if flagCountMode != "" {
		mode, err := parseCountMode(flagCountMode)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(exitLookup)
		}
		cfg.DefaultCountMode = mode
	} else {
		cfg.DefaultCountMode = sc.mode
	}

	sink, closeSink, err := openDotSink(flagDotPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitIOError)
	}
	if closeSink != nil {
		defer closeSink()
	}

	out, err := pipeline.Run(cfg, log, sc.term, countVar, bound, sink)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitInternal)
	}

	if out.Sat {
		fmt.Println("sat")
	} else {
		fmt.Println("unsat")
	}
	if out.Count != nil {
		fmt.Printf("count(%s) = %s\n", countVar, out.Count.String())
	}
	os.Exit(exitAnswered)
}

func buildConfig() (*config.Config, error) {
	cfg := config.Default()
	cfg.LogLevel = flagLogLevel
	mode, err := parseIntMode(flagIntMode)
	if err != nil {
		return nil, err
	}
	cfg.IntMode = mode
	cfg.EmitDot = flagDotPath != ""
	return cfg, nil
}

func parseIntMode(s string) (config.IntMode, error) {
	switch strings.ToLower(s) {
	case "natural", "":
		return config.Natural, nil
	case "signed":
		return config.Signed, nil
	default:
		return 0, fmt.Errorf("unknown --int-mode %q (want \"natural\" or \"signed\")", s)
	}
}

func parseCountMode(s string) (config.CountMode, error) {
	switch strings.ToLower(s) {
	case "atmost":
		return config.AtMost, nil
	case "exactly":
		return config.Exactly, nil
	default:
		return 0, fmt.Errorf("unknown --count-mode %q (want \"atmost\" or \"exactly\")", s)
	}
}

// Execute runs the root command. Command bodies exit directly with the
// codes above; an error cobra itself returns (an unknown command, a bad
// flag) exits with exitLookup.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitLookup)
	}
}
