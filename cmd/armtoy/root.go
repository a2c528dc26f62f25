package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lookbusy1344/arm-toy/config"
)

var (
	flagRead      bool
	flagRepl      bool
	flagConfig    string
	flagTrace     bool
	flagMaxCycles uint64
)

var rootCmd = &cobra.Command{
	Use:   "armtoy",
	Short: "Toy 32-bit ARM-like assembler and processor",
	Long: `armtoy assembles and executes programs written against a small,
32-bit ARM-like instruction set. With no flags it prints usage; -R loads
and runs assembly/pgrm.asm, -r drops into an interactive REPL.`,
	RunE: runRoot,
}

// Execute runs the root command, exiting non-zero on fatal error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVarP(&flagRead, "read", "R", false, "assemble and run assembly/pgrm.asm")
	rootCmd.Flags().BoolVarP(&flagRepl, "repl", "r", false, "enter interactive REPL mode")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to TOML config file (default: platform config path)")
	rootCmd.PersistentFlags().BoolVar(&flagTrace, "trace", false, "enable execution trace output")
	rootCmd.PersistentFlags().Uint64Var(&flagMaxCycles, "max-cycles", 0, "override the configured max cycle count (0: use config)")

	rootCmd.AddCommand(disasmCmd)
}

func loadConfig() (*config.Config, error) {
	if flagConfig != "" {
		return config.LoadFrom(flagConfig)
	}
	return config.Load()
}

func runRoot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if flagTrace {
		cfg.Execution.EnableTrace = true
	}
	if flagMaxCycles != 0 {
		cfg.Execution.MaxCycles = flagMaxCycles
	}

	switch {
	case flagRepl:
		return runRepl(cfg)
	case flagRead:
		return runRead(cfg, "assembly/pgrm.asm")
	default:
		return cmd.Usage()
	}
}
