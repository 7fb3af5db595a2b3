package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/salmonumbrella/xmlcsv/internal/config"
	"github.com/salmonumbrella/xmlcsv/internal/output"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	// Version is set at build time
	version = "dev"
	// Commit is set at build time
	commit = "none"
	// Date is set at build time
	date = "unknown"
)

// SetVersionInfo sets the version information from build flags
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(versionTemplate())
}

func versionTemplate() string {
	return fmt.Sprintf("xmlcsv version %s (commit: %s, built: %s)\n", version, commit, date)
}

// Global flags
var (
	outputFmt  string
	outputType output.Format
	debug      bool
	configFile string
	queryExpr  string
	queryFile  string
	errorFmt   string
	quietFlag  bool
)

// runtimeConfig is the config loaded for the current invocation.
var runtimeConfig *config.Config

var rootCmd = &cobra.Command{
	Use:   "xmlcsv",
	Short: "Convert between XML documents and CSV tables",
	Long: `xmlcsv converts simple XML documents into CSV tables and CSV tables
back into XML documents.

Each leaf element becomes a column keyed by its path; each group of
sibling elements becomes a row.

Environment Variables:
  XMLCSV_OUTPUT        Default output format (text|json|ndjson|table|yaml)
  XMLCSV_LISTEN_ADDR   Listen address for 'xmlcsv serve'`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceErrors = true

		skipConfigLoad := cmd.Name() == "config" || (cmd.Parent() != nil && cmd.Parent().Name() == "config")
		var cfg *config.Config
		if !skipConfigLoad {
			loadedCfg, err := loadConfigFromFlag()
			if err != nil {
				return formatConfigLoadError(err)
			}
			cfg = loadedCfg
		}
		runtimeConfig = cfg

		// Output format selection: --output > env > config > non-tty json > text
		format, err := output.ParseFormat(resolveOutputFormat(cmd, cfg))
		if err != nil {
			return err
		}
		outputType = format
		outputFmt = string(format)

		// jq query
		if queryExpr != "" && queryFile != "" {
			return fmt.Errorf("use only one of --query or --query-file")
		}
		if queryFile != "" {
			loaded, err := readInputSource(queryFile, cmd.InOrStdin())
			if err != nil {
				return err
			}
			queryExpr = loaded
		}

		// Default quiet mode for non-interactive structured output
		if !flagChanged(cmd, "quiet") && !isTerminal(cmd.OutOrStdout()) && output.IsStructured(outputType) {
			quietFlag = true
		}

		ctx := cmd.Context()
		ctx = withIO(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		ctx = output.WithFormat(ctx, outputType)
		ctx = output.WithQuery(ctx, queryExpr)
		ctx = output.WithQuiet(ctx, quietFlag)
		ctx = WithErrorFormat(ctx, errorFmt)
		ctx = withLogger(ctx, newLogger(cmd.ErrOrStderr(), cliLogLevel(cfg), false))
		cmd.SetContext(ctx)
		// error printing and currentContext read from the root
		cmd.Root().SetContext(ctx)

		return validateErrorFormat(errorFmt)
	},
}

// Execute runs the root command
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		printCommandError(rootCmd.Context(), err)
		return err
	}
	return nil
}

// GetOutputFormat returns the configured output format
func GetOutputFormat() output.Format {
	if outputType != "" {
		return outputType
	}
	parsed, err := output.ParseFormat(outputFmt)
	if err != nil {
		return output.FormatText
	}
	return parsed
}

func init() {
	rootCmd.SetVersionTemplate(versionTemplate())

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "text", "Output format (text|json|ndjson|table|yaml)")
	rootCmd.PersistentFlags().StringVar(&outputFmt, "format", "text", "Alias for --output")
	rootCmd.PersistentFlags().StringVar(&queryExpr, "query", "", "jq expression to filter JSON output")
	rootCmd.PersistentFlags().StringVar(&queryFile, "query-file", "", "Read jq expression from file (use - for stdin)")
	rootCmd.PersistentFlags().StringVar(&errorFmt, "error-format", "auto", "Error output format (auto|text|json|yaml)")
	rootCmd.PersistentFlags().BoolVar(&quietFlag, "quiet", false, "Suppress progress messages")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default: ~/.config/xmlcsv/config.yaml)")
}

func resolveOutputFormat(cmd *cobra.Command, cfg *config.Config) string {
	if flagChanged(cmd, "output") || flagChanged(cmd, "format") {
		return outputFmt
	}
	if env := strings.TrimSpace(envGet("XMLCSV_OUTPUT")); env != "" {
		return env
	}
	if cfg != nil && strings.TrimSpace(cfg.OutputFormat) != "" {
		return strings.TrimSpace(cfg.OutputFormat)
	}
	if !isTerminal(cmd.OutOrStdout()) {
		return "json"
	}
	return outputFmt
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
