package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/OrtheSnowJames/naturebindgen/bindgen"
	"github.com/OrtheSnowJames/naturebindgen/clangast/libclang"
	"github.com/OrtheSnowJames/naturebindgen/internal/config"
)

// version is overridden with -ldflags "-X main.version=...".
var version = "dev"

// ErrOutdated is returned by --check when the output file differs from
// what would be generated.
var ErrOutdated = errors.New("bindings are out of date")

type rootOptions struct {
	configPath  string
	output      string
	includeDirs []string
	clangArgs   []string
	check       bool
	verbose     bool
	noColor     bool
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "naturebindgen <header-file>",
		Short:         "Generate Nature bindings from C headers",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, opts, args[0])
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default .naturebindgen.yaml in . or $HOME)")
	flags.StringArrayVarP(&opts.includeDirs, "include", "I", nil, "add an include directory")
	flags.StringArrayVar(&opts.clangArgs, "clang-arg", nil, "pass an argument to the C front end")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log at debug level")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default bindings.n)")
	cmd.Flags().BoolVar(&opts.check, "check", false, "fail if the output file is not up to date")

	cmd.AddCommand(newSymbolsCommand(opts), newVersionCommand())
	return cmd
}

// execute runs cmd and reports any error, whichever command or argument
// check produced it, on the command's error stream.
func execute(cmd *cobra.Command) error {
	err := cmd.Execute()
	if err != nil {
		color.New(color.FgRed).Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
	}
	return err
}

func newSymbolsCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "symbols <header-file>",
		Short: "Print the collected declarations as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			g, err := parse(cfg, logger, args[0])
			if err != nil {
				return err
			}
			out, err := g.Symbols().YAML()
			if err != nil {
				return fmt.Errorf("encode symbols: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "naturebindgen %s\n", version)
		},
	}
}

func runGenerate(cmd *cobra.Command, opts *rootOptions, header string) error {
	cfg, logger, err := setup(cmd, opts)
	if err != nil {
		return err
	}

	stdout := cmd.OutOrStdout()
	color.New(color.FgCyan).Fprintf(stdout, "Parsing header file: %s\n", header)

	g, err := parse(cfg, logger, header)
	if err != nil {
		return err
	}
	bindings := g.Generate()

	if opts.check {
		return checkOutput(stdout, cfg.Output, bindings)
	}

	if err := os.WriteFile(cfg.Output, []byte(bindings), 0o644); err != nil {
		return fmt.Errorf("write bindings: %w", err)
	}

	color.New(color.FgGreen).Fprintf(stdout, "Generated bindings: %s\n", cfg.Output)
	fmt.Fprintln(stdout, renderSummary(g.Symbols(), g.Diagnostics(), len(bindings)))
	return nil
}

// setup loads the config, applies command-line overrides and builds the
// logger.
func setup(cmd *cobra.Command, opts *rootOptions) (*config.Config, *slog.Logger, error) {
	if opts.noColor {
		color.NoColor = true
	}

	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return nil, nil, err
	}
	applyFlags(cfg, opts)

	return cfg, newLogger(cmd.ErrOrStderr(), cfg), nil
}

func applyFlags(cfg *config.Config, opts *rootOptions) {
	if opts.output != "" {
		cfg.Output = opts.output
	}
	cfg.IncludeDirs = append(cfg.IncludeDirs, opts.includeDirs...)
	cfg.ClangArgs = append(cfg.ClangArgs, opts.clangArgs...)
	if opts.verbose {
		cfg.Logging.Level = "debug"
	}
}

func newLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	handlerOpts := &slog.HandlerOptions{Level: cfg.LogLevel()}
	if cfg.JSONLogs() {
		return slog.New(slog.NewJSONHandler(w, handlerOpts))
	}
	return slog.New(slog.NewTextHandler(w, handlerOpts))
}

func parse(cfg *config.Config, logger *slog.Logger, header string) (*bindgen.Generator, error) {
	provider := libclang.New()
	defer provider.Close()

	g := bindgen.New(provider,
		bindgen.WithLogger(logger),
		bindgen.WithReservedKeywords(cfg.ReservedKeywords),
	)
	if err := g.ParseHeader(header, cfg.CompilerArgs()); err != nil {
		return nil, err
	}
	return g, nil
}
