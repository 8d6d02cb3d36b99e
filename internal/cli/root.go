package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/naveenkr153/spectra-sales-review/internal/config"
)

// Version is stamped at build time with -ldflags "-X .../internal/cli.Version=...".
var Version = "dev"

// Indirections for tests.
var (
	fnServe   = serve
	fnCompile = compileOnce
)

func writeLine(w io.Writer, format string, a ...any) {
	_, _ = fmt.Fprintf(w, format+"\n", a...)
}

// buildRootCmd constructs the command tree. Output goes to stdout/stderr.
func buildRootCmd(stdout, stderr io.Writer) *cobra.Command {
	o := &Options{}
	root := &cobra.Command{
		Use:           "reviewd",
		Short:         "Compile session PDFs into one document and submit it for analysis",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().StringVarP(&o.ConfigPath, "config", "c", "", "Config file (.yaml, .yml, .json, .toml)")
	root.PersistentFlags().StringVar(&o.LogLevel, "log-level", config.DefaultLogLevel, "Log level: debug|info|warn|error")
	root.PersistentFlags().BoolVar(&o.Pretty, "pretty", false, "Human readable console logs instead of JSON")

	setup := func(cmd *cobra.Command) (config.Config, zerolog.Logger, error) {
		cfg, err := resolve(o, func(name string) bool { return cmd.Flags().Changed(name) })
		if err != nil {
			return cfg, zerolog.Nop(), err
		}
		return cfg, newLogger(stderr, cfg.LogLevel, o.Pretty), nil
	}

	serveCmd := &cobra.Command{
		Use:     "serve",
		Short:   "Run the HTTP operator API",
		Example: "  reviewd serve --addr :8080 --submit-url https://analysis.example/upload",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup(cmd)
			if err != nil {
				return err
			}
			return fnServe(cmd.Context(), cfg, log)
		},
	}
	serveCmd.Flags().StringVar(&o.Addr, "addr", config.DefaultAddr, "HTTP listen address (defaults REVIEWD_ADDR or :8080)")
	serveCmd.Flags().StringVar(&o.SubmitURL, "submit-url", "", "Analysis endpoint (defaults REVIEWD_SUBMIT_URL)")
	serveCmd.Flags().StringVar(&o.CORSOrigins, "cors-origins", "", "Comma separated allowed origins; enables CORS")

	compileCmd := &cobra.Command{
		Use:   "compile [flags] <dir|file.pdf>...",
		Short: "Merge PDFs once and write the compiled document",
		Example: "  reviewd compile --name \"Q3 Sales Review\" ./q3\n" +
			"  reviewd compile --name Q3 --out q3.pdf north.pdf south.pdf --submit",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup(cmd)
			if err != nil {
				return err
			}
			return fnCompile(cmd.Context(), cfg, *o, args, stdout, log)
		},
	}
	compileCmd.Flags().StringVarP(&o.Name, "name", "n", "", "Session name")
	compileCmd.Flags().StringVarP(&o.Out, "out", "o", "", "Output path (defaults <name>_compiled.pdf)")
	compileCmd.Flags().BoolVar(&o.Submit, "submit", false, "Submit the compiled document after writing it")
	compileCmd.Flags().StringVar(&o.SubmitURL, "submit-url", "", "Analysis endpoint (defaults REVIEWD_SUBMIT_URL)")
	_ = compileCmd.MarkFlagRequired("name")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			writeLine(stdout, "reviewd %s", Version)
		},
	}

	root.AddCommand(serveCmd, compileCmd, versionCmd)
	return root
}

// MainWithArgs runs the CLI with args and returns a process exit code.
func MainWithArgs(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return run(ctx, args, os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := buildRootCmd(stdout, stderr)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		writeLine(stderr, "error: %v", err)
		return 1
	}
	return 0
}

// Main returns an exit code for use by cmd/reviewd.
func Main() int { return MainWithArgs(os.Args[1:]) }
