// Command synccheck audits document generators against recent code changes.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/synccheck"
	"github.com/fwojciec/synccheck/bubbletea"
	"github.com/fwojciec/synccheck/chroma"
	"github.com/fwojciec/synccheck/fs"
	"github.com/fwojciec/synccheck/gemini"
	"github.com/fwojciec/synccheck/git"
	"github.com/fwojciec/synccheck/gitdiff"
	theme "github.com/fwojciec/synccheck/lipgloss"
	"github.com/fwojciec/synccheck/patch"
	"github.com/fwojciec/synccheck/term"
	"github.com/google/uuid"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Set via ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(Execute(os.Args[1:], os.Stdin, os.Stdout, os.Stderr, os.Getenv))
}

type options struct {
	configPath string
	root       string
	autoApply  string
	model      string
	timeout    time.Duration
	noColor    bool
	debug      bool
}

// Execute runs the command line and returns the process exit code.
func Execute(args []string, stdin io.Reader, stdout, stderr io.Writer, getenv func(string) string) (code int) {
	opts := &options{}

	defer func() {
		if r := recover(); r != nil {
			_, _ = fmt.Fprintf(stderr, "fatal: %v\n", r)
			if opts.debug {
				_, _ = stderr.Write(debug.Stack())
			}
			code = 1
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCmd(opts, stdin, stdout, stderr, getenv)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		reportError(stderr, err)
		return 1
	}
	return 0
}

func newRootCmd(opts *options, stdin io.Reader, stdout, stderr io.Writer, getenv func(string) string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "synccheck",
		Short: "Check that document generators keep up with code changes",
		Long: `synccheck reads the current git diff, sends it with the application's data
factory and document generator source to a language model, and reports which
generated documents are out of date. Proposed fixes can be applied in place.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, opts, stdin, stdout, stderr, getenv)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	f := cmd.Flags()
	f.StringVarP(&opts.configPath, "config", "c", "", "config file (default: discover .sync-check.{json,jsonc,yaml,yml} in root)")
	f.StringVar(&opts.root, "root", ".", "project root containing the git repository")
	f.StringVar(&opts.autoApply, "auto-apply", "", "override autoApply: never, prompt or always")
	f.StringVar(&opts.model, "model", gemini.DefaultModel, "model name")
	f.DurationVar(&opts.timeout, "timeout", gemini.DefaultAuditTimeout, "model call timeout")
	f.BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	f.BoolVar(&opts.debug, "debug", false, "log pipeline timings to stderr")

	cmd.AddCommand(newVersionCmd(stdout))
	return cmd
}

func newVersionCmd(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(out, "synccheck %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}

func runCheck(cmd *cobra.Command, opts *options, stdin io.Reader, stdout, stderr io.Writer, getenv func(string) string) error {
	root, err := filepath.Abs(opts.root)
	if err != nil {
		return fmt.Errorf("resolving root: %w", err)
	}

	logger := newLogger(stderr, opts.debug)
	defer func() { _ = logger.Sync() }()

	cfg, cfgPath, err := LoadConfig(root, opts.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("auto-apply") {
		cfg.AutoApply = synccheck.AutoApplyPolicy(opts.autoApply)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger.Debug("configuration loaded",
		zap.String("root", root),
		zap.String("path", cfgPath),
		zap.String("diff_target", cfg.DiffTarget),
		zap.String("auto_apply", string(cfg.AutoApply)))

	apiKey := getenv(synccheck.APIKeyEnv)
	if apiKey == "" {
		return synccheck.ErrMissingAPIKey
	}

	ctx := cmd.Context()
	client, err := gemini.NewClient(ctx, apiKey)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	renderer := lipgloss.NewRenderer(stdout)
	if opts.noColor {
		renderer.SetColorProfile(termenv.Ascii)
	}
	marks := theme.DefaultTheme(renderer)

	var prompter synccheck.Prompter
	if interactive(stdin, stdout) {
		prompter = bubbletea.NewPrompter(stdin, stdout, renderer)
	} else {
		prompter = term.NewLinePrompter(stdin, stdout)
	}

	files := fs.NewOS()
	app := &App{
		Root:      root,
		Config:    cfg,
		Git:       git.NewRunner(),
		Parser:    gitdiff.NewParser(),
		Assembler: fs.NewAssembler(files, fs.WithDetector(chroma.NewDetector())),
		Auditor:   gemini.NewAuditor(client, opts.model, gemini.WithTimeout(opts.timeout)),
		Reporter:  theme.NewReporter(stdout, marks, theme.WithDocumentOrder(cfg.Documents())),
		Applicator: patch.NewApplicator(prompter, files, stdout,
			patch.WithMarker(marks),
			patch.WithLogger(logger)),
		Marks:  marks,
		Out:    stdout,
		Logger: logger,
	}
	return app.Run(ctx)
}

// newLogger returns a console logger on w tagged with a per-run id.
func newLogger(w io.Writer, debugLevel bool) *zap.Logger {
	level := zapcore.InfoLevel
	if debugLevel {
		level = zapcore.DebugLevel
	}
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), level)
	return zap.New(core).With(zap.String("run_id", uuid.NewString()))
}

// interactive reports whether both ends of the session are terminals.
func interactive(in io.Reader, out io.Writer) bool {
	inFile, ok := in.(*os.File)
	if !ok {
		return false
	}
	outFile, ok := out.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(inFile) && term.IsTerminal(outFile)
}

// reportError prints err with any remediation the error carries.
func reportError(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "error: %v\n", err)

	var format *synccheck.ResponseFormatError
	if errors.As(err, &format) && format.Excerpt != "" {
		_, _ = fmt.Fprintf(w, "\nresponse excerpt:\n%s\n\n", format.Excerpt)
	}

	switch {
	case errors.Is(err, synccheck.ErrMissingAPIKey):
		_, _ = fmt.Fprintf(w, "hint: export %s=<your key> and run again\n", synccheck.APIKeyEnv)
	case errors.Is(err, context.Canceled):
		_, _ = fmt.Fprintln(w, "hint: interrupted before the run finished")
	default:
		var r synccheck.Remediator
		if errors.As(err, &r) {
			_, _ = fmt.Fprintf(w, "hint: %s\n", r.Remediation())
		}
	}
}
