// Command lispir is the lispir interpreter CLI.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/thomasrohde/lispir/pkg/config"
	"github.com/thomasrohde/lispir/pkg/diagnostics"
	"github.com/thomasrohde/lispir/pkg/evaluator"
	"github.com/thomasrohde/lispir/pkg/formatter"
	"github.com/thomasrohde/lispir/pkg/help"
	"github.com/thomasrohde/lispir/pkg/object"
	"github.com/thomasrohde/lispir/pkg/runtime"
	"github.com/thomasrohde/lispir/pkg/stdlib"
)

func main() {
	if len(os.Args) < 2 {
		os.Exit(cmdRepl(nil))
	}

	cmd := os.Args[1]
	switch cmd {
	case "repl":
		os.Exit(cmdRepl(os.Args[2:]))
	case "run":
		os.Exit(cmdRun(os.Args[2:]))
	case "eval":
		os.Exit(cmdEval(os.Args[2:]))
	case "check":
		os.Exit(cmdCheck(os.Args[2:]))
	case "fmt":
		os.Exit(cmdFmt(os.Args[2:]))
	case "trace":
		os.Exit(cmdTrace(os.Args[2:]))
	case "help", "--help", "-h":
		os.Exit(cmdHelp(os.Args[2:]))
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage(os.Stderr)
		os.Exit(1)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "usage: lispir <command> [options]")
	fmt.Fprintln(w, "commands: repl, run, eval, check, fmt, trace, help")
	fmt.Fprintln(w, "common options: --config <file> --log-level <level> --max-depth <n> --trace <file.jsonl>")
}

// commonFlags are accepted by every command that evaluates code.
type commonFlags struct {
	configPath string
	logLevel   string
	maxDepth   int
	tracePath  string
	json       bool
	pretty     bool
	write      bool
	text       bool
}

func parseFlags(args []string) (commonFlags, []string, error) {
	flags := commonFlags{maxDepth: -1, pretty: true}
	var rest []string

	for i := 0; i < len(args); i++ {
		needValue := func() (string, error) {
			if i+1 >= len(args) {
				return "", fmt.Errorf("%s requires a value", args[i])
			}
			i++
			return args[i], nil
		}
		var err error
		switch args[i] {
		case "--config":
			flags.configPath, err = needValue()
		case "--log-level":
			flags.logLevel, err = needValue()
		case "--trace":
			flags.tracePath, err = needValue()
		case "--max-depth":
			var v string
			if v, err = needValue(); err == nil {
				flags.maxDepth, err = strconv.Atoi(v)
			}
		case "--json":
			flags.json = true
			flags.pretty = false
		case "--write":
			flags.write = true
		case "--text":
			flags.text = true
		default:
			if strings.HasPrefix(args[i], "--") {
				return flags, nil, fmt.Errorf("unknown option: %s", args[i])
			}
			rest = append(rest, args[i])
		}
		if err != nil {
			return flags, nil, err
		}
	}
	return flags, rest, nil
}

// loadConfig resolves configuration from --config or the working
// directory, then applies flag overrides.
func loadConfig(flags commonFlags) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if flags.configPath != "" {
		cfg, err = config.LoadFile(flags.configPath)
	} else {
		cwd, _ := os.Getwd()
		cfg, _, err = config.Load(cwd)
	}
	if err != nil {
		return nil, err
	}

	if flags.logLevel != "" {
		cfg.LogLevel = flags.logLevel
	}
	if flags.maxDepth >= 0 {
		cfg.MaxDepth = flags.maxDepth
	}
	if flags.tracePath != "" {
		cfg.TraceFile = flags.tracePath
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newSession builds a session from flags. The returned close func flushes
// the trace file, if any.
func newSession(flags commonFlags, stderr io.Writer) (*runtime.Session, func(), error) {
	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, nil, err
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.Level()}))
	opts := []runtime.Option{
		runtime.WithConfig(cfg),
		runtime.WithLogger(logger),
	}

	closeFn := func() {}
	if cfg.TraceFile != "" {
		f, err := os.Create(cfg.TraceFile)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot create trace file: %w", err)
		}
		enc := json.NewEncoder(f)
		opts = append(opts, runtime.WithTrace(func(ev evaluator.TraceEvent) {
			if err := enc.Encode(ev); err != nil {
				logger.Warn("trace write failed", slog.String("error", err.Error()))
			}
		}))
		closeFn = func() { _ = f.Close() }
	}

	return runtime.New(opts...), closeFn, nil
}

func reportError(w io.Writer, err error, pretty bool) {
	fmt.Fprintln(w, diagnostics.FormatDiagnostic(runtime.ErrorDiagnostic(err), pretty))
}

func usageError(msg string) int {
	fmt.Fprintln(os.Stderr, msg)
	return 1
}

func configError(err error, pretty bool) int {
	diag := diagnostics.MakeDiag(diagnostics.EConfig, err.Error(), "")
	fmt.Fprintln(os.Stderr, diagnostics.FormatDiagnostic(diag, pretty))
	return 1
}

func cmdRun(args []string) int {
	flags, rest, err := parseFlags(args)
	if err != nil || len(rest) != 1 {
		return usageError("usage: lispir run <file|-> [--json] [--trace <file.jsonl>]")
	}

	source, code := readSource(rest[0], flags.pretty)
	if code != 0 {
		return code
	}

	sess, closeFn, err := newSession(flags, os.Stderr)
	if err != nil {
		return configError(err, flags.pretty)
	}
	defer closeFn()

	forms, err := runtime.SplitForms(source)
	if err != nil {
		reportError(os.Stderr, err, flags.pretty)
		return 1
	}
	return runForms(sess, forms, os.Stdout, os.Stderr, flags.json)
}

// runForms evaluates forms in order, printing each result. The first
// error stops the run.
func runForms(sess *runtime.Session, forms []string, stdout, stderr io.Writer, asJSON bool) int {
	for _, form := range forms {
		val, err := sess.Eval(form)
		if err != nil {
			reportError(stderr, err, !asJSON)
			return exitCodeForDiag(runtime.ErrorDiagnostic(err).Code)
		}
		if err := printValue(stdout, val, asJSON); err != nil {
			fmt.Fprintf(stderr, "error serializing result: %s\n", err)
			return 4
		}
	}
	return 0
}

func printValue(w io.Writer, val object.Object, asJSON bool) error {
	if asJSON {
		b, err := object.ToJSON(val)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(b))
		return nil
	}
	if out := formatter.Display(val); out != "" {
		fmt.Fprintln(w, out)
	}
	return nil
}

func cmdHelp(args []string) int {
	topic := ""
	operators := false
	for _, arg := range args {
		if arg == "--operators" {
			operators = true
		} else if !strings.HasPrefix(arg, "-") {
			topic = arg
		}
	}

	if operators {
		fmt.Print(help.OperatorIndex(stdlib.Default()))
		return 0
	}
	if topic == "" {
		printUsage(os.Stdout)
		fmt.Println()
		fmt.Print(help.QUICKREF)
		return 0
	}

	_, content, err := help.MatchTopic(topic)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\nAvailable topics: %s\n", err, strings.Join(help.TopicList, ", "))
		return 1
	}
	fmt.Print(content)
	return 0
}

func cmdEval(args []string) int {
	flags, rest, err := parseFlags(args)
	if err != nil || len(rest) == 0 {
		return usageError("usage: lispir eval <expr> [--json]")
	}

	sess, closeFn, err := newSession(flags, os.Stderr)
	if err != nil {
		return configError(err, flags.pretty)
	}
	defer closeFn()

	return runForms(sess, []string{strings.Join(rest, " ")}, os.Stdout, os.Stderr, flags.json)
}

func cmdCheck(args []string) int {
	flags, rest, err := parseFlags(args)
	if err != nil || len(rest) != 1 {
		return usageError("usage: lispir check <file|-> [--json]")
	}

	source, code := readSource(rest[0], flags.pretty)
	if code != 0 {
		return code
	}

	sess := runtime.New()
	var diags []diagnostics.Diagnostic
	forms, err := runtime.SplitForms(source)
	if err != nil {
		reportError(os.Stderr, err, flags.pretty)
		return 1
	}
	for _, form := range forms {
		diags = append(diags, sess.Check(form)...)
	}
	if len(diags) > 0 {
		fmt.Fprintln(os.Stderr, diagnostics.FormatDiagnostics(diags, flags.pretty))
		return 2
	}

	if flags.pretty {
		fmt.Println("No errors found.")
	} else {
		fmt.Println("[]")
	}
	return 0
}

func cmdFmt(args []string) int {
	flags, rest, err := parseFlags(args)
	if err != nil || len(rest) != 1 {
		return usageError("usage: lispir fmt <file> [--write]")
	}
	file := rest[0]

	source, code := readSource(file, true)
	if code != 0 {
		return code
	}

	formatted, err := runtime.New().FormatSource(source)
	if err != nil {
		reportError(os.Stderr, err, flags.pretty)
		return exitCodeForDiag(runtime.ErrorDiagnostic(err).Code)
	}

	if flags.write && file != "-" {
		if err := os.WriteFile(file, []byte(formatted), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "error writing file: %s\n", err)
			return 1
		}
		return 0
	}
	fmt.Print(formatted)
	return 0
}

func readSource(file string, pretty bool) (string, int) {
	if file == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error reading stdin: %s\n", err)
			return "", 1
		}
		return string(data), 0
	}

	source, err := os.ReadFile(file)
	if err != nil {
		diag := diagnostics.MakeDiag(diagnostics.EIO, fmt.Sprintf("cannot read file: %s", file), "")
		fmt.Fprintln(os.Stderr, diagnostics.FormatDiagnostic(diag, pretty))
		return "", 1
	}
	return string(source), 0
}

func exitCodeForDiag(code string) int {
	switch {
	case diagnostics.IsParse(code):
		return 2
	case code == diagnostics.EIO, code == diagnostics.EConfig:
		return 1
	default:
		return 4
	}
}
