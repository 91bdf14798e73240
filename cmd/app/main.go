package main

import (
	"flag"
	"fmt"
	"lispy/internal/ast"
	"lispy/internal/evaluator"
	"lispy/internal/logger"
	"lispy/internal/object"
	"lispy/internal/parser"
	"lispy/internal/prelude"
	"lispy/internal/repl"
	"lispy/internal/util"
	"log/slog"
	"os"
)

var (
	// Version is the current version of the lispy binary, set at build time.
	Version   = "dev"
	BuildDate = "unknown"
	Commit    = "unknown"
	help      bool
	version   bool
	// logging
	logLevel string
	logFile  string
	// config vars
	configPath string
	preludeArg string
	noPrelude  bool
	expr       string
	debugAST   bool
	debugJSON  bool
)

func init() {
	flag.BoolVar(&help, "help", false, "Display help information and exit")
	flag.BoolVar(&help, "h", false, "Display help information and exit")
	flag.BoolVar(&version, "version", false, "Display version information and exit")
	flag.BoolVar(&version, "v", false, "Display version information and exit")
	// evaluator config
	flag.StringVar(&configPath, "config", "", "Path to a TOML configuration file")
	flag.StringVar(&preludeArg, "prelude", "", "Load this library at startup instead of the bundled prelude")
	flag.BoolVar(&noPrelude, "no-prelude", false, "Start without loading any prelude")
	flag.StringVar(&expr, "e", "", "Evaluate an expression, print the result and exit")
	// parser config
	flag.BoolVar(&debugAST, "debug-ast", false, "Render each parsed tree as text on stderr")
	flag.BoolVar(&debugJSON, "debug-json-ast", false, "Render each parsed tree as JSON on stderr")
	// log config
	flag.StringVar(&logLevel, "log-level", "none", "Log level: debug, info, warn, error, none")
	flag.StringVar(&logFile, "log-file", "", "Log file path (if not set, logs to stderr)")
}

func main() {

	flag.Parse()

	if version {
		printVersion()
		return
	}

	if help {
		printHelp()
		return
	}

	config, err := loadConfiguration()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logWriter := logger.Setup(config.LogLevel, config.LogFile)
	defer logWriter.Close()

	p := parser.New()
	if config.DebugTxtAST || config.DebugJsonAST {
		p.DebugHook = debugHook(config)
	}

	e := evaluator.New(p, os.Stdout)
	defer e.Close()

	if !config.NoPrelude {
		if x := prelude.Load(e, config.Prelude); object.IsError(x) {
			fmt.Println(x.Inspect())
		}
	}

	if expr != "" {
		result, err := e.EvalSource("<expr>", expr)
		if err != nil {
			repl.PrintParserError(os.Stdout, err)
			return
		}
		fmt.Println(result.Inspect())
		return
	}

	if flag.NArg() == 0 {
		repl.Start(config, e, os.Stdin, os.Stdout)
		return
	}

	for _, path := range flag.Args() {
		slog.Info("loading file", slog.String("path", path))
		if x := e.LoadFile(e.Global, path); object.IsError(x) {
			fmt.Println(x.Inspect())
		}
	}
}

// loadConfiguration layers defaults, the TOML file and explicitly set flags.
func loadConfiguration() (util.Configuration, error) {
	config := util.DefaultConfiguration()
	config.Version = Version
	config.BuildDate = BuildDate
	config.Commit = Commit
	config.LispyHome = os.Getenv("LISPY_HOME")

	path := util.ConfigPath(configPath, config.LispyHome)
	if err := config.LoadFile(path, configPath != ""); err != nil {
		return config, err
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "prelude":
			config.Prelude = preludeArg
		case "no-prelude":
			config.NoPrelude = noPrelude
		case "log-level":
			config.LogLevel = logLevel
		case "log-file":
			config.LogFile = logFile
		}
	})
	config.DebugTxtAST = debugAST
	config.DebugJsonAST = debugJSON
	return config, nil
}

func debugHook(config util.Configuration) func(string, *ast.Node) {
	return func(filename string, root *ast.Node) {
		if config.DebugTxtAST {
			fmt.Fprintf(os.Stderr, "AST %s:\n%s\n", filename, parser.RenderASTAsText(root, 0))
		}
		if config.DebugJsonAST {
			out, err := parser.RenderASTAsJSON(root)
			if err != nil {
				slog.Warn("rendering AST", slog.Any("error", err))
				return
			}
			fmt.Fprintln(os.Stderr, out)
		}
	}
}

func printVersion() {

	fmt.Printf("lispy version 'v%s' %s %s\n", Version, BuildDate, Commit)
}

func printHelp() {
	fmt.Printf(`Usage: lispy [options] [filename...]

Options:
  -config <path>     Read settings from a TOML file. Default is $LISPY_HOME/lispy.toml.
  -prelude <path>    Load this library at startup instead of the bundled prelude.
  -no-prelude        Start without loading any prelude.
  -e <expr>          Evaluate an expression, print the result and exit.
  -debug-ast         Render each parsed tree as text on stderr.
  -debug-json-ast    Render each parsed tree as JSON on stderr.
  -help              Display this help information and exit.
  -version           Display version information and exit.
  -log-level <level> Set the log level: debug, info, warn, error, none. Default is 'none'.
  -log-file <path>   Specify a log file to write logs. Default is stderr.

Details:
This is Lispy, a small Lisp with Q-expressions. Without files it starts an
interactive prompt; with files it loads each of them in order.

Examples:
  lispy                          Start the interactive prompt
  lispy -log-level=debug         Start with debug logging enabled
  lispy prog.lspy other.lspy     Load and run the provided files
  lispy -e '+ 1 2'               Print the result of one expression

Version Information:
  Version:    %s
  Build Date: %s
  Commit:     %s
`, Version, BuildDate, Commit)
}
