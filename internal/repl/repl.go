package repl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"lispy/internal/evaluator"
	"lispy/internal/parser"
	"lispy/internal/util"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
)

const (
	HistoryFileName = ".lispy_history"
	InputName       = "<stdin>"
)

// LineReader yields one line of input per prompt. It returns io.EOF once the
// input is exhausted.
type LineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(line string)
	Close() error
}

// Start runs the read-eval-print loop until the input ends or `exit` is called.
// A terminal gets line editing and persistent history; any other input is read
// line by line.
func Start(cfg util.Configuration, e *evaluator.Evaluator, in io.Reader, out io.Writer) {
	lines := NewLineReader(cfg, in, out)
	defer lines.Close()

	exit := e.OnExit
	e.OnExit = func(code int) {
		lines.Close()
		exit(code)
	}

	Run(cfg, e, lines, out)
}

// Run drives the loop over an already opened LineReader.
func Run(cfg util.Configuration, e *evaluator.Evaluator, lines LineReader, out io.Writer) {
	printBanner(out, cfg.Version)

	for {
		line, err := lines.Prompt(cfg.Prompt)
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, liner.ErrPromptAborted) {
				slog.Warn("reading input", slog.Any("error", err))
			}
			fmt.Fprintln(out)
			return
		}
		if strings.TrimSpace(line) != "" {
			lines.AppendHistory(line)
		}

		result, err := e.EvalSource(InputName, line)
		if err != nil {
			PrintParserError(out, err)
			continue
		}
		io.WriteString(out, result.Inspect())
		io.WriteString(out, "\n")
	}
}

func printBanner(out io.Writer, version string) {
	if version == "" {
		version = "dev"
	}
	fmt.Fprintf(out, "Lispy Version %s\n", version)
	fmt.Fprintf(out, "Press Ctrl+c to Exit\n\n")
}

// PrintParserError writes err followed by the source context when it has one.
func PrintParserError(out io.Writer, err error) {
	io.WriteString(out, err.Error())
	io.WriteString(out, "\n")
	var perr *parser.Error
	if errors.As(err, &perr) {
		io.WriteString(out, perr.Context())
		io.WriteString(out, "\n")
	}
}

// NewLineReader picks a liner-backed terminal when in is an interactive stdin and
// a plain scanner otherwise.
func NewLineReader(cfg util.Configuration, in io.Reader, out io.Writer) LineReader {
	if f, ok := in.(*os.File); ok && f == os.Stdin && isTerminal(f) && liner.TerminalSupported() {
		return NewTerminal(historyPath(cfg))
	}
	return NewScanner(in, out)
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

func historyPath(cfg util.Configuration) string {
	if cfg.HistoryFile != "" {
		return cfg.HistoryFile
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, HistoryFileName)
}

// Terminal wraps a liner state and saves its history on Close.
type Terminal struct {
	state       *liner.State
	historyPath string
	closed      bool
}

func NewTerminal(historyPath string) *Terminal {
	ln := liner.NewLiner()
	ln.SetCtrlCAborts(true)

	if historyPath != "" {
		if f, err := os.Open(historyPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
	}
	return &Terminal{state: ln, historyPath: historyPath}
}

func (t *Terminal) Prompt(prompt string) (string, error) {
	return t.state.Prompt(prompt)
}

func (t *Terminal) AppendHistory(line string) {
	t.state.AppendHistory(line)
}

func (t *Terminal) Close() error {
	if t.closed {
		return nil
	}
	t.closed = true

	if t.historyPath != "" {
		if f, err := os.Create(t.historyPath); err == nil {
			_, _ = t.state.WriteHistory(f)
			_ = f.Close()
		} else {
			slog.Warn("saving history", slog.String("path", t.historyPath), slog.Any("error", err))
		}
	}
	return t.state.Close()
}

// Scanner reads lines from any reader and echoes the prompt to out.
type Scanner struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func NewScanner(in io.Reader, out io.Writer) *Scanner {
	return &Scanner{scanner: bufio.NewScanner(in), out: out}
}

func (s *Scanner) Prompt(prompt string) (string, error) {
	io.WriteString(s.out, prompt)
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return s.scanner.Text(), nil
}

func (s *Scanner) AppendHistory(string) {}

func (s *Scanner) Close() error { return nil }
