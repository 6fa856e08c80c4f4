// Package repl implements the interactive top-level loop described in
// spec.md §5: a read-eval-print loop over the same reader/expander/eval
// pipeline package runner uses for scripts, with terminal-aware prompting,
// SIGINT handling that aborts the current input line without touching an
// in-progress evaluation, and persistent history.
package repl

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"

	"cozenage/internal/cell"
	"cozenage/internal/config"
	"cozenage/internal/env"
	"cozenage/internal/eval"
	"cozenage/internal/expander"
	"cozenage/internal/lexer"
	"cozenage/internal/primitives"
	"cozenage/internal/reader"
)

const banner = "cozenage Scheme | Ctrl-D to exit"

// Start runs the REPL until EOF (Ctrl-D) or (exit) is called, using e as
// the interaction environment. It returns the process exit code.
func Start(e *env.Env) int {
	interactive := isatty.IsTerminal(os.Stdin.Fd())
	if interactive {
		fmt.Println(banner)
	}

	hist := loadHistory()
	defer saveHistory(hist)

	lines := make(chan string)
	go readLines(os.Stdin, lines)

	sigint := make(chan os.Signal, 1)
	signal.Notify(sigint, os.Interrupt)
	defer signal.Stop(sigint)

	var buf strings.Builder
	for {
		if interactive {
			if buf.Len() == 0 {
				fmt.Print("> ")
			} else {
				fmt.Print("  ")
			}
		}

		select {
		case line, ok := <-lines:
			if !ok {
				if interactive {
					fmt.Println()
				}
				return 0
			}
			buf.WriteString(line)
			buf.WriteByte('\n')

			source := buf.String()
			if incomplete(source) {
				continue
			}
			buf.Reset()
			if strings.TrimSpace(source) == "" {
				continue
			}
			hist = append(hist, strings.TrimRight(source, "\n"))

			for _, form := range reader.ReadAll(source) {
				if cell.IsError(form) {
					fmt.Fprintf(os.Stderr, "error: %s\n", form.Err.Error())
					continue
				}
				result := eval.Eval(expander.Expand(form), e)
				if primitives.ExitCode >= 0 {
					return primitives.ExitCode
				}
				if cell.IsError(result) {
					fmt.Fprintf(os.Stderr, "error: %s\n", result.Err.Error())
				} else if result != cell.Unspec {
					fmt.Println(cell.Write(result))
				}
			}
		case <-sigint:
			buf.Reset()
			if interactive {
				fmt.Println("^C")
			}
		}
	}
}

// incomplete reports whether source ends mid-datum: an open list the
// lexer hasn't closed yet, or a string literal the lexer flagged as
// unterminated. Either means the REPL should keep reading lines before
// handing the buffer to reader.ReadAll.
func incomplete(source string) bool {
	depth := 0
	for _, tok := range lexer.NewScanner(source).ScanTokens() {
		switch tok.Type {
		case lexer.LPAREN:
			depth++
		case lexer.RPAREN, lexer.RBRACKET, lexer.RBRACE:
			depth--
		case lexer.ERROR:
			if tok.Message == "unterminated string literal" {
				return true
			}
		}
	}
	return depth > 0
}

// readLines feeds r's lines into out one at a time, closing out on EOF so
// Start's select can distinguish "no input yet" from "stream closed".
func readLines(r *os.File, out chan<- string) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		out <- scanner.Text()
	}
	close(out)
}

func loadHistory() []string {
	path := config.HistoryPath()
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var hist []string
	for _, l := range strings.Split(string(data), "\n") {
		if l != "" {
			hist = append(hist, l)
		}
	}
	return hist
}

func saveHistory(hist []string) {
	path := config.HistoryPath()
	if path == "" || len(hist) == 0 {
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return
	}
	_ = os.WriteFile(path, []byte(strings.Join(hist, "\n")+"\n"), 0o644)
}
