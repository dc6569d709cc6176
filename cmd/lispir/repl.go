package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"

	"github.com/thomasrohde/lispir/pkg/help"
	"github.com/thomasrohde/lispir/pkg/parser"
	"github.com/thomasrohde/lispir/pkg/runtime"
)

const continuationPrompt = "...     "

// lineReader is the part of liner.State the REPL loop uses.
type lineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

func cmdRepl(args []string) int {
	flags, rest, err := parseFlags(args)
	if err != nil || len(rest) != 0 {
		return usageError("usage: lispir repl [--config <file>] [--log-level <level>] [--max-depth <n>]")
	}

	sess, closeFn, err := newSession(flags, os.Stderr)
	if err != nil {
		return configError(err, true)
	}
	defer closeFn()

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	historyFile := sess.Config().HistoryFile
	if historyFile != "" {
		if f, err := os.Open(historyFile); err == nil {
			_, _ = ln.ReadHistory(f)
			f.Close()
		}
	}

	replLoop(ln, sess, os.Stdout, os.Stderr)

	if historyFile != "" {
		if f, err := os.Create(historyFile); err == nil {
			_, _ = ln.WriteHistory(f)
			f.Close()
		}
	}
	return 0
}

// replLoop reads forms until EOF or an exit command. Errors are printed and
// the loop continues with the session intact.
func replLoop(r lineReader, sess *runtime.Session, stdout, stderr io.Writer) {
	prompt := sess.Config().Prompt

	for {
		src, ok := readForm(r, prompt)
		if !ok {
			break
		}
		trimmed := strings.TrimSpace(src)
		if trimmed == "" {
			continue
		}
		r.AppendHistory(trimmed)
		if strings.HasPrefix(trimmed, ";") {
			continue
		}

		switch trimmed {
		case "exit", ":quit":
			fmt.Fprintln(stdout, "Bye!")
			return
		case ":env":
			for _, name := range sess.Env().Names() {
				val, _ := sess.Env().Get(name)
				fmt.Fprintf(stdout, "%s = %s\n", name, val)
			}
			continue
		case ":reset":
			sess.Reset()
			fmt.Fprintln(stdout, "session reset")
			continue
		}
		if trimmed == ":help" || strings.HasPrefix(trimmed, ":help ") {
			printReplHelp(stdout, stderr, strings.TrimSpace(strings.TrimPrefix(trimmed, ":help")))
			continue
		}

		val, err := sess.Eval(src)
		if err != nil {
			reportError(stderr, err, true)
			continue
		}
		_ = printValue(stdout, val, false)
	}
	fmt.Fprintln(stdout, "Bye!")
}

// readForm reads lines until the input parses or fails for a reason other
// than running out of tokens. Ctrl-C discards the pending input.
func readForm(r lineReader, prompt string) (string, bool) {
	var b strings.Builder
	p := prompt

	for {
		line, err := r.Prompt(p)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				return "", true
			}
			if b.Len() > 0 && errors.Is(err, io.EOF) {
				return b.String(), true
			}
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if isCommand(strings.TrimSpace(src)) {
			return src, true
		}
		if _, err := parser.ParseSource(src); parser.IsIncomplete(err) {
			p = continuationPrompt
			continue
		}
		return src, true
	}
}

func isCommand(s string) bool {
	switch s {
	case "", "exit", ":quit", ":env", ":reset":
		return true
	}
	return strings.HasPrefix(s, ";") || strings.HasPrefix(s, ":help")
}

func printReplHelp(stdout, stderr io.Writer, topic string) {
	if topic == "" {
		fmt.Fprint(stdout, help.QUICKREF)
		return
	}
	_, content, err := help.MatchTopic(topic)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return
	}
	fmt.Fprint(stdout, content)
}
