package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/thomasrohde/lispir/pkg/diagnostics"
)

func cmdTrace(args []string) int {
	flags, rest, err := parseFlags(args)
	if err != nil || len(rest) != 1 {
		return usageError("usage: lispir trace <file.jsonl> [--json|--text]")
	}
	file := rest[0]

	f, err := os.Open(file)
	if err != nil {
		diag := diagnostics.MakeDiag(diagnostics.EIO, fmt.Sprintf("cannot read file: %s", file), "")
		fmt.Fprintln(os.Stderr, diagnostics.FormatDiagnostic(diag, false))
		return 1
	}
	defer f.Close()

	summary := computeTraceSummary(f)

	if flags.text {
		printTraceSummaryText(os.Stdout, summary)
		return 0
	}
	b, _ := json.Marshal(summary)
	fmt.Println(string(b))
	return 0
}

// TraceSummary aggregates the events of one or more evaluation runs.
type TraceSummary struct {
	Runs         int            `json:"runs"`
	TotalEvents  int            `json:"totalEvents"`
	Calls        int            `json:"calls"`
	CallsByName  map[string]int `json:"callsByName"`
	Defines      int            `json:"defines"`
	Errors       int            `json:"errors"`
	ErrorsByCode map[string]int `json:"errorsByCode"`
	StartTime    string         `json:"startTime,omitempty"`
	EndTime      string         `json:"endTime,omitempty"`
	DurationMs   float64        `json:"durationMs"`
}

type traceEvent struct {
	Event string            `json:"event"`
	RunID string            `json:"runId"`
	TS    string            `json:"ts"`
	Data  map[string]string `json:"data,omitempty"`
}

func computeTraceSummary(r io.Reader) *TraceSummary {
	summary := &TraceSummary{
		CallsByName:  make(map[string]int),
		ErrorsByCode: make(map[string]int),
	}
	runs := make(map[string]bool)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var event traceEvent
		if err := json.Unmarshal([]byte(line), &event); err != nil {
			continue // skip invalid lines
		}

		summary.TotalEvents++
		runs[event.RunID] = true
		if summary.StartTime == "" {
			summary.StartTime = event.TS
		}
		summary.EndTime = event.TS

		switch event.Event {
		case "call_start":
			summary.Calls++
			if name := event.Data["fn"]; name != "" {
				summary.CallsByName[name]++
			}
		case "define":
			summary.Defines++
		case "error":
			summary.Errors++
			if code := event.Data["code"]; code != "" {
				summary.ErrorsByCode[code]++
			}
		}
	}
	summary.Runs = len(runs)

	if summary.StartTime != "" && summary.EndTime != "" {
		start, err1 := parseTime(summary.StartTime)
		end, err2 := parseTime(summary.EndTime)
		if err1 == nil && err2 == nil {
			summary.DurationMs = float64(end.Sub(start).Milliseconds())
		}
	}

	return summary
}

func printTraceSummaryText(w io.Writer, s *TraceSummary) {
	fmt.Fprintf(w, "Runs: %d\n", s.Runs)
	fmt.Fprintf(w, "Events: %d\n", s.TotalEvents)
	fmt.Fprintf(w, "Calls: %d\n", s.Calls)
	for _, name := range sortedKeys(s.CallsByName) {
		fmt.Fprintf(w, "  %s: %d\n", name, s.CallsByName[name])
	}
	fmt.Fprintf(w, "Defines: %d\n", s.Defines)
	fmt.Fprintf(w, "Errors: %d\n", s.Errors)
	for _, code := range sortedKeys(s.ErrorsByCode) {
		fmt.Fprintf(w, "  %s: %d\n", code, s.ErrorsByCode[code])
	}
	if s.DurationMs > 0 {
		fmt.Fprintf(w, "Duration: %.0fms\n", s.DurationMs)
	}
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("cannot parse time: %s", s)
}
