package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/ironsheep/er-advisor/internal/agent"
	"github.com/ironsheep/er-advisor/internal/logwatch"
	"github.com/ironsheep/er-advisor/internal/scanner"
)

// ValidFormats lists the supported output formats.
var ValidFormats = map[string]bool{
	"jsonl":  true,
	"pretty": true,
}

func checkFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format %q: must be one of: jsonl, pretty", format)
	}
	return nil
}

// OutputEvent writes a log event in the given format.
func OutputEvent(format string, ev logwatch.Event, w io.Writer) error {
	if format == "pretty" {
		_, err := fmt.Fprintf(w, "[%s] %s\n", ev.Kind, ev.Value)
		return err
	}
	return json.NewEncoder(w).Encode(ev)
}

// OutputResult writes a scan result. Pretty output lists labels in order.
func OutputResult(format string, result scanner.Result, w io.Writer) error {
	if format != "pretty" {
		return json.NewEncoder(w).Encode(result)
	}

	labels := make([]string, 0, len(result))
	for label := range result {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		if _, err := fmt.Fprintf(w, "%-20s %q\n", label, result[label]); err != nil {
			return err
		}
	}
	return nil
}

// OutputAdvice writes one piece of advice.
func OutputAdvice(format string, a agent.Advice, w io.Writer) error {
	if format != "pretty" {
		return json.NewEncoder(w).Encode(a)
	}
	_, err := fmt.Fprintf(w, "\n[AI Advice] (%s, %d players)\n%s\n\n", a.Mode, len(a.Participants), a.Text)
	return err
}
