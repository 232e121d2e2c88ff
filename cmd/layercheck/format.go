package main

import (
	"fmt"
	"io"

	"layercheck/internal/config"
	"layercheck/internal/report"
	"layercheck/internal/version"
)

// renderResult writes a check result in the configured output format.
func renderResult(w io.Writer, r report.Result, cfg *config.Config) error {
	switch cfg.Report.Format {
	case "json":
		return (&report.JSONReporter{}).Report(w, r)
	case "plain":
		return report.PlainReporter{}.Report(w, r)
	case "sarif":
		out, err := FormatResultAsSARIF(r, version.Version)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, out)
		return err
	case "console", "":
		return (&report.ConsoleReporter{ShowSuggestions: cfg.Report.ShowSuggestions}).Report(w, r)
	default:
		return fmt.Errorf("unsupported format: %s", cfg.Report.Format)
	}
}
