package main

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/goccy/go-json"

	"github.com/reoring/shapecheck"
)

// errInvalid signals exit status 1 after the report has been printed.
var errInvalid = errors.New("invalid")

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func (c *cli) printResult(w io.Writer, res shapecheck.Result) error {
	if c.jsonOutput {
		return writeJSON(w, res)
	}
	if res.Valid {
		_, err := fmt.Fprintln(w, "OK")
		return err
	}
	fmt.Fprintln(w, shapecheck.DefinitionError)
	return printIssues(w, res.Errors)
}

// printOutcome prints the validated value as JSON, or the failure as a table.
func (c *cli) printOutcome(w io.Writer, out shapecheck.Outcome) error {
	if c.jsonOutput {
		return writeJSON(w, out)
	}
	if out.Valid {
		return writeJSON(w, out.Value)
	}
	fmt.Fprintln(w, out.Error.Type)
	return printIssues(w, out.Error.Data)
}

func printIssues(w io.Writer, iss shapecheck.Issues) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tCODE\tMESSAGE")
	for _, is := range iss {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", is.Key, is.Code, is.Message)
	}
	return tw.Flush()
}
