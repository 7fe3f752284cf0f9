package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/reoring/shapecheck"
	"github.com/reoring/shapecheck/jsonschema"
	"github.com/reoring/shapecheck/load"
)

func (c *cli) lintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lint <schema>",
		Short: "Check the definitions of a schema document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := load.SchemaFile(args[0], c.loadOptions())
			if err != nil {
				return err
			}
			res := c.validator().CheckSchema(schema)
			c.log.Debug("lint", "schema", args[0], "fields", len(schema), "valid", res.Valid)
			if err := c.printResult(cmd.OutOrStdout(), res); err != nil {
				return err
			}
			if !res.Valid {
				return errInvalid
			}
			return nil
		},
	}
}

func (c *cli) validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <schema> <input>",
		Short: "Validate an input document against a schema document",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opt := c.loadOptions()
			schema, err := load.SchemaFile(args[0], opt)
			if err != nil {
				return err
			}
			obj, err := load.ObjectFile(args[1], opt)
			if err != nil {
				return err
			}
			out := c.validator().Validate(obj, schema)
			c.log.Debug("validate", "schema", args[0], "input", args[1], "valid", out.Valid)
			if err := c.printOutcome(cmd.OutOrStdout(), out); err != nil {
				return err
			}
			if !out.Valid {
				return errInvalid
			}
			return nil
		},
	}
}

func (c *cli) exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <schema>",
		Short: "Print a schema document as JSON Schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := load.SchemaFile(args[0], c.loadOptions())
			if err != nil {
				return err
			}
			js, err := jsonschema.Export(schema)
			if err != nil {
				var iss shapecheck.Issues
				if shapecheck.IsDefinitionError(err) && errors.As(err, &iss) {
					if perr := c.printResult(cmd.OutOrStdout(), shapecheck.Result{Errors: iss}); perr != nil {
						return perr
					}
					return errInvalid
				}
				return err
			}
			return writeJSON(cmd.OutOrStdout(), js)
		},
	}
}
