// Package cmd contains the xsd2fhir CLI commands.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/reoring/xsd2fhir/errors"
)

// NewRootCmd builds the command tree writing to stdout and stderr.
func NewRootCmd(stdout, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:   "xsd2fhir",
		Short: "Convert XSD type declarations to FHIR logical StructureDefinitions",
		Long: `Convert the named types of an XML Schema into FHIR logical-model
StructureDefinitions, one document per definition.

Settings come from flags, XSD2FHIR_* environment variables and an optional
config file, in that order of precedence.

Examples:
  xsd2fhir convert --source model.xsd --dest out/ --model-name Demo
  xsd2fhir convert --source model.xsd --dest out/ --format yaml --fhir-path fhir/
  XSD2FHIR_MODEL_NAME=Demo xsd2fhir convert --config xsd2fhir.yaml
  xsd2fhir library --fhir-path fhir/`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.AddCommand(newConvertCmd())
	root.AddCommand(newLibraryCmd())
	root.AddCommand(newVersionCmd())
	return root
}

// Execute runs the CLI and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := NewRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx)
	stop()
	if err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)
	if hint := errors.FlattenHints(err); hint != "" {
		fmt.Fprintln(w, hint)
	}
}
