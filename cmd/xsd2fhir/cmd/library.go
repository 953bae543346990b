package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/viant/afs"

	"github.com/reoring/xsd2fhir/fhir"
	"github.com/reoring/xsd2fhir/internal/config"
)

func newLibraryCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "library",
		Short: "List the base-type definitions conversion resolves against",
		Args:  cobra.NoArgs,
		RunE:  runLibrary,
	}
	c.Flags().String(config.KeyFHIRPath, "", "directory of base-type StructureDefinitions (default: embedded library)")
	return c
}

func runLibrary(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(config.New(), cmd.Flags())
	if err != nil {
		return err
	}
	var lib *fhir.Library
	if cfg.FHIRPath != "" {
		lib, err = fhir.LoadLibrary(cmd.Context(), afs.New(), cfg.FHIRPath)
	} else {
		lib, err = fhir.DefaultLibrary()
	}
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "fhirVersion %s, %d definitions\n", lib.FHIRVersion(), lib.Len())
	for _, name := range lib.Names() {
		def, _ := lib.Lookup(name)
		fmt.Fprintf(out, "%-14s %-16s %s\n", name, def.Kind, def.URL)
	}
	return nil
}
