package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/viant/afs"
	"go.uber.org/zap"

	"github.com/reoring/xsd2fhir"
	"github.com/reoring/xsd2fhir/i18n"
	"github.com/reoring/xsd2fhir/internal/config"
	"github.com/reoring/xsd2fhir/internal/logging"
)

func newConvertCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "convert",
		Short: "Convert an XSD document into StructureDefinitions",
		Long: config.Usage + `

Nothing is written when any type fails to convert.`,
		Args: cobra.NoArgs,
		RunE: runConvert,
	}
	config.DefineFlags(c.Flags())
	return c
}

func runConvert(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(config.New(), cmd.Flags())
	if err != nil {
		return err
	}
	i18n.SetLanguage(cfg.Language)
	if err := cfg.Validate(); err != nil {
		return err
	}
	opts, err := cfg.Options()
	if err != nil {
		return err
	}
	job, err := cfg.Job()
	if err != nil {
		return err
	}

	log := logging.NewTo(cmd.ErrOrStderr(), cfg.LogJSON, cfg.Verbose)
	defer func() { _ = log.Sync() }()
	opts.Logger = log

	report, diag, err := xsd2fhir.Run(cmd.Context(), afs.New(), job, opts)
	if diag != nil {
		for _, w := range diag.Warnings() {
			log.Warn(w)
		}
	}
	if err != nil {
		return err
	}
	log.Debug("written", zap.Strings("files", report.Written))
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "wrote %d definitions to %s\n", report.Definitions, job.DestURL)
	return err
}
