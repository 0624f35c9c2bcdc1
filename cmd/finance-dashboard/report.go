package main

import (
	"context"
	"fmt"
	"io"

	"github.com/iwvelando/finance-dashboard/internal/forecast"
	"github.com/iwvelando/finance-dashboard/internal/model"
	"github.com/iwvelando/finance-dashboard/internal/workspace"
	"github.com/iwvelando/finance-dashboard/pkg/constants"
	"github.com/iwvelando/finance-dashboard/pkg/output"
	"github.com/iwvelando/finance-dashboard/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const summaryView = "summary"

func newReportCommand(a *app) *cobra.Command {
	var (
		outputFormat string
		monthly      bool
	)

	cmd := &cobra.Command{
		Use:   "report [view|summary]",
		Short: "Print a projection view",
		Long: `Print one projection view or the annual summary with headline KPIs.

Views: revenue, payroll, hosting, gross-profit, liquidity, summary.

Examples:
  finance-dashboard report
  finance-dashboard report liquidity --monthly
  finance-dashboard report revenue --output-format csv`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view := summaryView
			if len(args) == 1 {
				view = args[0]
			}

			// CLI override takes precedence over config
			format := a.conf.Output.Format
			if outputFormat != "" {
				format = outputFormat
			}
			if format == "" {
				format = constants.OutputFormatPretty
			}
			if err := validation.ValidateOutputFormat(format); err != nil {
				return err
			}
			annual := a.conf.Output.Annual
			if cmd.Flags().Changed("monthly") {
				annual = !monthly
			}

			ws, closeGateway, err := openWorkspace(cmd.Context(), a)
			if err != nil {
				return err
			}
			defer closeGateway()
			if err := ws.LoadError(); err != nil {
				return fmt.Errorf("failed to load model: %w", err)
			}

			return ws.View(func(doc *model.Document, results forecast.Results) error {
				for _, warning := range doc.Validate() {
					a.logger.Warn("Model warning: "+warning, zap.String("op", "main.report"))
				}
				return writeReport(cmd.OutOrStdout(), results, view, format, annual)
			})
		},
	}

	cmd.Flags().StringVar(&outputFormat, "output-format", "", "type of output override: pretty, csv, yaml")
	cmd.Flags().BoolVar(&monthly, "monthly", false, "show months instead of years")
	return cmd
}

// openWorkspace loads the model through the configured store chain.
func openWorkspace(ctx context.Context, a *app) (*workspace.Workspace, func(), error) {
	if ctx == nil {
		ctx = context.Background()
	}
	gateway, closeGateway, err := openGateway(ctx, a.logger, a.conf)
	if err != nil {
		return nil, nil, err
	}
	return workspace.Open(ctx, a.logger, gateway, a.conf.ModelDefaults()), closeGateway, nil
}

func writeReport(w io.Writer, results forecast.Results, view, format string, annual bool) error {
	var (
		table output.Table
		kpis  []output.KPI
		err   error
	)
	if view == summaryView {
		table, kpis = results.Summary()
	} else if table, err = results.Table(view, annual); err != nil {
		return err
	}

	switch format {
	case constants.OutputFormatCSV:
		return output.CsvFormat(w, table)
	case constants.OutputFormatYAML:
		return output.YAMLFormat(w, table)
	}

	if len(kpis) > 0 {
		if err := output.PrettyKPIs(w, "Headline", kpis); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return output.PrettyFormat(w, table)
}
