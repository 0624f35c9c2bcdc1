package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newValidateCommand(a *app) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration and the stored model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			var findings []string
			for _, w := range a.conf.ValidateConfiguration() {
				findings = append(findings, "config: "+w)
			}

			gateway, closeGateway, err := openGateway(cmd.Context(), a.logger, a.conf)
			if err != nil {
				return err
			}
			defer closeGateway()

			doc, err := gateway.Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load model: %w", err)
			}
			for _, notice := range doc.Normalize(a.conf.ModelDefaults()) {
				findings = append(findings, "repaired: "+notice)
			}
			for _, w := range doc.Validate() {
				findings = append(findings, "model: "+w)
			}

			if len(findings) == 0 {
				_, err := fmt.Fprintln(out, "model is valid")
				return err
			}
			for _, f := range findings {
				if _, err := fmt.Fprintln(out, f); err != nil {
					return err
				}
			}
			if strict {
				return fmt.Errorf("%d validation findings", len(findings))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "exit with an error when there are findings")
	return cmd
}
