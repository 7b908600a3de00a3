package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newRenderCmd(logger logrus.FieldLogger) *cobra.Command {
	var (
		p      pageFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a form document into a page",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, _, err := p.render(logger)
			if err != nil {
				return err
			}
			if output == "" {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), out)
				return err
			}
			if err := os.WriteFile(output, []byte(out), 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Form written to %s\n", output)
			return nil
		},
	}

	p.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (stdout if empty)")
	return cmd
}
