package main

import (
	"encoding/json"
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formbuilder/pkg/form"
	"github.com/goliatone/go-formbuilder/pkg/prompt"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

type fillOutput struct {
	Submitted     bool               `json:"submitted"`
	DefaultAction bool               `json:"default_action"`
	Values        []form.Value       `json:"values,omitempty"`
	Report        *validation.Report `json:"report,omitempty"`
}

func newFillCmd(logger logrus.FieldLogger) *cobra.Command {
	var p pageFlags

	cmd := &cobra.Command{
		Use:   "fill",
		Short: "Render a form document and fill it interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, f, err := p.render(logger)
			if err != nil {
				return err
			}

			res, err := prompt.Fill(cmd.Context(), f, prompt.NewSurveyDriver())
			if errors.Is(err, prompt.ErrAborted) {
				logger.Warn("fill aborted")
				return nil
			}
			if err != nil {
				return err
			}

			out := fillOutput{
				Submitted:     res.Submitted,
				DefaultAction: res.DefaultAction,
				Values:        f.Values(),
			}
			if report, ok := f.Report(); ok {
				out.Report = &report
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}

	p.register(cmd)
	return cmd
}
