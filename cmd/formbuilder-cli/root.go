package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	formbuilder "github.com/goliatone/go-formbuilder"
	"github.com/goliatone/go-formbuilder/pkg/builder"
	"github.com/goliatone/go-formbuilder/pkg/config"
	"github.com/goliatone/go-formbuilder/pkg/render"
)

type globalFlags struct {
	verbose bool
}

// pageFlags are shared by every command that renders a form.
type pageFlags struct {
	form   string
	config string
	values string
	page   string
	mount  string
}

func newRootCmd() *cobra.Command {
	var g globalFlags
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	cmd := &cobra.Command{
		Use:           "formbuilder-cli",
		Short:         "Render and fill declarative HTML forms",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(*cobra.Command, []string) {
			if g.verbose {
				logger.SetLevel(logrus.DebugLevel)
			} else {
				logger.SetLevel(logrus.WarnLevel)
			}
		},
	}
	cmd.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "Log debug records to stderr")
	cmd.AddCommand(newRenderCmd(logger), newFillCmd(logger))
	return cmd
}

func (p *pageFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&p.form, "form", "f", "", "Form document (YAML or JSON, required)")
	cmd.Flags().StringVarP(&p.config, "config", "c", "", "Configuration overrides (YAML)")
	cmd.Flags().StringVar(&p.values, "values", "", "Prefill values (YAML or JSON)")
	cmd.Flags().StringVar(&p.page, "page", "", "Host page (defaults to a blank page with <main id=\"app\">)")
	cmd.Flags().StringVar(&p.mount, "mount", formbuilder.DefaultMount, "Mount selector (CSS, or XPath when starting with /)")
	_ = cmd.MarkFlagRequired("form")
}

func (p *pageFlags) render(logger logrus.FieldLogger) (string, *formbuilder.Form, error) {
	opts := []formbuilder.Option{builder.WithLogger(logger)}
	if p.config != "" {
		overrides, err := config.Load(p.config)
		if err != nil {
			return "", nil, err
		}
		opts = append(opts, builder.WithConfig(overrides))
	}
	if p.values != "" {
		values, err := loadValues(p.values)
		if err != nil {
			return "", nil, err
		}
		opts = append(opts, builder.WithValues(values))
	}

	page := formbuilder.Page{Mount: p.mount}
	if p.page != "" {
		data, err := os.ReadFile(p.page)
		if err != nil {
			return "", nil, fmt.Errorf("read page: %w", err)
		}
		page.Markup = string(data)
	}

	logger.WithFields(logrus.Fields{"form": p.form, "mount": p.mount}).Debug("rendering form")
	return formbuilder.RenderFile(p.form, page, opts...)
}

func loadValues(path string) (render.Values, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read values: %w", err)
	}
	var values render.Values
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parse values %s: %w", path, err)
	}
	return values, nil
}
