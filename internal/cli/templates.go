package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-docbind/pkg/model"
)

func templatesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "templates",
		Aliases: []string{"tpl"},
		Short:   "Browse the template catalog",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List templates from the search paths and built-ins",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			category, _ := cmd.Flags().GetString("category")
			asJSON, _ := cmd.Flags().GetBool("json")

			cat, err := a.catalog()
			if err != nil {
				return err
			}

			var templates []model.Template
			for _, tmpl := range cat.List() {
				if category == "" || strings.EqualFold(tmpl.Category, category) {
					templates = append(templates, tmpl)
				}
			}
			if asJSON {
				if templates == nil {
					templates = []model.Template{}
				}
				return writeJSON(cmd.OutOrStdout(), templates)
			}

			rows := make([][]string, 0, len(templates))
			for _, tmpl := range templates {
				rows = append(rows, []string{tmpl.ID, tmpl.Name, tmpl.Category, strconv.Itoa(len(tmpl.Variables))})
			}
			return writeTable(cmd.OutOrStdout(), []string{"ID", "NAME", "CATEGORY", "VARIABLES"}, rows)
		},
	}
	listCmd.Flags().String("category", "", "only list templates in this category")
	listCmd.Flags().Bool("json", false, "print JSON")

	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print a template with its variables",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")

			cat, err := a.catalog()
			if err != nil {
				return err
			}
			tmpl, err := cat.Get(args[0])
			if err != nil {
				return err
			}

			switch strings.ToLower(format) {
			case "json":
				return writeJSON(cmd.OutOrStdout(), tmpl)
			case "yaml", "":
				enc := yaml.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent(2)
				if err := enc.Encode(tmpl); err != nil {
					return err
				}
				return enc.Close()
			case "vars":
				rows := make([][]string, 0, len(tmpl.Variables))
				for _, v := range tmpl.Variables {
					rows = append(rows, variableRow(v))
				}
				return writeTable(cmd.OutOrStdout(), variableHeaders, rows)
			default:
				return fmt.Errorf("unknown format %q (want yaml, json or vars)", format)
			}
		},
	}
	showCmd.Flags().String("format", "yaml", "output format: yaml, json or vars")

	cmd.AddCommand(listCmd, showCmd)
	return cmd
}

var variableHeaders = []string{"NAME", "LABEL", "TYPE", "REQUIRED", "DEFAULT", "OPTIONS"}

func variableRow(v model.Variable) []string {
	return []string{v.Name, v.Label, string(v.Type), formatYesNo(v.Required), v.Default, strings.Join(v.Options, ", ")}
}
