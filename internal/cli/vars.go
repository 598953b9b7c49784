package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-docbind/pkg/model"
	"github.com/goliatone/go-docbind/pkg/placeholder"
)

func varsCmd(_ *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vars",
		Short: "Edit the variables declared by a template file",
	}
	cmd.PersistentFlags().String("file", "", "template file (YAML or JSON)")
	cmd.PersistentFlags().String("id", "", "template id when the file holds several")
	_ = cmd.MarkPersistentFlagRequired("file")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List declared variables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, idx, err := openTemplateForEdit(cmd)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(f.templates[idx].Variables))
			for _, v := range f.templates[idx].Variables {
				rows = append(rows, variableRow(v))
			}
			return writeTable(cmd.OutOrStdout(), variableHeaders, rows)
		},
	}

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Declare a variable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags := cmd.Flags()
			def := model.Variable{}
			def.Name, _ = flags.GetString("name")
			def.Label, _ = flags.GetString("label")
			kind, _ := flags.GetString("type")
			def.Type = model.VariableType(kind)
			def.Required, _ = flags.GetBool("required")
			def.Options, _ = flags.GetStringSlice("option")
			def.Default, _ = flags.GetString("default")
			def.Description, _ = flags.GetString("description")

			if def.Type != "" {
				parsed, err := model.ParseVariableType(kind)
				if err != nil {
					return err
				}
				def.Type = parsed
			}
			if len(def.Options) > 0 && def.Type != model.VariableTypeSelect {
				return errors.New("--option only applies to --type select")
			}

			return editVariables(cmd, func(store *model.Store) error {
				if err := store.AddVariable(def); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "added %s\n", model.CanonicalName(def.Name))
				return nil
			})
		},
	}
	addFlags := addCmd.Flags()
	addFlags.String("name", "", "variable name")
	addFlags.String("label", "", "label shown in forms and fallbacks")
	addFlags.String("type", "text", "text, date, number, select or textarea")
	addFlags.Bool("required", false, "mark the variable as required")
	addFlags.StringSlice("option", nil, "select option (repeatable)")
	addFlags.String("default", "", "default value")
	addFlags.String("description", "", "help text")

	removeCmd := &cobra.Command{
		Use:   "remove",
		Short: "Remove a variable; unknown names are ignored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			name, _ := cmd.Flags().GetString("name")
			if model.CanonicalName(name) == "" {
				return errors.New("--name is required")
			}
			return editVariables(cmd, func(store *model.Store) error {
				store.RemoveVariable(name)
				return nil
			})
		},
	}
	removeCmd.Flags().String("name", "", "variable name")

	discoverCmd := &cobra.Command{
		Use:   "discover",
		Short: "Declare text variables for undeclared placeholders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, idx, err := openTemplateForEdit(cmd)
			if err != nil {
				return err
			}
			tmpl := f.templates[idx]
			delims, err := placeholder.DelimitersFor(tmpl.Syntax)
			if err != nil {
				return err
			}
			found := placeholder.Discover(tmpl.Content, tmpl.Variables, delims, model.DefaultLabeler)
			if len(found) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no undeclared placeholders")
				return nil
			}
			return editVariables(cmd, func(store *model.Store) error {
				for _, v := range found {
					if err := store.AddVariable(v); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "added %s (%s)\n", v.Name, v.Label)
				}
				return nil
			})
		},
	}

	cmd.AddCommand(listCmd, addCmd, removeCmd, discoverCmd)
	return cmd
}

func openTemplateForEdit(cmd *cobra.Command) (*templateFile, int, error) {
	path, _ := cmd.Flags().GetString("file")
	id, _ := cmd.Flags().GetString("id")
	f, err := readTemplateFile(path)
	if err != nil {
		return nil, -1, err
	}
	idx, err := f.index(id)
	if err != nil {
		return nil, -1, err
	}
	return f, idx, nil
}

// editVariables loads the template's variables into a store, applies edit
// and rewrites the file. A failing edit leaves the file untouched.
func editVariables(cmd *cobra.Command, edit func(store *model.Store) error) error {
	f, idx, err := openTemplateForEdit(cmd)
	if err != nil {
		return err
	}
	store, err := model.NewStore(f.templates[idx].Variables)
	if err != nil {
		return fmt.Errorf("%s: %w", f.path, err)
	}
	if err := edit(store); err != nil {
		return err
	}
	f.templates[idx] = store.Apply(f.templates[idx])
	return f.write()
}
