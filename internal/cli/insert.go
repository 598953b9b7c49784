package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-docbind/pkg/model"
	"github.com/goliatone/go-docbind/pkg/placeholder"
)

func insertCmd(_ *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "insert",
		Short: "Insert a placeholder token at a byte offset",
		Example: `  docbind insert --content "Paciente: " --pos 10 --var "nome paciente"
  docbind insert --file termo.txt --pos 0 --var DATA --syntax square --in-place`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags := cmd.Flags()
			content, _ := flags.GetString("content")
			file, _ := flags.GetString("file")
			pos, _ := flags.GetInt("pos")
			name, _ := flags.GetString("var")
			syntax, _ := flags.GetString("syntax")
			inPlace, _ := flags.GetBool("in-place")

			if flags.Changed("content") == (file != "") {
				return errors.New("exactly one of --content or --file is required")
			}
			if model.CanonicalName(name) == "" {
				return errors.New("--var is required")
			}
			if inPlace && file == "" {
				return errors.New("--in-place needs --file")
			}
			delims, err := placeholder.DelimitersFor(model.Syntax(syntax))
			if err != nil {
				return err
			}

			if file != "" {
				data, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("read %s: %w", file, err)
				}
				content = string(data)
			}

			updated := placeholder.Insert(content, pos, name, delims)
			if inPlace {
				return os.WriteFile(file, []byte(updated), 0o644)
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), updated)
			return err
		},
	}

	flags := cmd.Flags()
	flags.String("content", "", "text to edit")
	flags.String("file", "", "file holding the text to edit")
	flags.Int("pos", 0, "byte offset of the cursor; clamped to the content")
	flags.String("var", "", "variable name; canonicalised before insertion")
	flags.String("syntax", "curly", "placeholder syntax: curly or square")
	flags.Bool("in-place", false, "rewrite --file instead of printing")
	return cmd
}
