package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-docbind/pkg/binder"
	"github.com/goliatone/go-docbind/pkg/catalog"
	"github.com/goliatone/go-docbind/pkg/document"
	"github.com/goliatone/go-docbind/pkg/model"
	"github.com/goliatone/go-docbind/pkg/orchestrator"
	"github.com/goliatone/go-docbind/pkg/render"
)

func renderCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render [id]",
		Short: "Render a template with values",
		Long: `Render a catalog template (or --template-file) with values from --values
and --set. The tui renderer prompts for every variable instead.`,
		Example: `  docbind render atestado-medico --set "nome paciente=Maria Silva" --set DATA=15/10/2026 --defaults
  docbind render receita-simples --values consulta.yaml --renderer html --output receita.html --save`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			sets, _ := flags.GetStringArray("set")
			valuesFile, _ := flags.GetString("values")
			rendererName, _ := flags.GetString("renderer")
			strict, _ := flags.GetBool("strict")
			defaults, _ := flags.GetBool("defaults")
			save, _ := flags.GetBool("save")
			outputPath, _ := flags.GetString("output")
			fallbackRaw, _ := flags.GetString("fallback")
			templateFile, _ := flags.GetString("template-file")

			req := orchestrator.Request{
				Renderer:      rendererName,
				Strict:        strict,
				ApplyDefaults: defaults,
				Save:          save,
			}
			switch {
			case templateFile != "":
				tmpl, err := loadSingleTemplate(templateFile, firstArg(args))
				if err != nil {
					return err
				}
				req.Template = &tmpl
			case len(args) == 1:
				req.TemplateID = args[0]
			default:
				return errors.New("a template id or --template-file is required")
			}

			if fallbackRaw != "" {
				fallback, err := binder.ParseFallback(fallbackRaw)
				if err != nil {
					return err
				}
				req.Fallback = fallback
			}

			values, err := collectValues(valuesFile, sets)
			if err != nil {
				return err
			}
			req.Values = values

			cat, err := a.catalog()
			if err != nil {
				return err
			}

			var saver document.Saver
			if save {
				backend, err := a.backend(cmd.Context())
				if err != nil {
					return err
				}
				defer backend.Close()
				saver = backend.Saver()
			}

			orch, err := a.orchestrator(cat, saver, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			result, genErr := orch.Generate(cmd.Context(), req)
			var verrs *render.ValidationErrors
			if errors.As(genErr, &verrs) {
				printValidationErrors(cmd.ErrOrStderr(), verrs)
				return errors.New("values failed validation")
			}
			if genErr != nil && !errors.Is(genErr, orchestrator.ErrSaveFailed) {
				return genErr
			}

			if err := writeOutput(cmd.OutOrStdout(), outputPath, result.Output); err != nil {
				return err
			}
			if genErr != nil {
				return genErr
			}
			if result.Snapshot != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "saved document %s\n", result.Snapshot.ID)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringArray("set", nil, "value as NAME=VALUE (repeatable)")
	flags.String("values", "", "YAML or JSON file mapping variable names to values")
	flags.String("renderer", "", "renderer: text, html or tui (default render.default_renderer)")
	flags.Bool("strict", false, "validate values before rendering")
	flags.Bool("defaults", false, "fill blank values from variable defaults")
	flags.Bool("save", false, "save the generated document")
	flags.String("output", "", "write output to file instead of stdout")
	flags.String("fallback", "", "missing value placeholder: label or name")
	flags.String("template-file", "", "render a template file instead of a catalog entry")
	return cmd
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

// collectValues merges the values file with --set pairs; pairs win.
func collectValues(path string, sets []string) (map[string]string, error) {
	values := map[string]string{}
	if path != "" {
		fromFile, err := loadValuesFile(path)
		if err != nil {
			return nil, err
		}
		for key, value := range fromFile {
			values[key] = value
		}
	}
	pairs, err := parseAssignments(sets)
	if err != nil {
		return nil, err
	}
	for key, value := range pairs {
		values[key] = value
	}
	return values, nil
}

func parseAssignments(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("invalid --set %q: want NAME=VALUE", pair)
		}
		out[strings.TrimSpace(key)] = value
	}
	return out, nil
}

// loadValuesFile reads a flat mapping. Scalars of any YAML type are kept in
// their textual form.
func loadValuesFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read values: %w", err)
	}
	var raw map[string]yaml.Node
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse values %s: %w", path, err)
	}
	out := make(map[string]string, len(raw))
	for key, node := range raw {
		if node.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("parse values %s: %q must be a scalar", path, key)
		}
		if node.Tag == "!!null" {
			out[key] = ""
			continue
		}
		out[key] = node.Value
	}
	return out, nil
}

func loadSingleTemplate(path, id string) (model.Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Template{}, fmt.Errorf("read template: %w", err)
	}
	templates, err := catalog.ParseFile(data, path)
	if err != nil {
		return model.Template{}, err
	}
	if id == "" {
		if len(templates) != 1 {
			return model.Template{}, fmt.Errorf("%s holds %d templates; pass the id to render", path, len(templates))
		}
		return templates[0], nil
	}
	for _, tmpl := range templates {
		if tmpl.ID == id {
			return tmpl, nil
		}
	}
	return model.Template{}, fmt.Errorf("%w: %q in %s", catalog.ErrNotFound, id, path)
}

func printValidationErrors(out io.Writer, verrs *render.ValidationErrors) {
	for _, name := range verrs.Names() {
		for _, msg := range verrs.Fields[name] {
			fmt.Fprintf(out, "  %s: %s\n", name, msg)
		}
	}
	for _, msg := range verrs.Form {
		fmt.Fprintf(out, "  %s\n", msg)
	}
}

func writeOutput(stdout io.Writer, path string, data []byte) error {
	if path == "" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
