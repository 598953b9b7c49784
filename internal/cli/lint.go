package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-docbind/pkg/catalog"
	"github.com/goliatone/go-docbind/pkg/model"
	"github.com/goliatone/go-docbind/pkg/placeholder"
)

var errLintFailed = errors.New("lint failed")

const (
	severityError   = "error"
	severityWarning = "warning"
)

type violation struct {
	file     string
	location string
	severity string
	message  string
}

func lintCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lint [paths...]",
		Short: "Check template files for undeclared and unused placeholders",
		Long: `Lint template files or directories. Undeclared placeholders, invalid
variables and duplicate template ids are errors; unused variables are
warnings. Without paths the configured search directories are linted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			builtin, _ := cmd.Flags().GetBool("builtin")

			paths := args
			if len(paths) == 0 && !builtin {
				paths = existingDirs(append([]string{a.cfg.Templates.Dir}, catalog.SearchPaths(a.cfg.Templates.ProjectDir)...))
			}

			var sources []lintSource
			for _, path := range paths {
				found, err := collectLintSources(path)
				if err != nil {
					return err
				}
				sources = append(sources, found...)
			}
			if builtin {
				found, err := collectFSSources(catalog.BuiltinFS(), "builtin")
				if err != nil {
					return err
				}
				sources = append(sources, found...)
			}

			violations := lintSources(sources)
			return reportViolations(cmd.OutOrStdout(), len(sources), violations)
		},
	}
	cmd.Flags().Bool("builtin", false, "also lint the embedded templates")
	return cmd
}

type lintSource struct {
	name string
	data []byte
}

func existingDirs(dirs []string) []string {
	var out []string
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			out = append(out, dir)
		}
	}
	return out
}

func collectLintSources(path string) ([]lintSource, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("lint %s: %w", path, err)
	}
	if !info.IsDir() {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("lint %s: %w", path, err)
		}
		return []lintSource{{name: path, data: data}}, nil
	}
	return collectFSSources(os.DirFS(path), filepath.Clean(path))
}

func collectFSSources(fsys fs.FS, root string) ([]lintSource, error) {
	var out []lintSource
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isTemplateExt(p) {
			return nil
		}
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return err
		}
		out = append(out, lintSource{name: filepath.Join(root, filepath.FromSlash(p)), data: data})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("lint %s: %w", root, err)
	}
	return out, nil
}

func isTemplateExt(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}

func lintSources(sources []lintSource) []violation {
	var result []violation
	seen := map[string]string{}

	for _, src := range sources {
		templates, err := catalog.ParseFile(src.data, src.name)
		if err != nil {
			result = append(result, violation{file: src.name, location: "file", severity: severityError, message: err.Error()})
			continue
		}
		for i, raw := range templates {
			location := fmt.Sprintf("templates[%d]", i)
			if raw.ID != "" {
				location = raw.ID
			}
			result = append(result, lintTemplate(src.name, location, raw)...)

			id := strings.TrimSpace(raw.ID)
			if id == "" {
				continue
			}
			if first, dup := seen[id]; dup {
				result = append(result, violation{
					file:     src.name,
					location: location,
					severity: severityError,
					message:  fmt.Sprintf("duplicate template id (first defined in %s)", first),
				})
				continue
			}
			seen[id] = src.name
		}
	}
	return result
}

func lintTemplate(file, location string, raw model.Template) []violation {
	tmpl, err := catalog.Normalize(raw)
	if err != nil {
		return []violation{{file: file, location: location, severity: severityError, message: err.Error()}}
	}
	delims := placeholder.MustDelimitersFor(tmpl.Syntax)
	report := placeholder.Analyze(tmpl.Content, tmpl.Variables, delims)

	var result []violation
	for _, name := range report.Undeclared {
		result = append(result, violation{
			file:     file,
			location: location,
			severity: severityError,
			message:  fmt.Sprintf("undeclared placeholder %s", delims.Token(name)),
		})
	}
	for _, name := range report.Unused {
		result = append(result, violation{
			file:     file,
			location: location,
			severity: severityWarning,
			message:  fmt.Sprintf("variable %s is never used", name),
		})
	}
	return result
}

func reportViolations(out io.Writer, files int, violations []violation) error {
	sort.Slice(violations, func(i, j int) bool {
		if violations[i].file == violations[j].file {
			if violations[i].location == violations[j].location {
				return violations[i].message < violations[j].message
			}
			return violations[i].location < violations[j].location
		}
		return violations[i].file < violations[j].file
	})

	errorsFound := 0
	for _, v := range violations {
		if v.severity == severityError {
			errorsFound++
		}
		fmt.Fprintf(out, "%s: %s: %s: %s\n", v.file, v.location, v.severity, v.message)
	}
	fmt.Fprintf(out, "%d file(s) checked, %d error(s), %d warning(s)\n", files, errorsFound, len(violations)-errorsFound)

	if errorsFound > 0 {
		return errLintFailed
	}
	return nil
}
