package cli

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-docbind/pkg/document"
	"github.com/goliatone/go-docbind/pkg/schema"
)

func documentsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "documents",
		Aliases: []string{"docs"},
		Short:   "Inspect saved documents",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List saved documents, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags := cmd.Flags()
			templateID, _ := flags.GetString("template")
			sinceRaw, _ := flags.GetString("since")
			untilRaw, _ := flags.GetString("until")
			limit, _ := flags.GetInt("limit")
			asJSON, _ := flags.GetBool("json")

			q := document.Query{TemplateID: templateID, Limit: limit}
			var err error
			if q.Since, err = parseTimeFlag("since", sinceRaw); err != nil {
				return err
			}
			if q.Until, err = parseTimeFlag("until", untilRaw); err != nil {
				return err
			}

			repo, closeRepo, err := a.repository(cmd.Context())
			if err != nil {
				return err
			}
			defer closeRepo()

			snapshots, err := repo.List(cmd.Context(), q)
			if err != nil {
				return err
			}
			if asJSON {
				if snapshots == nil {
					snapshots = []*document.Snapshot{}
				}
				return writeJSON(cmd.OutOrStdout(), snapshots)
			}

			rows := make([][]string, 0, len(snapshots))
			for _, s := range snapshots {
				rows = append(rows, []string{
					s.ID,
					s.TemplateID,
					s.Timestamp.Local().Format("02/01/2006 15:04"),
					firstLine(s.RenderedContent, 48),
				})
			}
			return writeTable(cmd.OutOrStdout(), []string{"ID", "TEMPLATE", "CREATED", "PREVIEW"}, rows)
		},
	}
	listFlags := listCmd.Flags()
	listFlags.String("template", "", "only documents from this template")
	listFlags.String("since", "", "only documents at or after (RFC3339, YYYY-MM-DD or DD/MM/YYYY)")
	listFlags.String("until", "", "only documents at or before")
	listFlags.Int("limit", 50, "maximum number of documents (0 for all)")
	listFlags.Bool("json", false, "print JSON")

	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print a saved document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")

			repo, closeRepo, err := a.repository(cmd.Context())
			if err != nil {
				return err
			}
			defer closeRepo()

			snapshot, err := repo.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), snapshot)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "id:       %s\n", snapshot.ID)
			fmt.Fprintf(out, "template: %s\n", snapshot.TemplateID)
			fmt.Fprintf(out, "created:  %s\n", snapshot.Timestamp.Format(time.RFC3339))
			if len(snapshot.Values) > 0 {
				fmt.Fprintln(out, "values:")
				keys := make([]string, 0, len(snapshot.Values))
				for key := range snapshot.Values {
					keys = append(keys, key)
				}
				sort.Strings(keys)
				for _, key := range keys {
					fmt.Fprintf(out, "  %s: %s\n", key, snapshot.Values[key])
				}
			}
			fmt.Fprintf(out, "\n%s", snapshot.RenderedContent)
			if !strings.HasSuffix(snapshot.RenderedContent, "\n") {
				fmt.Fprintln(out)
			}
			return nil
		},
	}
	showCmd.Flags().Bool("json", false, "print JSON")

	cmd.AddCommand(listCmd, showCmd)
	return cmd
}

func parseTimeFlag(name, raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return &ts, nil
	}
	day, err := schema.ParseDate(raw)
	if err != nil {
		return nil, fmt.Errorf("--%s: %w", name, err)
	}
	return &day, nil
}

func firstLine(text string, max int) string {
	line := strings.TrimSpace(text)
	if idx := strings.IndexByte(line, '\n'); idx >= 0 {
		line = strings.TrimSpace(line[:idx])
	}
	runes := []rune(line)
	if len(runes) > max {
		return string(runes[:max-1]) + "…"
	}
	return line
}
