package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"manga_tracker/filter"
	"manga_tracker/lang"
	"manga_tracker/render"
)

var errNotLoggedIn = errors.New("not logged in, run `manga_tracker login` first")

var (
	listType   string
	listSort   string
	listGenres string
	listPage   int
	listHTML   bool
)

// listCmd prints one page of a list
var listCmd = &cobra.Command{
	Use:   "list [status]",
	Short: "Print one page of the series list",
	Long: `Prints the series in a status section, filtered like the list screen.
Type, sort and genre flags are remembered for the next run.

Statuses: plan-to, reading, completed, one-shots, on-hold, dropped, ongoing.
Leave it out to list every status.

Examples:
  manga_tracker list reading --type manhwa
  manga_tracker list --genres "action, -romance" --sort rating
  manga_tracker list completed --html > completed.html`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVarP(&listType, "type", "t", "", "Series type (all, manga, manhwa, manhua, novel, minor)")
	listCmd.Flags().StringVarP(&listSort, "sort", "s", "", "Sort key (title, rating, added)")
	listCmd.Flags().StringVarP(&listGenres, "genres", "g", "", "Genres to include; prefix with - to exclude")
	listCmd.Flags().IntVarP(&listPage, "page", "p", 0, "Page number")
	listCmd.Flags().BoolVar(&listHTML, "html", false, "Print the page as an HTML table")
}

func runList(cmd *cobra.Command, args []string) error {
	overrides := filter.Overrides{
		Type:   listType,
		Sort:   listSort,
		Genres: listGenres,
		Page:   listPage,
	}
	if len(args) == 1 {
		overrides.Status = args[0]
	}
	ctl := filter.NewController(session, logger)
	if err := ctl.Restore(overrides); err != nil {
		logger.Warn("failed to save restored filter", zap.Error(err))
	}

	ctx, cancel := requestContext()
	defer cancel()
	state := ctl.State()
	res := runner.LoadList(ctx, ctl.NextRequest(), state)
	if res.Unauthorized() {
		return errNotLoggedIn
	}

	out := cmd.OutOrStdout()
	if listHTML {
		table, err := render.HTMLTable(res.Rows)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, table)
	} else {
		printList(out, state, res.Rows)
	}
	return res.Err
}

func joinOrDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}

func printList(w io.Writer, state filter.State, rows []render.Row) {
	texts := lang.Active().List
	fmt.Fprintf(w, "%s | %s: %s | %s: %s | %s\n",
		lang.SectionName(state.Status),
		texts.TypeLabel, lang.TypeName(state.Type),
		texts.SortLabel, lang.SortName(state.SortKey),
		lang.PageLabel(state.Page))
	fmt.Fprintln(w, lang.FilterSummary(joinOrDash(state.Included), joinOrDash(state.Excluded)))
	fmt.Fprintln(w)

	for _, row := range rows {
		if row.IsPlaceholder() {
			fmt.Fprintln(w, row.Message)
			continue
		}
		fmt.Fprintf(w, "%s  ★ %s", row.Title, row.Rating)
		if row.VolCh != "" {
			fmt.Fprintf(w, "  [%s]", row.VolCh)
		}
		fmt.Fprintln(w)
		if row.HasAltTitles() {
			fmt.Fprintf(w, "    %s: %s\n", texts.AltTitlesTitle, strings.Join(row.AltTitles, "; "))
		}
		if len(row.Genres) > 0 {
			fmt.Fprintf(w, "    %s\n", strings.Join(row.Genres, ", "))
		}
		for _, link := range row.Links {
			fmt.Fprintf(w, "    %s: %s\n", link.Title, link.URL)
		}
	}
}
