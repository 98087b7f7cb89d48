package main

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"manga_tracker/flow"
	"manga_tracker/forms"
	"manga_tracker/lang"
	"manga_tracker/utils"
)

var (
	addIDs      forms.ExternalIDs
	addFields   = map[string]*string{}
	addMarkdown bool
	addDescFile string
)

var addFieldFlags = []string{
	forms.FieldTitle, forms.FieldAltTitles, forms.FieldType, forms.FieldStatus, forms.FieldYear,
	forms.FieldDescription, forms.FieldVolCh, forms.FieldGenres, forms.FieldAuthors, forms.FieldThumbnail,
}

var addFieldUsage = map[string]string{
	forms.FieldTitle:       "Title",
	forms.FieldAltTitles:   "Alternative titles, comma separated",
	forms.FieldType:        "Series type (Manga, Manhwa, Manhua, ...)",
	forms.FieldStatus:      "Reading status (plan-to, reading, ...)",
	forms.FieldYear:        "Release year",
	forms.FieldDescription: "Description",
	forms.FieldVolCh:       "Volumes/chapters, e.g. \"v12 c110\"",
	forms.FieldGenres:      "Genres, comma separated",
	forms.FieldAuthors:     "Authors, comma separated",
	forms.FieldThumbnail:   "Thumbnail URL",
}

// addCmd creates a series from external ids or from flags alone
var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a series",
	Long: `Adds a series to the tracker.

With any of --mu, --dex, --mal, --bato or --line the backend looks the
series up first; field flags then override what it found. Without ids
the series is built from the field flags alone and title, type, status
and thumbnail are required.

Examples:
  manga_tracker add --mu 15 --status reading
  manga_tracker add --title "Solo Leveling" --type manhwa --thumbnail https://example.com/sl.png \
      --description-file notes.md --markdown`,
	Args: cobra.NoArgs,
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVar(&addIDs.MU, "mu", "", "MangaUpdates id")
	addCmd.Flags().StringVar(&addIDs.Dex, "dex", "", "MangaDex id")
	addCmd.Flags().StringVar(&addIDs.MAL, "mal", "", "MyAnimeList id")
	addCmd.Flags().StringVar(&addIDs.Bato, "bato", "", "Bato.to id")
	addCmd.Flags().StringVar(&addIDs.Line, "line", "", "LINE Webtoon id (o:<path> for originals)")

	for _, key := range addFieldFlags {
		addFields[key] = addCmd.Flags().String(flagName(key), "", addFieldUsage[key])
	}
	addCmd.Flags().BoolVar(&addMarkdown, "markdown", false, "Description is markdown")
	addCmd.Flags().StringVar(&addDescFile, "description-file", "", "Read the description from a file")
	addCmd.MarkFlagsMutuallyExclusive(flagName(forms.FieldDescription), "description-file")
}

// flagName turns a form key into a flag name: vol_ch becomes vol-ch.
func flagName(key string) string { return strings.ReplaceAll(key, "_", "-") }

// applyFlags copies the flags the user set onto the form.
func applyFlags(cmd *cobra.Command, form *forms.SeriesForm) error {
	for _, key := range addFieldFlags {
		if cmd.Flags().Changed(flagName(key)) {
			form.Set(key, *addFields[key])
		}
	}
	if cmd.Flags().Changed("markdown") {
		form.Set(forms.FieldIsMarkdown, strconv.FormatBool(addMarkdown))
	}
	if addDescFile != "" {
		text, err := utils.ReadTextFile(addDescFile)
		if err != nil {
			return err
		}
		form.Set(forms.FieldDescription, text)
	}
	return nil
}

func printFieldErrors(w io.Writer, err error) {
	var fe forms.FieldErrors
	if !errors.As(err, &fe) {
		return
	}
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "  %s: %s\n", lang.AddFieldLabel(k), fe[k])
	}
}

func runAdd(cmd *cobra.Command, args []string) error {
	form := forms.NewSeriesForm()
	external := len(addIDs.Collect()) > 0

	if external {
		ctx, cancel := requestContext()
		found, res := runner.Lookup(ctx, addIDs)
		cancel()
		if !res.OK {
			if res.Unauthorized {
				return errNotLoggedIn
			}
			return errors.New(res.Message)
		}
		form = found
		fmt.Fprintf(cmd.ErrOrStderr(), "Found %q\n", form.Title)
	}
	if err := applyFlags(cmd, &form); err != nil {
		return err
	}

	var (
		payload forms.SeriesPayload
		err     error
	)
	if external {
		payload, err = flow.BuildExternal(form, addIDs)
	} else {
		payload, err = flow.BuildManual(form)
	}
	if err != nil {
		res := flow.Invalid(err)
		printFieldErrors(cmd.ErrOrStderr(), err)
		return errors.New(res.Message)
	}

	ctx, cancel := requestContext()
	defer cancel()
	res := runner.AddSeries(ctx, payload)
	if res.Unauthorized {
		return errNotLoggedIn
	}
	if !res.OK {
		return errors.New(res.Message)
	}
	fmt.Fprintln(cmd.OutOrStdout(), res.Message)
	return nil
}
