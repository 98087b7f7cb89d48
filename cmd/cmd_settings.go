package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"manga_tracker/forms"
	"manga_tracker/lang"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Backend settings",
	Long: `Shows the backend settings. Editing them is done in the settings
screen of the full-screen client.`,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the backend settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
}

func runSettingsShow(cmd *cobra.Command, args []string) error {
	ctx, cancel := requestContext()
	defer cancel()
	settings, res := runner.LoadSettings(ctx)
	if res.Unauthorized {
		return errNotLoggedIn
	}
	if !res.OK {
		return errors.New(res.Message)
	}
	printSettings(cmd.OutOrStdout(), forms.NewSettingsForm(settings))
	return nil
}

func settingValue(form *forms.SettingsForm, field forms.SettingsField) string {
	common := lang.Active().Common
	switch field.Kind {
	case forms.KindToggle:
		if form.Checked(field.Key) {
			return common.Yes
		}
		return common.No
	case forms.KindSecret:
		if form.Stored(field.Key) {
			return lang.Active().Settings.Stored
		}
		return "-"
	}
	if v := form.Value(field.Key); v != "" {
		return v
	}
	if p := form.Placeholder(field.Key); p != "" {
		return p
	}
	return "-"
}

func printSettings(w io.Writer, form *forms.SettingsForm) {
	group := ""
	for _, field := range form.VisibleFields() {
		if field.Group != group {
			if group != "" {
				fmt.Fprintln(w)
			}
			group = field.Group
			title := lang.GroupName(group)
			if group != forms.GroupGeneral {
				title += " (" + form.State(group).String() + ")"
			}
			fmt.Fprintln(w, title)
		}
		fmt.Fprintf(w, "  %-24s %s\n", field.Label(), settingValue(form, field))
	}
}
