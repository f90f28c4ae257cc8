package main

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect the local document history",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all document series, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		all := a.hist.All()
		if len(all) == 0 {
			fmt.Println(dimStyle.Render("history is empty"))
			return nil
		}

		for _, s := range all {
			fmt.Println(titleStyle.Render(fmt.Sprintf("%s  [%s]", s.Name, s.Type.ArabicLabel())))
			fmt.Println(dimStyle.Render(fmt.Sprintf("  series id=%d  versions=%d", s.ID, len(s.Versions))))
			for _, v := range s.Versions {
				marker := " "
				if v.FeedbackSubmitted {
					marker = "★"
				}
				fmt.Printf("  %s V%-3d id=%d  %s  %s\n",
					marker, v.VersionNumber, v.ID, v.Timestamp, versionSummary(v))
			}
		}
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <version-id>",
	Short: "Render one version in the terminal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		versionID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid version id %q", args[0])
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		series, version := a.hist.FindVersion(versionID)
		if version == nil {
			return fmt.Errorf("version %d not found", versionID)
		}

		fmt.Println(titleStyle.Render(fmt.Sprintf("%s - V%d", series.Name, version.VersionNumber)))

		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(100),
		)
		if err != nil {
			return fmt.Errorf("creating renderer: %w", err)
		}
		out, err := renderer.Render(version.Markdown)
		if err != nil {
			return fmt.Errorf("rendering document: %w", err)
		}
		fmt.Print(out)
		return nil
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <series-id>",
	Short: "Delete a series and all its versions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		seriesID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid series id %q", args[0])
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.hist.DeleteSeries(seriesID); err != nil {
			return err
		}
		fmt.Println(successStyle.Render(fmt.Sprintf("deleted series %d", seriesID)))
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the entire history",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		n := len(a.hist.All())
		if err := a.hist.Clear(); err != nil {
			return err
		}
		fmt.Println(successStyle.Render(fmt.Sprintf("cleared %d series", n)))
		return nil
	},
}

func init() {
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyDeleteCmd)
	historyCmd.AddCommand(historyClearCmd)
}
