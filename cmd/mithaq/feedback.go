package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"mithaq/internal/document"
)

var (
	feedbackRating  int
	feedbackComment string
)

var feedbackCmd = &cobra.Command{
	Use:   "feedback <version-id>",
	Short: "Rate a generated version",
	Long: `Feedback records a 1-5 rating and an optional comment against one
version. Ratings accumulate in an append-only log; each version can be
marked as rated exactly once.`,
	Args: cobra.ExactArgs(1),
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

		_, version := a.hist.FindVersion(versionID)
		if version == nil {
			return fmt.Errorf("version %d not found", versionID)
		}

		entry := document.FeedbackEntry{
			VersionID: versionID,
			Rating:    feedbackRating,
			Comment:   feedbackComment,
			Timestamp: time.Now().Format(time.RFC3339),
		}
		if err := a.hist.AddFeedback(entry); err != nil {
			return err
		}

		fmt.Println(successStyle.Render(fmt.Sprintf("recorded %d/5 for version %d", feedbackRating, versionID)))
		return nil
	},
}

func init() {
	feedbackCmd.Flags().IntVarP(&feedbackRating, "rating", "r", 0, "rating from 1 to 5 (required)")
	feedbackCmd.Flags().StringVarP(&feedbackComment, "comment", "c", "", "optional comment")
	_ = feedbackCmd.MarkFlagRequired("rating")
}
