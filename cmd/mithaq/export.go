package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"mithaq/internal/export"
)

var (
	exportFormat string
	exportDir    string
)

var exportCmd = &cobra.Command{
	Use:   "export <version-id>",
	Short: "Write a version to disk as Markdown or plain text",
	Long: `Export writes one version to a file named after the document's parsed
identity (parties or subject, date, and version number). Markdown exports
carry the stored document verbatim; text exports render the formatting away.`,
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

		bundle, err := export.Build(version)
		if err != nil {
			return err
		}

		var content, ext string
		switch exportFormat {
		case "md", "markdown":
			content, ext = bundle.Markdown, ".md"
		case "txt", "text":
			content, ext = bundle.PlainText, ".txt"
		default:
			return fmt.Errorf("unknown format %q (want md or txt)", exportFormat)
		}

		path := filepath.Join(exportDir, bundle.SuggestedFilename+ext)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}

		fmt.Println(successStyle.Render("exported " + path))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "md", "output format: md or txt")
	exportCmd.Flags().StringVarP(&exportDir, "dir", "d", ".", "output directory")
}
