package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/mwpearce/scriptorium/internal/service/transcript"
)

// lineCmd represents the line command
var lineCmd = &cobra.Command{
	Use:   "line",
	Short: "Transcript line operations",
	Long:  `Operations for managing individual transcript lines.`,
}

// lineAddCmd adds a line to an episode
var lineAddCmd = &cobra.Command{
	Use:   "add [SEASON] [EPISODE] [NUMBER] [CONTENT]",
	Short: "Add a line to an episode",
	Long:  `Add a transcript line to an episode. The season and episode must exist; the speaker (--speaker) is created on demand.`,
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		seasonNumber, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid season number: %s", args[0])
		}
		episodeNumber, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid episode number: %s", args[1])
		}
		lineNumber, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid line number: %s", args[2])
		}
		content := args[3]

		input := transcript.LineInput{
			LineNumber: lineNumber,
			Content:    content,
		}
		if speakerName, _ := cmd.Flags().GetString("speaker"); speakerName != "" {
			input.SpeakerName = &speakerName
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		service, cleanup, err := newTranscriptService(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		line, err := service.AddLine(ctx, seasonNumber, episodeNumber, input)
		if err != nil {
			return fmt.Errorf("failed to add line: %w", err)
		}

		result, err := json.MarshalIndent(line, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format result: %w", err)
		}

		fmt.Printf("Line saved:\n%s\n", string(result))
		return nil
	},
}

// lineUpdateCmd replaces a line's content
var lineUpdateCmd = &cobra.Command{
	Use:   "update [ID] [CONTENT]",
	Short: "Replace a line's content",
	Long:  `Replace the content of a line in place. The search index is reindexed in the same transaction.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid line ID: %s", args[0])
		}
		content := args[1]

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		service, cleanup, err := newTranscriptService(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		if err := service.UpdateLineContent(ctx, id, content); err != nil {
			return fmt.Errorf("failed to update line: %w", err)
		}

		fmt.Printf("Line %d updated.\n", id)
		return nil
	},
}

// lineMoveCmd renumbers a line within its episode
var lineMoveCmd = &cobra.Command{
	Use:   "move [ID] [NUMBER]",
	Short: "Renumber a line within its episode",
	Long:  `Change a line's number within its episode. Fails if the target number is taken.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid line ID: %s", args[0])
		}
		lineNumber, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid line number: %s", args[1])
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		service, cleanup, err := newTranscriptService(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		if err := service.MoveLine(ctx, id, lineNumber); err != nil {
			return fmt.Errorf("failed to move line: %w", err)
		}

		fmt.Printf("Line %d moved to number %d.\n", id, lineNumber)
		return nil
	},
}

// lineDeleteCmd deletes a line
var lineDeleteCmd = &cobra.Command{
	Use:   "delete [ID]",
	Short: "Delete a line",
	Long:  `Delete a line by ID. Its search index entry is removed in the same transaction.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid line ID: %s", args[0])
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		service, cleanup, err := newTranscriptService(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		if err := service.DeleteLine(ctx, id); err != nil {
			return fmt.Errorf("failed to delete line: %w", err)
		}

		fmt.Printf("Line %d deleted.\n", id)
		return nil
	},
}

func init() {
	lineAddCmd.Flags().String("speaker", "", "Speaker name for the line")

	lineCmd.AddCommand(lineAddCmd)
	lineCmd.AddCommand(lineUpdateCmd)
	lineCmd.AddCommand(lineMoveCmd)
	lineCmd.AddCommand(lineDeleteCmd)
	rootCmd.AddCommand(lineCmd)
}
