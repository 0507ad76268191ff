package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

// speakerCmd represents the speaker command
var speakerCmd = &cobra.Command{
	Use:   "speaker",
	Short: "Speaker operations",
	Long:  `Operations for managing speakers.`,
}

// speakerAddCmd adds a speaker by name
var speakerAddCmd = &cobra.Command{
	Use:   "add [NAME]",
	Short: "Add a speaker",
	Long:  `Add a speaker by name. Adding an existing name returns the existing speaker.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		service, cleanup, err := newTranscriptService(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		speaker, err := service.AddSpeaker(ctx, name)
		if err != nil {
			return fmt.Errorf("failed to add speaker: %w", err)
		}

		result, err := json.MarshalIndent(speaker, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format result: %w", err)
		}

		fmt.Printf("Speaker saved:\n%s\n", string(result))
		return nil
	},
}

// speakerListCmd lists all speakers
var speakerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all speakers",
	Long:  `List all speakers stored in the database.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		service, cleanup, err := newTranscriptService(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		speakers, err := service.ListSpeakers(ctx)
		if err != nil {
			return fmt.Errorf("failed to list speakers: %w", err)
		}

		if len(speakers) == 0 {
			fmt.Println("No speakers found in the database.")
			return nil
		}

		result, err := json.MarshalIndent(speakers, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format result: %w", err)
		}

		fmt.Printf("Found %d speaker(s):\n%s\n", len(speakers), string(result))
		return nil
	},
}

// speakerDeleteCmd deletes a speaker; their lines survive with a null speaker
var speakerDeleteCmd = &cobra.Command{
	Use:   "delete [ID]",
	Short: "Delete a speaker",
	Long:  `Delete a speaker by ID. Lines spoken by the speaker are kept; their speaker reference is cleared.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid speaker ID: %s", args[0])
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		service, cleanup, err := newTranscriptService(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		if err := service.DeleteSpeaker(ctx, id); err != nil {
			return fmt.Errorf("failed to delete speaker: %w", err)
		}

		fmt.Printf("Speaker %d deleted.\n", id)
		return nil
	},
}

func init() {
	speakerCmd.AddCommand(speakerAddCmd)
	speakerCmd.AddCommand(speakerListCmd)
	speakerCmd.AddCommand(speakerDeleteCmd)
	rootCmd.AddCommand(speakerCmd)
}
