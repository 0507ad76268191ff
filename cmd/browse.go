package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

// randomCmd picks one random line, optionally filtered
var randomCmd = &cobra.Command{
	Use:   "random",
	Short: "Pick a random line",
	Long:  `Pick one random transcript line, optionally filtered by season, episode or speaker.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := searchOptionsFromFlags(cmd)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		service, cleanup, err := newTranscriptService(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		line, err := service.RandomLine(ctx, opts)
		if err != nil {
			return fmt.Errorf("failed to pick a random line: %w", err)
		}

		result, err := json.MarshalIndent(line, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format result: %w", err)
		}

		fmt.Println(string(result))
		return nil
	},
}

// transcriptCmd prints an episode's full transcript
var transcriptCmd = &cobra.Command{
	Use:   "transcript [SEASON] [EPISODE]",
	Short: "Print an episode's transcript",
	Long:  `Print all lines of an episode in order, addressed by season and episode number.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		seasonNumber, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid season number: %s", args[0])
		}
		episodeNumber, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid episode number: %s", args[1])
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		service, cleanup, err := newTranscriptService(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		lines, err := service.Transcript(ctx, seasonNumber, episodeNumber)
		if err != nil {
			return fmt.Errorf("failed to get transcript: %w", err)
		}

		if len(lines) == 0 {
			fmt.Println("No lines found for this episode.")
			return nil
		}

		result, err := json.MarshalIndent(lines, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format result: %w", err)
		}

		fmt.Println(string(result))
		return nil
	},
}

func init() {
	addFilterFlags(randomCmd)

	rootCmd.AddCommand(randomCmd)
	rootCmd.AddCommand(transcriptCmd)
}
