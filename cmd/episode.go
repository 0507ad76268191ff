package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

// episodeCmd represents the episode command
var episodeCmd = &cobra.Command{
	Use:   "episode",
	Short: "Episode operations",
	Long:  `Operations for managing episodes within a season.`,
}

// episodeAddCmd adds an episode to a season
var episodeAddCmd = &cobra.Command{
	Use:   "add [SEASON] [NUMBER] [TITLE]",
	Short: "Add an episode to a season",
	Long:  `Add an episode by season number, episode number and title. Adding an existing episode updates its title.`,
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		seasonNumber, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid season number: %s", args[0])
		}
		episodeNumber, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid episode number: %s", args[1])
		}
		title := args[2]

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		service, cleanup, err := newTranscriptService(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		episode, err := service.AddEpisode(ctx, seasonNumber, episodeNumber, title)
		if err != nil {
			return fmt.Errorf("failed to add episode: %w", err)
		}

		result, err := json.MarshalIndent(episode, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format result: %w", err)
		}

		fmt.Printf("Episode saved:\n%s\n", string(result))
		return nil
	},
}

// episodeListCmd lists episodes of a season
var episodeListCmd = &cobra.Command{
	Use:   "list [SEASON]",
	Short: "List episodes of a season",
	Long:  `List all episodes of a season, addressed by season number.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		seasonNumber, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid season number: %s", args[0])
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		service, cleanup, err := newTranscriptService(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		episodes, err := service.ListEpisodes(ctx, seasonNumber)
		if err != nil {
			return fmt.Errorf("failed to list episodes: %w", err)
		}

		if len(episodes) == 0 {
			fmt.Println("No episodes found for this season.")
			return nil
		}

		result, err := json.MarshalIndent(episodes, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format result: %w", err)
		}

		fmt.Printf("Found %d episode(s):\n%s\n", len(episodes), string(result))
		return nil
	},
}

// episodeDeleteCmd deletes an episode and its lines
var episodeDeleteCmd = &cobra.Command{
	Use:   "delete [ID]",
	Short: "Delete an episode",
	Long:  `Delete an episode by ID. Its lines and their search index entries are removed with it.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid episode ID: %s", args[0])
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		service, cleanup, err := newTranscriptService(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		if err := service.DeleteEpisode(ctx, id); err != nil {
			return fmt.Errorf("failed to delete episode: %w", err)
		}

		fmt.Printf("Episode %d deleted.\n", id)
		return nil
	},
}

func init() {
	episodeCmd.AddCommand(episodeAddCmd)
	episodeCmd.AddCommand(episodeListCmd)
	episodeCmd.AddCommand(episodeDeleteCmd)
	rootCmd.AddCommand(episodeCmd)
}
