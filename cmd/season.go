package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

// seasonCmd represents the season command
var seasonCmd = &cobra.Command{
	Use:   "season",
	Short: "Season operations",
	Long:  `Operations for managing seasons.`,
}

// seasonAddCmd adds a season by number
var seasonAddCmd = &cobra.Command{
	Use:   "add [NUMBER]",
	Short: "Add a season",
	Long:  `Add a season by number. Adding an existing number returns the existing season.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		number, err := strconv.Atoi(args[0])
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

		season, err := service.AddSeason(ctx, number)
		if err != nil {
			return fmt.Errorf("failed to add season: %w", err)
		}

		result, err := json.MarshalIndent(season, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format result: %w", err)
		}

		fmt.Printf("Season saved:\n%s\n", string(result))
		return nil
	},
}

// seasonListCmd lists all seasons
var seasonListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all seasons",
	Long:  `List all seasons stored in the database.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		service, cleanup, err := newTranscriptService(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		seasons, err := service.ListSeasons(ctx)
		if err != nil {
			return fmt.Errorf("failed to list seasons: %w", err)
		}

		if len(seasons) == 0 {
			fmt.Println("No seasons found in the database.")
			return nil
		}

		result, err := json.MarshalIndent(seasons, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format result: %w", err)
		}

		fmt.Printf("Found %d season(s):\n%s\n", len(seasons), string(result))
		return nil
	},
}

// seasonDeleteCmd deletes a season and everything under it
var seasonDeleteCmd = &cobra.Command{
	Use:   "delete [ID]",
	Short: "Delete a season",
	Long:  `Delete a season by ID. Its episodes, lines and search index entries are removed with it.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid season ID: %s", args[0])
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		service, cleanup, err := newTranscriptService(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		if err := service.DeleteSeason(ctx, id); err != nil {
			return fmt.Errorf("failed to delete season: %w", err)
		}

		fmt.Printf("Season %d deleted.\n", id)
		return nil
	},
}

func init() {
	seasonCmd.AddCommand(seasonAddCmd)
	seasonCmd.AddCommand(seasonListCmd)
	seasonCmd.AddCommand(seasonDeleteCmd)
	rootCmd.AddCommand(seasonCmd)
}
