package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mwpearce/scriptorium/internal/service/transcript"
)

// searchCmd searches line content through the full-text index
var searchCmd = &cobra.Command{
	Use:   "search [PHRASE]",
	Short: "Search line content",
	Long: `Search transcript lines through the full-text index. Matching is
stemmed and case-insensitive; results can be narrowed by season, episode or
speaker.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		phrase := args[0]
		opts := searchOptionsFromFlags(cmd)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		service, cleanup, err := newTranscriptService(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		if idsOnly, _ := cmd.Flags().GetBool("ids-only"); idsOnly {
			ids, err := service.SearchContentIDs(ctx, phrase, opts)
			if err != nil {
				return fmt.Errorf("search failed: %w", err)
			}
			if len(ids) == 0 {
				fmt.Println("No matching lines.")
				return nil
			}
			result, err := json.Marshal(ids)
			if err != nil {
				return fmt.Errorf("failed to format result: %w", err)
			}
			fmt.Println(string(result))
			return nil
		}

		results, err := service.SearchContent(ctx, phrase, opts)
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}

		if len(results) == 0 {
			fmt.Println("No matching lines.")
			return nil
		}

		result, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format result: %w", err)
		}

		fmt.Printf("Found %d matching line(s):\n%s\n", len(results), string(result))
		return nil
	},
}

// searchOptionsFromFlags folds the shared filter flags into SearchOptions
func searchOptionsFromFlags(cmd *cobra.Command) transcript.SearchOptions {
	var opts transcript.SearchOptions

	if cmd.Flags().Changed("season") {
		season, _ := cmd.Flags().GetInt("season")
		opts.SeasonNumber = &season
	}
	if cmd.Flags().Changed("episode") {
		episode, _ := cmd.Flags().GetInt64("episode")
		opts.EpisodeID = &episode
	}
	if cmd.Flags().Changed("speaker") {
		speaker, _ := cmd.Flags().GetInt64("speaker")
		opts.SpeakerID = &speaker
	}
	if phrase, _ := cmd.Flags().GetBool("phrase"); phrase {
		opts.Phrase = true
	}
	if cmd.Flags().Changed("context") {
		radius, _ := cmd.Flags().GetInt("context")
		opts.ContextRadius = &radius
	}

	return opts
}

// addFilterFlags registers the filter flags shared by search and random
func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().Int("season", 0, "Filter by season number")
	cmd.Flags().Int64("episode", 0, "Filter by episode ID")
	cmd.Flags().Int64("speaker", 0, "Filter by speaker ID")
}

func init() {
	addFilterFlags(searchCmd)
	searchCmd.Flags().Bool("phrase", false, "Match the words as an exact phrase")
	searchCmd.Flags().Bool("ids-only", false, "Print only matching line IDs")
	searchCmd.Flags().Int("context", 2, "Context lines around each hit (negative disables)")

	rootCmd.AddCommand(searchCmd)
}
