package command

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"scenehub/internal/gallery"
	"scenehub/internal/shared"
	"scenehub/internal/trending"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the scene gallery",
	Long: `Browse scenes page by page. Filters combine: a scene must match the search text, carry
every --tag, belong to --anime and have --genre.`,
	Example: `  scenehub browse --search "train" --tag 3 --tag 7 --sort popular --pages 2`,
	RunE: func(cmd *cobra.Command, args []string) error {
		search, _ := cmd.Flags().GetString("search")
		tags, _ := cmd.Flags().GetInt64Slice("tag")
		animeID, _ := cmd.Flags().GetInt64("anime")
		genre, _ := cmd.Flags().GetString("genre")
		sortName, _ := cmd.Flags().GetString("sort")
		pages, _ := cmd.Flags().GetInt("pages")

		sort, err := gallery.ParseSort(sortName)
		if err != nil {
			return err
		}
		criteria := gallery.Criteria{Search: search, TagIDs: tags, Genre: genre}
		if animeID > 0 {
			criteria.AnimeID = &animeID
		}

		ctx, cancel := commandContext(cmd)
		defer cancel()

		composer := gallery.NewComposer(GetClient(), cliLogger())
		composer.SetFilters(criteria, sort)
		for i := 0; i < pages; i++ {
			if _, err := composer.LoadMore(ctx); err != nil {
				if errors.Is(err, gallery.ErrNoMorePages) {
					break
				}
				return fmt.Errorf("failed to load scenes: %w", err)
			}
		}

		scenes := composer.Scenes()
		if len(scenes) == 0 {
			fmt.Println("No scenes found.")
			return nil
		}
		for _, s := range scenes {
			printSceneLine(s)
		}
		fmt.Println()
		if composer.HasMore() {
			fmt.Println(faint(fmt.Sprintf("%d scenes shown, more available (--pages %d)", len(scenes), pages+1)))
		} else {
			fmt.Println(faint(fmt.Sprintf("%d scenes, end of results", len(scenes))))
		}
		return nil
	},
}

var trendingCmd = &cobra.Command{
	Use:   "trending",
	Short: fmt.Sprintf("Show trending scenes of the last %d days", int(trending.Window/(24*time.Hour))),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		ctx, cancel := commandContext(cmd)
		defer cancel()

		ranked, err := GetClient().Trending(ctx, limit)
		if err != nil {
			return fmt.Errorf("failed to get trending scenes: %w", err)
		}
		if len(ranked) == 0 {
			fmt.Println("Nothing trending right now.")
			return nil
		}
		for i, r := range ranked {
			fmt.Printf("%2d. %s %s\n", i+1, faint(fmt.Sprintf("[%.1f]", r.Score)), sceneSummary(r.Scene))
		}
		return nil
	},
}

var sceneCmd = &cobra.Command{
	Use:   "scene <scene-id>",
	Short: "Show one scene",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "scene")
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()

		s, err := GetClient().GetScene(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get scene: %w", err)
		}

		fmt.Println(accent(s.Title))
		if s.Anime != nil {
			fmt.Printf("Anime:    %s\n", s.Anime.DisplayTitle())
		}
		if s.Episode != nil {
			fmt.Printf("Episode:  %d\n", *s.Episode)
		}
		if s.TimestampSeconds != nil {
			fmt.Printf("At:       %d:%02d\n", *s.TimestampSeconds/60, *s.TimestampSeconds%60)
		}
		if s.Description != "" {
			fmt.Printf("\n%s\n\n", s.Description)
		}
		fmt.Printf("Likes:    %d   Comments: %d\n", s.LikeCount, s.CommentCount)
		if len(s.Tags) > 0 {
			names := make([]string, len(s.Tags))
			for i, t := range s.Tags {
				names[i] = t.Name
			}
			fmt.Printf("Tags:     %s\n", strings.Join(names, ", "))
		}
		if s.Uploader != nil {
			fmt.Printf("Uploader: %s\n", s.Uploader.Username)
		}
		fmt.Printf("Image:    %s\n", s.ImageURL)
		return nil
	},
}

func sceneSummary(s shared.Scene) string {
	line := s.Title
	if s.Anime != nil {
		line += faint(" · " + s.Anime.DisplayTitle())
	}
	return line + faint(fmt.Sprintf("  ♥ %d  💬 %d", s.LikeCount, s.CommentCount))
}

func printSceneLine(s shared.Scene) {
	fmt.Printf("%s %s\n", accent(fmt.Sprintf("#%-5d", s.ID)), sceneSummary(s))
}

func parseID(raw, what string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s ID: %q", what, raw)
	}
	return id, nil
}

func init() {
	browseCmd.Flags().StringP("search", "s", "", "full-text search on scene titles")
	browseCmd.Flags().Int64Slice("tag", nil, "tag ID the scene must carry (repeatable)")
	browseCmd.Flags().Int64("anime", 0, "only scenes of this anime ID")
	browseCmd.Flags().StringP("genre", "g", "", "only scenes whose anime has this genre")
	browseCmd.Flags().String("sort", "newest", "newest, popular or oldest")
	browseCmd.Flags().IntP("pages", "p", 1, "number of pages to load")

	trendingCmd.Flags().IntP("limit", "n", 12, "number of scenes")
}
