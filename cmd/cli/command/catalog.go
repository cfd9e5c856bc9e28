package command

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"scenehub/internal/shared"
)

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List scene tags by category",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		tags, err := GetClient().Tags(ctx)
		if err != nil {
			return fmt.Errorf("failed to get tags: %w", err)
		}

		byCategory := make(map[shared.TagCategory][]shared.Tag)
		for _, t := range tags {
			byCategory[t.Category] = append(byCategory[t.Category], t)
		}
		for _, cat := range shared.TagCategories {
			list := byCategory[cat]
			if len(list) == 0 {
				continue
			}
			fmt.Println(accent(strings.ToUpper(string(cat))))
			for _, t := range list {
				fmt.Printf("  %s %s\n", faint(fmt.Sprintf("%3d", t.ID)), t.Name)
			}
		}
		return nil
	},
}

var genresCmd = &cobra.Command{
	Use:   "genres",
	Short: "List anime genres",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		genres, err := GetClient().Genres(ctx)
		if err != nil {
			return fmt.Errorf("failed to get genres: %w", err)
		}
		for _, g := range genres {
			fmt.Printf("%s %s\n", colorSwatch(g.Color), g.Name)
		}
		return nil
	},
}

// colorSwatch renders a "#rrggbb" colour as a block.
func colorSwatch(hex string) string {
	var r, g, b int
	if _, err := fmt.Sscanf(hex, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return "■"
	}
	return color.RGB(r, g, b).Sprint("■")
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Look up anime in the external catalog",
}

var catalogSearchCmd = &cobra.Command{
	Use:   "search <query...>",
	Short: "Search anime by title",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()
		list, err := GetClient().SearchAnime(ctx, strings.Join(args, " "))
		if err != nil {
			return fmt.Errorf("failed to search anime: %w", err)
		}
		printAnimeList(list)
		return nil
	},
}

var catalogTrendingCmd = &cobra.Command{
	Use:   "trending",
	Short: "Anime trending in the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()
		list, err := GetClient().TrendingAnime(ctx)
		if err != nil {
			return fmt.Errorf("failed to get trending anime: %w", err)
		}
		printAnimeList(list)
		return nil
	},
}

var catalogGenreCmd = &cobra.Command{
	Use:   "genre <genre...>",
	Short: "Popular anime of a genre",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()
		list, err := GetClient().AnimeByGenre(ctx, strings.Join(args, " "))
		if err != nil {
			return fmt.Errorf("failed to get anime by genre: %w", err)
		}
		printAnimeList(list)
		return nil
	},
}

var catalogAnimeCmd = &cobra.Command{
	Use:   "anime <anime-id>",
	Short: "Show one anime",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "anime")
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()
		a, err := GetClient().Anime(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get anime: %w", err)
		}
		fmt.Println(accent(a.DisplayTitle()))
		if a.TitleEnglish != nil && *a.TitleEnglish != a.TitleRomaji {
			fmt.Printf("Romaji:  %s\n", a.TitleRomaji)
		}
		if a.Season != nil && a.Year != nil {
			fmt.Printf("Aired:   %s %d\n", capitalize(*a.Season), *a.Year)
		} else if a.Year != nil {
			fmt.Printf("Aired:   %d\n", *a.Year)
		}
		if len(a.Genres) > 0 {
			fmt.Printf("Genres:  %s\n", strings.Join(a.Genres, ", "))
		}
		if a.AverageScore != nil {
			fmt.Printf("Score:   %d/100\n", *a.AverageScore)
		}
		fmt.Println(faint(fmt.Sprintf("Browse its scenes: scenehub browse --anime %d", a.ID)))
		return nil
	},
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

func printAnimeList(list []shared.AnimeSummary) {
	if len(list) == 0 {
		fmt.Println("No anime found.")
		return
	}
	for _, a := range list {
		line := fmt.Sprintf("%s %s", accent(fmt.Sprintf("%-7d", a.ID)), a.DisplayTitle())
		if a.Year != nil {
			line += faint(fmt.Sprintf(" (%d)", *a.Year))
		}
		if len(a.Genres) > 0 {
			line += faint("  " + strings.Join(a.Genres, ", "))
		}
		fmt.Println(line)
	}
}

func init() {
	catalogCmd.AddCommand(catalogSearchCmd)
	catalogCmd.AddCommand(catalogTrendingCmd)
	catalogCmd.AddCommand(catalogGenreCmd)
	catalogCmd.AddCommand(catalogAnimeCmd)
}
