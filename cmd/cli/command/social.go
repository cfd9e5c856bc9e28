package command

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"scenehub/internal/social"
)

var likeCmd = &cobra.Command{
	Use:   "like <scene-id>",
	Short: "Like or unlike a scene",
	Long:  `Flips your like on a scene. With --on or --off the like is only written when it differs.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runToggle(cmd, args[0], social.RelationLike)
	},
}

var favouriteCmd = &cobra.Command{
	Use:     "favourite <scene-id>",
	Aliases: []string{"favorite", "fav"},
	Short:   "Add or remove a scene from your favourites",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runToggle(cmd, args[0], social.RelationFavourite)
	},
}

func runToggle(cmd *cobra.Command, rawID string, rel social.Relation) error {
	sceneID, err := parseID(rawID, "scene")
	if err != nil {
		return err
	}
	on, _ := cmd.Flags().GetBool("on")
	off, _ := cmd.Flags().GetBool("off")
	if on && off {
		return errors.New("--on and --off are mutually exclusive")
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	session, httpClient, err := newSession(ctx)
	if err != nil {
		return err
	}
	scene, err := httpClient.GetScene(ctx, sceneID)
	if err != nil {
		return fmt.Errorf("failed to get scene: %w", err)
	}

	current := session.IsLiked(sceneID)
	if rel == social.RelationFavourite {
		current = session.IsFavourite(sceneID)
	}
	if (on && current) || (off && !current) {
		fmt.Println(faint("Nothing to do."))
		return nil
	}

	count := scene.LikeCount
	pending := session.Toggle(ctx, rel, sceneID, scene.LikeCount, func(n int) { count = n })
	outcome := pending.Wait(ctx)
	if outcome.Err != nil {
		return fmt.Errorf("could not update %s, nothing changed: %w", rel, outcome.Err)
	}

	verb := map[bool]string{true: "added", false: "removed"}[outcome.State]
	line := fmt.Sprintf("✓ %s %s on %q", capitalize(string(rel)), verb, scene.Title)
	if rel == social.RelationLike {
		line += fmt.Sprintf(" (♥ %d)", count)
	}
	fmt.Println(success(line))
	return nil
}

var reportCmd = &cobra.Command{
	Use:   "report <scene-id>",
	Short: "Report a scene to the moderators",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sceneID, err := parseID(args[0], "scene")
		if err != nil {
			return err
		}
		reason, _ := cmd.Flags().GetString("reason")

		ctx, cancel := commandContext(cmd)
		defer cancel()

		session, httpClient, err := newSession(ctx)
		if err != nil {
			return err
		}
		reporter := social.NewReporter(httpClient, session)
		if _, err := reporter.Report(ctx, sceneID, reason); err != nil {
			switch {
			case errors.Is(err, social.ErrAlreadyReported):
				fmt.Println(warning("You have already reported this scene."))
				return nil
			case errors.Is(err, social.ErrInvalidReason):
				return fmt.Errorf("%w, see: scenehub reasons", err)
			}
			return err
		}
		fmt.Println(success("✓ Thanks, the scene was reported."))
		return nil
	},
}

var reasonsCmd = &cobra.Command{
	Use:   "reasons",
	Short: "List the report reasons",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		reasons, err := GetClient().ReportReasons(ctx)
		if err != nil {
			return fmt.Errorf("failed to get report reasons: %w", err)
		}
		for _, r := range reasons {
			fmt.Printf("- %s\n", r)
		}
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{likeCmd, favouriteCmd} {
		c.Flags().Bool("on", false, "only add")
		c.Flags().Bool("off", false, "only remove")
	}
	reportCmd.Flags().StringP("reason", "r", "", "report reason (see: scenehub reasons)")
	reportCmd.MarkFlagRequired("reason")
}
