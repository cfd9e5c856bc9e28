package command

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"scenehub/internal/shared"
	"scenehub/internal/thread"
)

var commentsCmd = &cobra.Command{
	Use:     "comments",
	Aliases: []string{"comment"},
	Short:   "Read and write scene comments",
}

var listCommentsCmd = &cobra.Command{
	Use:   "list <scene-id>",
	Short: "Show the comment thread of a scene",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sceneID, err := parseID(args[0], "scene")
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()

		comments, err := GetClient().Comments(ctx, sceneID)
		if err != nil {
			return fmt.Errorf("failed to get comments: %w", err)
		}

		th := thread.Build(comments)
		if len(th.Roots) == 0 {
			fmt.Println("No comments yet.")
			return nil
		}
		fmt.Printf("%d comments\n\n", th.Count())
		for _, root := range th.Roots {
			printComment(root.Comment, "")
			for _, reply := range root.Replies {
				printComment(reply.Comment, "    ↳ ")
			}
		}
		return nil
	},
}

func printComment(c shared.Comment, indent string) {
	author := "unknown"
	if c.Author != nil {
		author = c.Author.Username
	}
	fmt.Printf("%s%s %s %s\n", indent, accent(author), faint(c.CreatedAt.Local().Format(time.DateTime)), faint(fmt.Sprintf("#%d", c.ID)))
	for _, line := range strings.Split(c.Body, "\n") {
		fmt.Printf("%s  %s\n", strings.Repeat(" ", len([]rune(indent))), line)
	}
}

var postCommentCmd = &cobra.Command{
	Use:   "post <scene-id> <text...>",
	Short: "Comment on a scene, or reply with --reply-to",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sceneID, err := parseID(args[0], "scene")
		if err != nil {
			return err
		}
		replyTo, _ := cmd.Flags().GetInt64("reply-to")

		httpClient, _, err := GetAuthenticatedClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()

		var parentID *int64
		if replyTo > 0 {
			// replies only attach to top-level comments
			comments, err := httpClient.Comments(ctx, sceneID)
			if err != nil {
				return fmt.Errorf("failed to get comments: %w", err)
			}
			if !thread.Build(comments).CanReply(replyTo) {
				return fmt.Errorf("comment #%d is not a top-level comment of scene %d", replyTo, sceneID)
			}
			parentID = &replyTo
		}

		comment, err := httpClient.PostComment(ctx, sceneID, strings.Join(args[1:], " "), parentID)
		if err != nil {
			return fmt.Errorf("failed to post comment: %w", err)
		}
		fmt.Println(success(fmt.Sprintf("✓ Comment #%d posted", comment.ID)))
		return nil
	},
}

var deleteCommentCmd = &cobra.Command{
	Use:   "delete <comment-id>",
	Short: "Delete one of your comments",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		commentID, err := parseID(args[0], "comment")
		if err != nil {
			return err
		}
		httpClient, _, err := GetAuthenticatedClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()

		if err := httpClient.DeleteComment(ctx, commentID); err != nil {
			return fmt.Errorf("failed to delete comment: %w", err)
		}
		fmt.Println(success("✓ Comment deleted"))
		return nil
	},
}

func init() {
	commentsCmd.AddCommand(listCommentsCmd)
	commentsCmd.AddCommand(postCommentCmd)
	commentsCmd.AddCommand(deleteCommentCmd)

	postCommentCmd.Flags().Int64("reply-to", 0, "ID of the top-level comment to reply to")
}
