package command

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"scenehub/cmd/cli/command/client"
	"scenehub/internal/social"
)

var meCmd = &cobra.Command{
	Use:   "me",
	Short: "Your likes, favourites and uploads",
}

var myLikesCmd = &cobra.Command{
	Use:   "likes",
	Short: "IDs of the scenes you liked",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printMemberships(cmd, social.RelationLike)
	},
}

var myFavouritesCmd = &cobra.Command{
	Use:     "favourites",
	Aliases: []string{"favorites"},
	Short:   "Your favourite scenes",
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, _ := cmd.Flags().GetBool("ids")
		if ids {
			return printMemberships(cmd, social.RelationFavourite)
		}
		return printCollection(cmd, (*client.HTTPClient).MyFavouriteScenes)
	},
}

var myUploadsCmd = &cobra.Command{
	Use:   "uploads",
	Short: "Scenes you uploaded",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printCollection(cmd, (*client.HTTPClient).MyUploads)
	},
}

func printMemberships(cmd *cobra.Command, rel social.Relation) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	session, _, err := newSession(ctx)
	if err != nil {
		return err
	}
	ids := session.LikedIDs()
	if rel == social.RelationFavourite {
		ids = session.FavouriteIDs()
	}
	if len(ids) == 0 {
		fmt.Println("None yet.")
		return nil
	}
	for _, id := range ids {
		fmt.Println(id)
	}
	return nil
}

func printCollection(cmd *cobra.Command, list func(*client.HTTPClient, context.Context, int) (*client.PaginatedScenes, error)) error {
	page, _ := cmd.Flags().GetInt("page")
	httpClient, _, err := GetAuthenticatedClient()
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd)
	defer cancel()

	resp, err := list(httpClient, ctx, page)
	if err != nil {
		return err
	}
	if len(resp.Data) == 0 {
		fmt.Println("Nothing here yet.")
		return nil
	}
	for _, s := range resp.Data {
		printSceneLine(s)
	}
	fmt.Println(faint(fmt.Sprintf("\npage %d of %d, %d scenes", resp.Page, resp.TotalPages, resp.Total)))
	return nil
}

func init() {
	meCmd.AddCommand(myLikesCmd)
	meCmd.AddCommand(myFavouritesCmd)
	meCmd.AddCommand(myUploadsCmd)

	myFavouritesCmd.Flags().Bool("ids", false, "print only scene IDs")
	for _, c := range []*cobra.Command{myFavouritesCmd, myUploadsCmd} {
		c.Flags().Int("page", 1, "page number")
	}
}
