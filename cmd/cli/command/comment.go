package command

import (
	"fmt"

	"yamdb/cmd/cli/dto"

	"github.com/spf13/cobra"
)

var commentCmd = &cobra.Command{
	Use:   "comment",
	Short: "Read and write comments on reviews",
}

var listCommentCmd = &cobra.Command{
	Use:   "list [title-id] [review-id]",
	Short: "List the comments of a review",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseIDs(args)
		if err != nil {
			return err
		}
		page, _ := cmd.Flags().GetInt("page")

		result, err := newClient().ListComments(ids[0], ids[1], page)
		if err != nil {
			return fmt.Errorf("failed to list comments: %w", err)
		}
		if len(result.Data) == 0 {
			fmt.Println("No comments yet.")
			return nil
		}
		for _, cm := range result.Data {
			heading("#%d %s", cm.ID, cm.Author)
			fmt.Printf("%s\n%s\n\n", cm.PubDate.Format("2006-01-02 15:04"), cm.Text)
		}
		printPageFooter(result.Page, result.TotalPages, result.Total)
		return nil
	},
}

var addCommentCmd = &cobra.Command{
	Use:   "add [title-id] [review-id] [text]",
	Short: "Comment on a review",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseIDs(args[:2])
		if err != nil {
			return err
		}
		c, err := newAuthClient()
		if err != nil {
			return err
		}
		comment, err := c.AddComment(ids[0], ids[1], &dto.CommentRequest{Text: args[2]})
		if err != nil {
			return fmt.Errorf("failed to add comment: %w", err)
		}
		success("Comment #%d posted", comment.ID)
		return nil
	},
}

var deleteCommentCmd = &cobra.Command{
	Use:   "delete [title-id] [review-id] [comment-id]",
	Short: "Delete a comment",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseIDs(args)
		if err != nil {
			return err
		}
		c, err := newAuthClient()
		if err != nil {
			return err
		}
		if err := c.DeleteComment(ids[0], ids[1], ids[2]); err != nil {
			return fmt.Errorf("failed to delete comment: %w", err)
		}
		success("Comment deleted")
		return nil
	},
}

func init() {
	commentCmd.AddCommand(listCommentCmd, addCommentCmd, deleteCommentCmd)
	listCommentCmd.Flags().IntP("page", "p", 1, "Page number")
}
