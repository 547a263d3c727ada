package command

import (
	"fmt"
	"strconv"

	"yamdb/cmd/cli/dto"
	"yamdb/internal/microservices/http-api/service"

	"github.com/spf13/cobra"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Read and write reviews",
}

var listReviewCmd = &cobra.Command{
	Use:   "list [title-id]",
	Short: "List the reviews of a title, newest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		titleID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid title ID: %w", err)
		}
		page, _ := cmd.Flags().GetInt("page")

		result, err := newClient().ListReviews(titleID, page)
		if err != nil {
			return fmt.Errorf("failed to list reviews: %w", err)
		}
		if len(result.Data) == 0 {
			fmt.Println("No reviews yet.")
			return nil
		}

		scores := make([]int, 0, len(result.Data))
		for _, r := range result.Data {
			scores = append(scores, r.Score)
			heading("#%d %s - %d/10", r.ID, r.Author, r.Score)
			fmt.Printf("%s\n%s\n\n", r.PubDate.Format("2006-01-02 15:04"), r.Text)
		}
		fmt.Printf("Average on this page: %s\n", ratingText(service.AverageScore(scores)))
		printPageFooter(result.Page, result.TotalPages, result.Total)
		return nil
	},
}

var addReviewCmd = &cobra.Command{
	Use:   "add [title-id] [score]",
	Short: "Review a title (score 1-10)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		titleID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid title ID: %w", err)
		}
		score, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid score: %w", err)
		}
		if score < 1 || score > 10 {
			return fmt.Errorf("score must be between 1 and 10")
		}
		text, _ := cmd.Flags().GetString("text")

		c, err := newAuthClient()
		if err != nil {
			return err
		}
		review, err := c.AddReview(titleID, &dto.ReviewRequest{Text: text, Score: score})
		if err != nil {
			return fmt.Errorf("failed to add review: %w", err)
		}
		success("Review #%d posted", review.ID)
		return nil
	},
}

var deleteReviewCmd = &cobra.Command{
	Use:   "delete [title-id] [review-id]",
	Short: "Delete a review",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseIDs(args)
		if err != nil {
			return err
		}
		c, err := newAuthClient()
		if err != nil {
			return err
		}
		if err := c.DeleteReview(ids[0], ids[1]); err != nil {
			return fmt.Errorf("failed to delete review: %w", err)
		}
		success("Review deleted")
		return nil
	},
}

func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, a := range args {
		id, err := strconv.ParseInt(a, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ID %q: %w", a, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func init() {
	reviewCmd.AddCommand(listReviewCmd, addReviewCmd, deleteReviewCmd)

	listReviewCmd.Flags().IntP("page", "p", 1, "Page number")
	addReviewCmd.Flags().StringP("text", "t", "", "Review text")
	addReviewCmd.MarkFlagRequired("text")
}
