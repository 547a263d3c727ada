package command

import (
	"fmt"
	"strconv"
	"strings"

	"yamdb/cmd/cli/dto"

	"github.com/spf13/cobra"
)

var titleCmd = &cobra.Command{
	Use:   "title",
	Short: "Browse titles",
	Long:  `List and view titles with their genres, category and average rating.`,
}

var listTitleCmd = &cobra.Command{
	Use:   "list",
	Short: "List titles",
	RunE: func(cmd *cobra.Command, args []string) error {
		var f dto.TitleFilter
		f.Category, _ = cmd.Flags().GetString("category")
		f.Genre, _ = cmd.Flags().GetString("genre")
		f.Name, _ = cmd.Flags().GetString("name")
		f.Year, _ = cmd.Flags().GetInt("year")
		f.Page, _ = cmd.Flags().GetInt("page")

		result, err := newClient().ListTitles(f)
		if err != nil {
			return fmt.Errorf("failed to list titles: %w", err)
		}
		if len(result.Data) == 0 {
			fmt.Println("No titles found.")
			return nil
		}

		for _, t := range result.Data {
			fmt.Printf("[%d] %s (%d) - %s\n", t.ID, t.Name, t.Year, ratingText(t.Rating))
		}
		printPageFooter(result.Page, result.TotalPages, result.Total)
		return nil
	},
}

var getTitleCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Show a title",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid title ID: %w", err)
		}

		t, err := newClient().GetTitle(id)
		if err != nil {
			return fmt.Errorf("failed to get title: %w", err)
		}

		heading("%s (%d)", t.Name, t.Year)
		fmt.Printf("Rating:   %s\n", ratingText(t.Rating))
		if t.Category != nil {
			fmt.Printf("Category: %s\n", t.Category.Name)
		}
		if len(t.Genre) > 0 {
			names := make([]string, 0, len(t.Genre))
			for _, g := range t.Genre {
				names = append(names, g.Name)
			}
			fmt.Printf("Genres:   %s\n", strings.Join(names, ", "))
		}
		if t.Description != nil && *t.Description != "" {
			fmt.Printf("\n%s\n", *t.Description)
		}
		return nil
	},
}

func init() {
	titleCmd.AddCommand(listTitleCmd, getTitleCmd)

	listTitleCmd.Flags().String("category", "", "Filter by category slug")
	listTitleCmd.Flags().String("genre", "", "Filter by genre slug")
	listTitleCmd.Flags().String("name", "", "Filter by name substring")
	listTitleCmd.Flags().Int("year", 0, "Filter by year")
	listTitleCmd.Flags().IntP("page", "p", 1, "Page number")
}
