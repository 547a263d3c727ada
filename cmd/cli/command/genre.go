package command

import (
	"fmt"

	"github.com/spf13/cobra"
)

// genre.go lists the two {name, slug} dictionaries: genres and categories.

var genreCmd = newDictionaryCmd("genre", "genres")

var categoryCmd = newDictionaryCmd("category", "categories")

func newDictionaryCmd(use, kind string) *cobra.Command {
	parent := &cobra.Command{
		Use:   use,
		Short: fmt.Sprintf("Browse %s", kind),
	}

	list := &cobra.Command{
		Use:   "list",
		Short: fmt.Sprintf("List %s", kind),
		RunE: func(cmd *cobra.Command, args []string) error {
			search, _ := cmd.Flags().GetString("search")
			page, _ := cmd.Flags().GetInt("page")

			result, err := newClient().ListDictionary(kind, search, page)
			if err != nil {
				return fmt.Errorf("failed to list %s: %w", kind, err)
			}
			if len(result.Data) == 0 {
				fmt.Printf("No %s found.\n", kind)
				return nil
			}
			for _, g := range result.Data {
				fmt.Printf("%-30s %s\n", g.Name, g.Slug)
			}
			printPageFooter(result.Page, result.TotalPages, result.Total)
			return nil
		},
	}
	list.Flags().StringP("search", "s", "", "Filter by name")
	list.Flags().IntP("page", "p", 1, "Page number")

	parent.AddCommand(list)
	return parent
}
