package command

import (
	"fmt"

	"yamdb/cmd/cli/dto"

	"github.com/spf13/cobra"
)

var meCmd = &cobra.Command{
	Use:   "me",
	Short: "Show or update your profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newAuthClient()
		if err != nil {
			return err
		}

		var req dto.UpdateMeRequest
		changed := false
		for flag, target := range map[string]**string{
			"first-name": &req.FirstName,
			"last-name":  &req.LastName,
			"bio":        &req.Bio,
		} {
			if cmd.Flags().Changed(flag) {
				v, _ := cmd.Flags().GetString(flag)
				*target = &v
				changed = true
			}
		}

		var user *dto.User
		if changed {
			user, err = c.UpdateMe(&req)
		} else {
			user, err = c.Me()
		}
		if err != nil {
			return fmt.Errorf("failed to load profile: %w", err)
		}

		heading("%s <%s>", user.Username, user.Email)
		fmt.Printf("Name: %s %s\n", user.FirstName, user.LastName)
		fmt.Printf("Role: %s\n", user.Role)
		if user.Bio != "" {
			fmt.Printf("Bio:  %s\n", user.Bio)
		}
		return nil
	},
}

func init() {
	meCmd.Flags().String("first-name", "", "Set your first name")
	meCmd.Flags().String("last-name", "", "Set your last name")
	meCmd.Flags().String("bio", "", "Set your bio")
}
