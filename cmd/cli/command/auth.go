package command

import (
	"fmt"

	"yamdb/cmd/cli/authentication"
	"yamdb/cmd/cli/dto"

	"github.com/spf13/cobra"
)

// auth.go handles signup, token exchange and logout.

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authentication commands",
	Long: `Authenticate with the yamdb API. Signing up mails a confirmation code;
exchange it for an access token with "auth token".`,
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account or resend the confirmation code",
	RunE: func(cmd *cobra.Command, args []string) error {
		var req dto.SignupRequest
		req.Username, _ = cmd.Flags().GetString("username")
		req.Email, _ = cmd.Flags().GetString("email")

		response, err := newClient().Signup(&req)
		if err != nil {
			return fmt.Errorf("signup failed: %w", err)
		}

		success("Confirmation code sent to %s", response.Email)
		fmt.Printf("Run: yamdb auth token -u %s -c <code>\n", response.Username)
		return nil
	},
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Exchange a confirmation code for an access token",
	RunE: func(cmd *cobra.Command, args []string) error {
		var req dto.TokenRequest
		req.Username, _ = cmd.Flags().GetString("username")
		req.ConfirmationCode, _ = cmd.Flags().GetString("code")

		response, err := newClient().Token(&req)
		if err != nil {
			return fmt.Errorf("token request failed: %w", err)
		}

		creds := &authentication.StoredCredentials{
			AccessToken: response.Token,
			Username:    req.Username,
			APIURL:      apiURL,
		}
		if err := authentication.StoreTokens(creds); err != nil {
			return fmt.Errorf("could not store token in keyring: %w", err)
		}
		success("Logged in as %s", req.Username)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored access token",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := authentication.DeleteTokens(); err != nil {
			return err
		}
		success("Logged out")
		return nil
	},
}

func init() {
	authCmd.AddCommand(signupCmd, tokenCmd, logoutCmd)

	signupCmd.Flags().StringP("username", "u", "", "Username for the account")
	signupCmd.Flags().StringP("email", "e", "", "Email address the code is sent to")
	signupCmd.MarkFlagRequired("username")
	signupCmd.MarkFlagRequired("email")

	tokenCmd.Flags().StringP("username", "u", "", "Username used at signup")
	tokenCmd.Flags().StringP("code", "c", "", "Confirmation code from the email")
	tokenCmd.MarkFlagRequired("username")
	tokenCmd.MarkFlagRequired("code")
}
