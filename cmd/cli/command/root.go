package command

// root.go defines the root command for the yamdb CLI and its global flags.

import (
	"fmt"
	"os"

	"yamdb/cmd/cli/authentication"
	"yamdb/cmd/cli/command/client"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

const defaultAPIURL = "http://localhost:8080/api/v1"

var apiURL string // global flag for the API base URL

var rootCmd = &cobra.Command{
	Use:   "yamdb",
	Short: "yamdb - command line client for the yamdb review API",
	Long: `yamdb is a command line client for the yamdb review platform. It can:
- Sign up and obtain an access token with the emailed confirmation code
- Browse categories, genres and titles with their ratings
- Read and write reviews and comments

Use "yamdb [command] --help" to see all available commands.`,
	SilenceUsage: true,
}

// Execute is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	defaultURL := defaultAPIURL
	if env := os.Getenv("YAMDB_API_URL"); env != "" {
		defaultURL = env
	}
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", defaultURL, "API base URL")

	rootCmd.AddCommand(authCmd, meCmd, genreCmd, categoryCmd, titleCmd, reviewCmd, commentCmd)
}

// newClient returns an anonymous client for public endpoints.
func newClient() *client.HTTPClient {
	return client.NewHTTPClient(apiURL)
}

// newAuthClient requires a stored token.
func newAuthClient() (*client.HTTPClient, error) {
	creds, err := authentication.GetTokens()
	if err != nil {
		return nil, err
	}
	c := newClient()
	c.SetToken(creds.AccessToken)
	return c, nil
}

func success(format string, a ...any) {
	color.Green("✓ "+format, a...)
}

func heading(format string, a ...any) {
	color.New(color.Bold).Printf(format+"\n", a...)
}

func printPageFooter(page, totalPages, total int) {
	color.HiBlack("page %d of %d (%d total)", page, totalPages, total)
}

func ratingText(r *float64) string {
	if r == nil {
		return "no rating yet"
	}
	return fmt.Sprintf("%.1f/10", *r)
}
