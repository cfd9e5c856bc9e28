package command

// root.go defines the root command for the scenehub CLI and the helpers every subcommand
// shares: the API client, the stored identity and the output colours.

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"scenehub/cmd/cli/authentication"
	"scenehub/cmd/cli/command/client"
	"scenehub/internal/logger"
	"scenehub/internal/social"
)

var (
	apiURL   string // Global flag for API server URL
	timeout  time.Duration
	logLevel string
)

var (
	success = color.New(color.FgGreen).SprintFunc()
	faint   = color.New(color.FgHiBlack).SprintFunc()
	accent  = color.New(color.FgCyan, color.Bold).SprintFunc()
	warning = color.New(color.FgYellow).SprintFunc()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "scenehub",
	Short: "scenehub - browse and react to anime scenes from the terminal",
	Long: `scenehub is a command line client for the scenehub API. With it you can:
- Browse the scene gallery with search, tag, anime and genre filters
- See what is trending
- Like, favourite, report and comment on scenes
- Look up anime in the external catalog

Use "scenehub command --help" to see all available commands.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Error: %v", err)) // Print error to standard error
		os.Exit(1)
	}
}

func init() {
	// Global persistent flags = available to all subcommands
	defaultAPI := os.Getenv("SCENEHUB_API")
	if defaultAPI == "" {
		defaultAPI = "http://localhost:8080"
	}
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", defaultAPI, "API server URL")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 15*time.Second, "overall request timeout")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level for background work (debug, info, warn, error)")

	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(trendingCmd)
	rootCmd.AddCommand(sceneCmd)
	rootCmd.AddCommand(likeCmd)
	rootCmd.AddCommand(favouriteCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(reasonsCmd)
	rootCmd.AddCommand(commentsCmd)
	rootCmd.AddCommand(tagsCmd)
	rootCmd.AddCommand(genresCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(meCmd)
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), timeout)
}

func cliLogger() *slog.Logger {
	return logger.New(os.Stderr, logLevel, "text")
}

// GetClient returns an API client carrying the stored token, if any.
func GetClient() *client.HTTPClient {
	httpClient := client.NewHTTPClient(apiURL)
	if creds, err := authentication.GetTokens(); err == nil && creds != nil && !creds.Expired(time.Now()) {
		httpClient.SetToken(creds.AccessToken)
	}
	return httpClient
}

// GetAuthenticatedClient is GetClient for commands that need a signed-in user.
func GetAuthenticatedClient() (*client.HTTPClient, *authentication.StoredCredentials, error) {
	creds, err := authentication.GetTokens()
	if err != nil {
		return nil, nil, fmt.Errorf("read stored token: %w", err)
	}
	if creds == nil {
		return nil, nil, fmt.Errorf("not logged in, run: scenehub auth token <jwt>")
	}
	if creds.Expired(time.Now()) {
		return nil, nil, fmt.Errorf("stored token expired, run: scenehub auth token <jwt>")
	}
	httpClient := client.NewHTTPClient(apiURL)
	httpClient.SetToken(creds.AccessToken)
	return httpClient, creds, nil
}

// newSession loads the signed-in user's likes and favourites.
func newSession(ctx context.Context) (*social.Session, *client.HTTPClient, error) {
	httpClient, creds, err := GetAuthenticatedClient()
	if err != nil {
		return nil, nil, err
	}
	session := social.NewSession(httpClient, cliLogger())
	if err := session.SetIdentity(ctx, creds.UserID); err != nil {
		return nil, nil, err
	}
	return session, httpClient, nil
}
