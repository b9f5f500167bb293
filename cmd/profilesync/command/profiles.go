package command

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	"github.com/hlra-health/profilesync/profiles"
	"github.com/hlra-health/profilesync/session"
)

var (
	accountId   string
	accessToken string
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "Family profiles",
	Long:  "The profiles command is used to inspect the family profiles of an account",
}

// loadProfiles signs in with the access token when one is given and loads the profiles
// of the account. Without a token the cached profiles are used.
func loadProfiles(ctx context.Context, service profiles.Service, sess *session.Session) error {
	if accessToken != "" {
		_, err := sess.Login(ctx, &oauth2.Token{AccessToken: accessToken})
		return err
	}
	return service.Initialize(ctx, accountId)
}

func newCommandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), time.Minute)
}

func init() {
	profilesCmd.PersistentFlags().StringVar(&accountId, "account", "", "Account id")
	profilesCmd.PersistentFlags().StringVar(&accessToken, "access-token", "", "Access token of the account, the cached profiles are used when it's not set")
	rootCmd.AddCommand(profilesCmd)
}
