package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hlra-health/profilesync/profiles"
)

var cacheAccountId string

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Local profile cache",
	Long:  "The cache command is used to manage the local copy of the profiles",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the cached profiles",
	Long:  "The clear command deletes the cached profiles of an account",
	RunE:  func(cmd *cobra.Command, args []string) error { return Run(clearCache) },
}

func clearCache(cache profiles.Cache) error {
	ctx, cancel := newCommandContext()
	defer cancel()

	if err := cache.Delete(ctx, cacheAccountId); err != nil {
		return err
	}
	fmt.Printf("Cleared cached profiles of %s\n", cacheAccountId)

	return nil
}

func init() {
	cacheClearCmd.Flags().StringVar(&cacheAccountId, "account", "", "Account id")
	_ = cacheClearCmd.MarkFlagRequired("account")
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}
