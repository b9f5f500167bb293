package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hlra-health/profilesync/pointer"
	"github.com/hlra-health/profilesync/profiles"
	"github.com/hlra-health/profilesync/session"
)

var profilesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List profiles",
	Long:  "The list command prints the profiles of an account and marks the active one",
	RunE:  func(cmd *cobra.Command, args []string) error { return Run(listProfiles) },
}

func listProfiles(service profiles.Service, sess *session.Session) error {
	ctx, cancel := newCommandContext()
	defer cancel()

	if err := loadProfiles(ctx, service, sess); err != nil {
		return err
	}

	var activeId *string
	if active := service.GetActiveProfile(); active != nil {
		activeId = &active.Id
	}
	list := service.GetProfiles()
	for _, p := range list {
		marker := " "
		if pointer.Equal(activeId, &p.Id) {
			marker = "*"
		}
		fmt.Printf("%s %s %s (%s)\n", marker, p.Id, p.Name, p.Relationship)
	}
	fmt.Printf("Found %v profiles\n", len(list))

	return nil
}

func init() {
	profilesCmd.AddCommand(profilesListCmd)
}
