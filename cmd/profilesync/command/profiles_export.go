package command

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hlra-health/profilesync/profiles"
	"github.com/hlra-health/profilesync/profiles/report"
	"github.com/hlra-health/profilesync/session"
)

var exportPath string

var profilesExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export profiles",
	Long:  "The export command writes the profiles and the health insights of an account to a spreadsheet",
	RunE:  func(cmd *cobra.Command, args []string) error { return Run(exportProfiles) },
}

func exportProfiles(service profiles.Service, sess *session.Session) error {
	ctx, cancel := newCommandContext()
	defer cancel()

	if err := loadProfiles(ctx, service, sess); err != nil {
		return err
	}

	set := profiles.ProfileSet{
		AccountId: service.AccountId(),
		Profiles:  service.GetProfiles(),
	}
	if active := service.GetActiveProfile(); active != nil {
		set.ActiveProfileId = &active.Id
	}

	file, err := report.NewReport(set, time.Now()).Generate()
	if err != nil {
		return err
	}
	if err := file.Save(exportPath); err != nil {
		return err
	}
	fmt.Printf("Exported %v profiles to %s\n", len(set.Profiles), exportPath)

	return nil
}

func init() {
	profilesExportCmd.Flags().StringVarP(&exportPath, "out", "o", "profiles.xlsx", "Output file")
	profilesCmd.AddCommand(profilesExportCmd)
}
