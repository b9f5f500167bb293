package profiles

import (
	"github.com/fatih/structs"
)

const (
	CapabilityViewReports   = "view_reports"
	CapabilityUploadReports = "upload_reports"
	CapabilityShareReports  = "share_reports"
	CapabilityModifyProfile = "modify_profile"
	CapabilityViewTrends    = "view_trends"
)

var Capabilities = []string{
	CapabilityViewReports,
	CapabilityUploadReports,
	CapabilityShareReports,
	CapabilityModifyProfile,
	CapabilityViewTrends,
}

type Permissions struct {
	ViewReports   bool `json:"viewReports" bson:"viewReports" structs:"view_reports"`
	UploadReports bool `json:"uploadReports" bson:"uploadReports" structs:"upload_reports"`
	ShareReports  bool `json:"shareReports" bson:"shareReports" structs:"share_reports"`
	ModifyProfile bool `json:"modifyProfile" bson:"modifyProfile" structs:"modify_profile"`
	ViewTrends    bool `json:"viewTrends" bson:"viewTrends" structs:"view_trends"`
}

func FullPermissions() Permissions {
	return Permissions{
		ViewReports:   true,
		UploadReports: true,
		ShareReports:  true,
		ModifyProfile: true,
		ViewTrends:    true,
	}
}

// DefaultFamilyPermissions are granted to profiles other than self unless the caller overrides them
func DefaultFamilyPermissions() Permissions {
	return Permissions{
		ViewReports:   true,
		UploadReports: true,
		ShareReports:  false,
		ModifyProfile: false,
		ViewTrends:    true,
	}
}

// PermissionsFor returns the permissions a new profile with the given relationship is created with
func PermissionsFor(relationship Relationship, requested *Permissions) Permissions {
	if relationship == RelationshipSelf {
		return FullPermissions()
	}
	if requested != nil {
		return *requested
	}
	return DefaultFamilyPermissions()
}

// Map returns the permissions keyed by capability name
func (p Permissions) Map() map[string]bool {
	result := make(map[string]bool, len(Capabilities))
	for key, value := range structs.Map(p) {
		if granted, ok := value.(bool); ok {
			result[key] = granted
		}
	}
	return result
}

// Has returns true if the capability is granted. Unknown capabilities are never granted.
func (p Permissions) Has(capability string) bool {
	return p.Map()[capability]
}
