package profiles

import (
	"context"
	"fmt"
	"strings"
)

//go:generate mockgen --build_flags=--mod=mod -source=./service.go -destination=./test/mock_service.go -package test

// Service is the in-process view of the profiles of the signed in account
type Service interface {
	Initialize(ctx context.Context, accountId string) error
	// Reset discards the in-memory state, e.g. on logout
	Reset()
	Ready() bool
	AccountId() string
	GetProfiles() []Profile
	GetActiveProfile() *Profile
	SwitchProfile(ctx context.Context, profileId string) (*Profile, error)
	CreateProfile(ctx context.Context, create Create) (*Profile, error)
	UpdateProfile(ctx context.Context, profileId string, update Update) (*Profile, error)
	DeleteProfile(ctx context.Context, profileId string) error
	HasPermission(capability string) bool
	GetHealthInsights() *HealthInsights
	Subscribe(observer Observer) (unsubscribe func())
}

// RemoteService is the remote profile service that owns the source of truth
type RemoteService interface {
	ListProfiles(ctx context.Context, accountId string) ([]Profile, error)
	// GetActiveProfile returns nil if the account has no active profile
	GetActiveProfile(ctx context.Context, accountId string) (*Profile, error)
	CreateProfile(ctx context.Context, accountId string, create Create) (*Profile, error)
	UpdateProfile(ctx context.Context, accountId string, profileId string, update Update) (*Profile, error)
	DeleteProfile(ctx context.Context, accountId string, profileId string) error
	SetActiveProfile(ctx context.Context, accountId string, profileId string) error
}

// Cache is a best-effort local mirror of profile sets keyed by account id. Last write wins.
type Cache interface {
	// Load returns nil without an error when nothing is cached for the account
	Load(ctx context.Context, accountId string) (*ProfileSet, error)
	Save(ctx context.Context, set ProfileSet) error
	Delete(ctx context.Context, accountId string) error
}

// Observer is notified with the full profile list and the active profile id after every change
type Observer func(profiles []Profile, activeProfileId *string)

var (
	selfLabels = []string{"self", "me", "myself"}
	selfNames  = []string{"my profile", "me"}
)

// IsSelfRequest returns true when the create request describes the account owner
func IsSelfRequest(create Create) bool {
	if create.Relationship == RelationshipSelf {
		return true
	}
	if create.RelationshipLabel != nil {
		label := strings.ToLower(strings.TrimSpace(*create.RelationshipLabel))
		for _, l := range selfLabels {
			if label == l {
				return true
			}
		}
	}
	name := strings.ToLower(strings.TrimSpace(create.Name))
	for _, n := range selfNames {
		if name == n {
			return true
		}
	}
	return false
}

// Normalize validates the create request and fills in the relationship and permissions
func (c Create) Normalize() (Create, error) {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return c, fmt.Errorf("%w: profile name is required", ErrValidation)
	}
	if IsSelfRequest(c) {
		c.Relationship = RelationshipSelf
	} else {
		c.Relationship = RelationshipFamily
	}
	permissions := PermissionsFor(c.Relationship, c.Permissions)
	c.Permissions = &permissions
	return c, nil
}
