package profiles

import (
	"fmt"
	"strings"
	"time"

	"github.com/mohae/deepcopy"

	"github.com/hlra-health/profilesync/errors"
)

var (
	ErrNotFound          = fmt.Errorf("profile %w", errors.NotFound)
	ErrValidation        = fmt.Errorf("invalid profile: %w", errors.BadRequest)
	ErrCannotDeleteSelf  = fmt.Errorf("%w: cannot delete self profile", errors.Forbidden)
	ErrNotInitialized    = fmt.Errorf("profiles are not initialized: %w", errors.Conflict)
	ErrRemoteUnavailable = fmt.Errorf("profile service %w", errors.ServiceUnavailable)
	ErrAccountChanged    = fmt.Errorf("account changed while the request was in flight: %w", errors.Conflict)
)

type Relationship string

const (
	RelationshipSelf   Relationship = "self"
	RelationshipFamily Relationship = "family"
)

type Gender string

const (
	GenderMale           Gender = "male"
	GenderFemale         Gender = "female"
	GenderOther          Gender = "other"
	GenderPreferNotToSay Gender = "prefer_not_to_say"
)

type BloodType string

const (
	BloodTypeAPositive  BloodType = "A+"
	BloodTypeANegative  BloodType = "A-"
	BloodTypeBPositive  BloodType = "B+"
	BloodTypeBNegative  BloodType = "B-"
	BloodTypeABPositive BloodType = "AB+"
	BloodTypeABNegative BloodType = "AB-"
	BloodTypeOPositive  BloodType = "O+"
	BloodTypeONegative  BloodType = "O-"
	BloodTypeUnknown    BloodType = "Unknown"
)

// DateOfBirthLayout is the layout of Profile.DateOfBirth
const DateOfBirthLayout = time.DateOnly

type Profile struct {
	Id                string            `json:"id" bson:"id"`
	AccountId         string            `json:"accountId" bson:"accountId"`
	Name              string            `json:"name" bson:"name"`
	Relationship      Relationship      `json:"relationship" bson:"relationship"`
	RelationshipLabel *string           `json:"relationshipLabel,omitempty" bson:"relationshipLabel,omitempty"`
	DateOfBirth       *string           `json:"dateOfBirth,omitempty" bson:"dateOfBirth,omitempty"`
	Gender            *Gender           `json:"gender,omitempty" bson:"gender,omitempty"`
	BloodType         *BloodType        `json:"bloodType,omitempty" bson:"bloodType,omitempty"`
	Phone             *string           `json:"phone,omitempty" bson:"phone,omitempty"`
	Email             *string           `json:"email,omitempty" bson:"email,omitempty"`
	Avatar            *string           `json:"avatar,omitempty" bson:"avatar,omitempty"`
	Notes             *string           `json:"notes,omitempty" bson:"notes,omitempty"`
	HealthInfo        HealthInfo        `json:"healthInfo" bson:"healthInfo"`
	EmergencyContact  *EmergencyContact `json:"emergencyContact,omitempty" bson:"emergencyContact,omitempty"`
	Permissions       Permissions       `json:"permissions" bson:"permissions"`
	LocalOnly         bool              `json:"localOnly,omitempty" bson:"localOnly,omitempty"`
	CreatedTime       time.Time         `json:"createdTime" bson:"createdTime"`
	UpdatedTime       time.Time         `json:"updatedTime" bson:"updatedTime"`
}

func (p Profile) IsSelf() bool {
	return p.Relationship == RelationshipSelf
}

// Age returns the age in whole years at the given time, or false if the date of birth is unknown
func (p Profile) Age(now time.Time) (int, bool) {
	if p.DateOfBirth == nil || *p.DateOfBirth == "" {
		return 0, false
	}
	dob, err := time.Parse(DateOfBirthLayout, *p.DateOfBirth)
	if err != nil {
		return 0, false
	}

	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	return age, true
}

type HealthInfo struct {
	ChronicConditions []string            `json:"chronicConditions" bson:"chronicConditions"`
	Medications       []string            `json:"medications" bson:"medications"`
	Allergies         []string            `json:"allergies" bson:"allergies"`
	PreviousSurgeries []string            `json:"previousSurgeries,omitempty" bson:"previousSurgeries,omitempty"`
	FamilyHistory     map[string][]string `json:"familyHistory,omitempty" bson:"familyHistory,omitempty"`
	Notes             *string             `json:"notes,omitempty" bson:"notes,omitempty"`
}

type EmergencyContact struct {
	Name         string  `json:"name" bson:"name"`
	Phone        string  `json:"phone" bson:"phone"`
	Relationship string  `json:"relationship" bson:"relationship"`
	Email        *string `json:"email,omitempty" bson:"email,omitempty"`
}

// Create holds the caller supplied fields of a new profile
type Create struct {
	Name              string            `json:"name"`
	Relationship      Relationship      `json:"relationship,omitempty"`
	RelationshipLabel *string           `json:"relationshipLabel,omitempty"`
	DateOfBirth       *string           `json:"dateOfBirth,omitempty"`
	Gender            *Gender           `json:"gender,omitempty"`
	BloodType         *BloodType        `json:"bloodType,omitempty"`
	Phone             *string           `json:"phone,omitempty"`
	Email             *string           `json:"email,omitempty"`
	Avatar            *string           `json:"avatar,omitempty"`
	Notes             *string           `json:"notes,omitempty"`
	HealthInfo        *HealthInfo       `json:"healthInfo,omitempty"`
	EmergencyContact  *EmergencyContact `json:"emergencyContact,omitempty"`
	Permissions       *Permissions      `json:"permissions,omitempty"`
}

// Update is a partial profile update. Nil fields are left unchanged.
// Id, AccountId, Relationship and CreatedTime are accepted so that full
// documents can be submitted, but they are never applied.
type Update struct {
	Id           *string       `json:"id,omitempty"`
	AccountId    *string       `json:"accountId,omitempty"`
	Relationship *Relationship `json:"relationship,omitempty"`
	CreatedTime  *time.Time    `json:"createdTime,omitempty"`

	Name              *string           `json:"name,omitempty"`
	RelationshipLabel *string           `json:"relationshipLabel,omitempty"`
	DateOfBirth       *string           `json:"dateOfBirth,omitempty"`
	Gender            *Gender           `json:"gender,omitempty"`
	BloodType         *BloodType        `json:"bloodType,omitempty"`
	Phone             *string           `json:"phone,omitempty"`
	Email             *string           `json:"email,omitempty"`
	Avatar            *string           `json:"avatar,omitempty"`
	Notes             *string           `json:"notes,omitempty"`
	HealthInfo        *HealthInfo       `json:"healthInfo,omitempty"`
	EmergencyContact  *EmergencyContact `json:"emergencyContact,omitempty"`
	Permissions       *Permissions      `json:"permissions,omitempty"`
}

// Apply returns a copy of profile with the mutable fields of the update applied
func (u Update) Apply(profile Profile, now time.Time) Profile {
	updated := deepcopy.Copy(profile).(Profile)
	if u.Name != nil {
		updated.Name = strings.TrimSpace(*u.Name)
	}
	if u.RelationshipLabel != nil {
		updated.RelationshipLabel = u.RelationshipLabel
	}
	if u.DateOfBirth != nil {
		updated.DateOfBirth = u.DateOfBirth
	}
	if u.Gender != nil {
		updated.Gender = u.Gender
	}
	if u.BloodType != nil {
		updated.BloodType = u.BloodType
	}
	if u.Phone != nil {
		updated.Phone = u.Phone
	}
	if u.Email != nil {
		updated.Email = u.Email
	}
	if u.Avatar != nil {
		updated.Avatar = u.Avatar
	}
	if u.Notes != nil {
		updated.Notes = u.Notes
	}
	if u.HealthInfo != nil {
		updated.HealthInfo = deepcopy.Copy(*u.HealthInfo).(HealthInfo)
	}
	if u.EmergencyContact != nil {
		updated.EmergencyContact = deepcopy.Copy(u.EmergencyContact).(*EmergencyContact)
	}
	// The self profile always has full access
	if u.Permissions != nil && !updated.IsSelf() {
		updated.Permissions = *u.Permissions
	}
	updated.UpdatedTime = now
	return updated
}

// Mutable returns a copy of the update without the fields that can't be changed
func (u Update) Mutable() Update {
	u.Id = nil
	u.AccountId = nil
	u.Relationship = nil
	u.CreatedTime = nil
	return u
}

// ProfileSet is the unit of synchronization: all profiles of an account and the active profile id
type ProfileSet struct {
	AccountId       string    `json:"accountId" bson:"accountId"`
	Profiles        []Profile `json:"profiles" bson:"profiles"`
	ActiveProfileId *string   `json:"activeProfileId,omitempty" bson:"activeProfileId,omitempty"`
	LastSynced      time.Time `json:"lastSynced" bson:"lastSynced"`
}

func (s *ProfileSet) IsEmpty() bool {
	return s == nil || len(s.Profiles) == 0
}

func (s *ProfileSet) Index(profileId string) int {
	for i, p := range s.Profiles {
		if p.Id == profileId {
			return i
		}
	}
	return -1
}

func (s *ProfileSet) Get(profileId string) (*Profile, bool) {
	if i := s.Index(profileId); i >= 0 {
		return &s.Profiles[i], true
	}
	return nil, false
}

func (s *ProfileSet) Self() (*Profile, bool) {
	for i := range s.Profiles {
		if s.Profiles[i].IsSelf() {
			return &s.Profiles[i], true
		}
	}
	return nil, false
}

func (s *ProfileSet) Active() (*Profile, bool) {
	if s.ActiveProfileId == nil {
		return nil, false
	}
	return s.Get(*s.ActiveProfileId)
}

// Validate checks that the active profile id references an existing profile when the set
// is not empty, and that it is unset otherwise
func (s *ProfileSet) Validate() error {
	if len(s.Profiles) == 0 {
		if s.ActiveProfileId != nil {
			return fmt.Errorf("%w: active profile is set on an empty set", ErrValidation)
		}
		return nil
	}
	if s.ActiveProfileId == nil {
		return fmt.Errorf("%w: active profile is not set", ErrValidation)
	}
	if _, ok := s.Active(); !ok {
		return fmt.Errorf("%w: active profile %s does not exist", ErrValidation, *s.ActiveProfileId)
	}
	return nil
}

// EnsureActive repairs the active profile id, preferring the self profile.
// Returns true if the active profile id was changed.
func (s *ProfileSet) EnsureActive() bool {
	if len(s.Profiles) == 0 {
		changed := s.ActiveProfileId != nil
		s.ActiveProfileId = nil
		return changed
	}
	if _, ok := s.Active(); ok {
		return false
	}

	// Never point into the profiles slice, it is reordered on removal
	id := s.Profiles[0].Id
	if self, ok := s.Self(); ok {
		id = self.Id
	}
	s.ActiveProfileId = &id
	return true
}

// Clone returns a deep copy of the set
func (s ProfileSet) Clone() ProfileSet {
	return deepcopy.Copy(s).(ProfileSet)
}

func (s *ProfileSet) remove(profileId string) bool {
	i := s.Index(profileId)
	if i < 0 {
		return false
	}
	s.Profiles = append(s.Profiles[:i], s.Profiles[i+1:]...)
	return true
}

// Remove deletes the profile from the set and reassigns the active profile if needed
func (s *ProfileSet) Remove(profileId string) bool {
	if !s.remove(profileId) {
		return false
	}
	s.EnsureActive()
	return true
}

// Upsert replaces the profile with the same id or appends it to the set
func (s *ProfileSet) Upsert(profile Profile) {
	if i := s.Index(profile.Id); i >= 0 {
		s.Profiles[i] = profile
		return
	}
	s.Profiles = append(s.Profiles, profile)
}
