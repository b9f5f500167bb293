package remote

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/hlra-health/profilesync/pointer"
	"github.com/hlra-health/profilesync/profiles"
)

// Timestamp accepts RFC 3339 timestamps and the zone-less timestamps emitted by the
// profile service, which are in UTC
type Timestamp time.Time

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	var err error
	for _, layout := range timestampLayouts {
		var parsed time.Time
		if parsed, err = time.ParseInLocation(layout, value, time.UTC); err == nil {
			*t = Timestamp(parsed.UTC())
			return nil
		}
	}
	return err
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(t).UTC().Format(time.RFC3339Nano))
}

type Permissions struct {
	CanViewReports    bool `json:"can_view_reports"`
	CanUploadReports  bool `json:"can_upload_reports"`
	CanShareReports   bool `json:"can_share_reports"`
	CanManageSettings bool `json:"can_manage_settings"`
	CanViewTrends     bool `json:"can_view_trends"`
}

type HealthInfo struct {
	ChronicConditions []string            `json:"chronic_conditions"`
	Medications       []string            `json:"medications"`
	Allergies         []string            `json:"allergies"`
	PreviousSurgeries []string            `json:"previous_surgeries"`
	FamilyHistory     map[string][]string `json:"family_history"`
	Notes             *string             `json:"notes,omitempty"`
}

type EmergencyContact struct {
	Name         string  `json:"name"`
	Relationship string  `json:"relationship"`
	Phone        string  `json:"phone"`
	Email        *string `json:"email,omitempty"`
}

type Profile struct {
	Id                string             `json:"id"`
	UserId            string             `json:"user_id,omitempty"`
	Name              string             `json:"name"`
	Relationship      string             `json:"relationship"`
	RelationshipLabel *string            `json:"relationship_label,omitempty"`
	DateOfBirth       *string            `json:"date_of_birth,omitempty"`
	Gender            *string            `json:"gender,omitempty"`
	BloodType         *string            `json:"blood_type,omitempty"`
	Phone             *string            `json:"phone,omitempty"`
	Email             *string            `json:"email,omitempty"`
	Avatar            *string            `json:"avatar,omitempty"`
	Notes             *string            `json:"notes,omitempty"`
	HealthInfo        *HealthInfo        `json:"health_info,omitempty"`
	EmergencyContacts []EmergencyContact `json:"emergency_contacts,omitempty"`
	Permissions       *Permissions       `json:"permissions,omitempty"`
	CreatedAt         *Timestamp         `json:"created_at,omitempty"`
	UpdatedAt         *Timestamp         `json:"updated_at,omitempty"`
}

type ProfileList struct {
	Profiles        []Profile `json:"profiles"`
	Total           int       `json:"total"`
	ActiveProfileId *string   `json:"active_profile_id,omitempty"`
}

// ProfileRequest is the body of create and update requests. Nil fields are left unchanged on update.
type ProfileRequest struct {
	Name              *string            `json:"name,omitempty"`
	Relationship      *string            `json:"relationship,omitempty"`
	RelationshipLabel *string            `json:"relationship_label,omitempty"`
	DateOfBirth       *string            `json:"date_of_birth,omitempty"`
	Gender            *string            `json:"gender,omitempty"`
	BloodType         *string            `json:"blood_type,omitempty"`
	Phone             *string            `json:"phone,omitempty"`
	Email             *string            `json:"email,omitempty"`
	Avatar            *string            `json:"avatar,omitempty"`
	Notes             *string            `json:"notes,omitempty"`
	HealthInfo        *HealthInfo        `json:"health_info,omitempty"`
	EmergencyContacts []EmergencyContact `json:"emergency_contacts,omitempty"`
	Permissions       *Permissions       `json:"permissions,omitempty"`
}

type ActiveProfileRequest struct {
	ProfileId string `json:"profile_id"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type Token struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresIn    int64  `json:"expires_in,omitempty"`
	User         *User  `json:"user,omitempty"`
}

type User struct {
	Id     string  `json:"id"`
	Email  string  `json:"email"`
	Name   string  `json:"name"`
	Avatar *string `json:"avatar,omitempty"`
}

type ErrorResponse struct {
	Detail any `json:"detail"`
}

func NewProfile(p profiles.Profile) Profile {
	dto := Profile{
		Id:                p.Id,
		UserId:            p.AccountId,
		Name:              p.Name,
		Relationship:      string(p.Relationship),
		RelationshipLabel: p.RelationshipLabel,
		DateOfBirth:       p.DateOfBirth,
		Gender:            (*string)(p.Gender),
		BloodType:         (*string)(p.BloodType),
		Phone:             p.Phone,
		Email:             p.Email,
		Avatar:            p.Avatar,
		Notes:             p.Notes,
		HealthInfo:        NewHealthInfo(&p.HealthInfo),
		EmergencyContacts: NewEmergencyContacts(p.EmergencyContact),
		Permissions:       NewPermissions(&p.Permissions),
		CreatedAt:         pointer.FromAny(Timestamp(p.CreatedTime)),
		UpdatedAt:         pointer.FromAny(Timestamp(p.UpdatedTime)),
	}
	return dto
}

func (p Profile) ToProfile(accountId string) profiles.Profile {
	profile := profiles.Profile{
		Id:                p.Id,
		AccountId:         p.UserId,
		Name:              p.Name,
		Relationship:      profiles.RelationshipFamily,
		RelationshipLabel: p.RelationshipLabel,
		DateOfBirth:       p.DateOfBirth,
		Gender:            (*profiles.Gender)(p.Gender),
		BloodType:         (*profiles.BloodType)(p.BloodType),
		Phone:             p.Phone,
		Email:             p.Email,
		Avatar:            p.Avatar,
		Notes:             p.Notes,
		HealthInfo: profiles.HealthInfo{
			ChronicConditions: []string{},
			Medications:       []string{},
			Allergies:         []string{},
		},
	}
	if profile.AccountId == "" {
		profile.AccountId = accountId
	}
	if p.Relationship == string(profiles.RelationshipSelf) {
		profile.Relationship = profiles.RelationshipSelf
	}
	if p.HealthInfo != nil {
		profile.HealthInfo = p.HealthInfo.ToHealthInfo()
	}
	if len(p.EmergencyContacts) > 0 {
		c := p.EmergencyContacts[0]
		profile.EmergencyContact = &profiles.EmergencyContact{
			Name:         c.Name,
			Phone:        c.Phone,
			Relationship: c.Relationship,
			Email:        c.Email,
		}
	}
	if p.Permissions != nil {
		profile.Permissions = p.Permissions.ToPermissions()
	} else {
		profile.Permissions = profiles.PermissionsFor(profile.Relationship, nil)
	}
	if p.CreatedAt != nil {
		profile.CreatedTime = time.Time(*p.CreatedAt)
	}
	if p.UpdatedAt != nil {
		profile.UpdatedTime = time.Time(*p.UpdatedAt)
	}
	return profile
}

func NewHealthInfo(h *profiles.HealthInfo) *HealthInfo {
	if h == nil {
		return nil
	}
	return &HealthInfo{
		ChronicConditions: nonNil(h.ChronicConditions),
		Medications:       nonNil(h.Medications),
		Allergies:         nonNil(h.Allergies),
		PreviousSurgeries: nonNil(h.PreviousSurgeries),
		FamilyHistory:     h.FamilyHistory,
		Notes:             h.Notes,
	}
}

func (h HealthInfo) ToHealthInfo() profiles.HealthInfo {
	return profiles.HealthInfo{
		ChronicConditions: nonNil(h.ChronicConditions),
		Medications:       nonNil(h.Medications),
		Allergies:         nonNil(h.Allergies),
		PreviousSurgeries: h.PreviousSurgeries,
		FamilyHistory:     h.FamilyHistory,
		Notes:             h.Notes,
	}
}

func NewEmergencyContacts(c *profiles.EmergencyContact) []EmergencyContact {
	if c == nil {
		return nil
	}
	return []EmergencyContact{{
		Name:         c.Name,
		Relationship: c.Relationship,
		Phone:        c.Phone,
		Email:        c.Email,
	}}
}

func NewPermissions(p *profiles.Permissions) *Permissions {
	if p == nil {
		return nil
	}
	return &Permissions{
		CanViewReports:    p.ViewReports,
		CanUploadReports:  p.UploadReports,
		CanShareReports:   p.ShareReports,
		CanManageSettings: p.ModifyProfile,
		CanViewTrends:     p.ViewTrends,
	}
}

func (p Permissions) ToPermissions() profiles.Permissions {
	return profiles.Permissions{
		ViewReports:   p.CanViewReports,
		UploadReports: p.CanUploadReports,
		ShareReports:  p.CanShareReports,
		ModifyProfile: p.CanManageSettings,
		ViewTrends:    p.CanViewTrends,
	}
}

func NewCreateRequest(create profiles.Create) ProfileRequest {
	return ProfileRequest{
		Name:              pointer.FromAny(create.Name),
		Relationship:      pointer.FromAny(string(create.Relationship)),
		RelationshipLabel: create.RelationshipLabel,
		DateOfBirth:       create.DateOfBirth,
		Gender:            (*string)(create.Gender),
		BloodType:         (*string)(create.BloodType),
		Phone:             create.Phone,
		Email:             create.Email,
		Avatar:            create.Avatar,
		Notes:             create.Notes,
		HealthInfo:        NewHealthInfo(create.HealthInfo),
		EmergencyContacts: NewEmergencyContacts(create.EmergencyContact),
		Permissions:       NewPermissions(create.Permissions),
	}
}

// NewUpdateRequest converts the mutable fields of the update
func NewUpdateRequest(update profiles.Update) ProfileRequest {
	update = update.Mutable()
	return ProfileRequest{
		Name:              update.Name,
		RelationshipLabel: update.RelationshipLabel,
		DateOfBirth:       update.DateOfBirth,
		Gender:            (*string)(update.Gender),
		BloodType:         (*string)(update.BloodType),
		Phone:             update.Phone,
		Email:             update.Email,
		Avatar:            update.Avatar,
		Notes:             update.Notes,
		HealthInfo:        NewHealthInfo(update.HealthInfo),
		EmergencyContacts: NewEmergencyContacts(update.EmergencyContact),
		Permissions:       NewPermissions(update.Permissions),
	}
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
