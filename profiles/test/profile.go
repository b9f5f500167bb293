package test

import (
	"time"

	"github.com/hlra-health/profilesync/pointer"
	"github.com/hlra-health/profilesync/profiles"
	"github.com/hlra-health/profilesync/test"
)

var (
	genders    = []string{string(profiles.GenderMale), string(profiles.GenderFemale), string(profiles.GenderOther)}
	bloodTypes = []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}
	conditions = []string{"asthma", "diabetes", "hypertension", "arthritis", "migraine"}
)

func RandomProfile(accountId string) profiles.Profile {
	now := time.Now().UTC().Truncate(time.Millisecond)
	gender := profiles.Gender(test.Faker.RandomStringElement(genders))
	bloodType := profiles.BloodType(test.Faker.RandomStringElement(bloodTypes))
	return profiles.Profile{
		Id:                test.Faker.UUID().V4(),
		AccountId:         accountId,
		Name:              test.Faker.Person().Name(),
		Relationship:      profiles.RelationshipFamily,
		RelationshipLabel: pointer.FromAny(test.Faker.RandomStringElement([]string{"Mother", "Son", "Daughter", "Spouse"})),
		DateOfBirth:       pointer.FromAny(test.Faker.Time().TimeBetween(now.AddDate(-90, 0, 0), now).Format(profiles.DateOfBirthLayout)),
		Gender:            &gender,
		BloodType:         &bloodType,
		Email:             pointer.FromAny(test.Faker.Internet().Email()),
		HealthInfo: profiles.HealthInfo{
			ChronicConditions: []string{test.Faker.RandomStringElement(conditions)},
			Medications:       []string{},
			Allergies:         []string{},
		},
		Permissions: profiles.DefaultFamilyPermissions(),
		CreatedTime: now,
		UpdatedTime: now,
	}
}

func RandomSelfProfile(accountId string) profiles.Profile {
	profile := RandomProfile(accountId)
	profile.Relationship = profiles.RelationshipSelf
	profile.RelationshipLabel = pointer.FromAny("Self")
	profile.Permissions = profiles.FullPermissions()
	return profile
}

// RandomProfileSet returns a set with a self profile and count family members, with self active
func RandomProfileSet(accountId string, count int) profiles.ProfileSet {
	self := RandomSelfProfile(accountId)
	set := profiles.ProfileSet{
		AccountId:       accountId,
		Profiles:        []profiles.Profile{self},
		ActiveProfileId: pointer.FromAny(self.Id),
		LastSynced:      time.Now().UTC().Truncate(time.Millisecond),
	}
	for i := 0; i < count; i++ {
		set.Profiles = append(set.Profiles, RandomProfile(accountId))
	}
	return set
}

// CreatedFrom emulates the remote service confirming a create request
func CreatedFrom(accountId string, create profiles.Create) *profiles.Profile {
	now := time.Now().UTC().Truncate(time.Millisecond)
	profile := profiles.Profile{
		Id:                test.Faker.UUID().V4(),
		AccountId:         accountId,
		Name:              create.Name,
		Relationship:      create.Relationship,
		RelationshipLabel: create.RelationshipLabel,
		DateOfBirth:       create.DateOfBirth,
		Gender:            create.Gender,
		BloodType:         create.BloodType,
		Phone:             create.Phone,
		Email:             create.Email,
		EmergencyContact:  create.EmergencyContact,
		Permissions:       profiles.PermissionsFor(create.Relationship, create.Permissions),
		CreatedTime:       now,
		UpdatedTime:       now,
	}
	if create.HealthInfo != nil {
		profile.HealthInfo = *create.HealthInfo
	}
	return &profile
}
