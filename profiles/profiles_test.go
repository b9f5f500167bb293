package profiles_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/hlra-health/profilesync/pointer"
	"github.com/hlra-health/profilesync/profiles"
	profilesTest "github.com/hlra-health/profilesync/profiles/test"
)

var _ = Describe("ProfileSet", func() {
	var set profiles.ProfileSet

	BeforeEach(func() {
		set = profilesTest.RandomProfileSet("acct-1", 2)
	})

	It("is valid when the active profile exists", func() {
		Expect(set.Validate()).To(Succeed())
	})

	It("is invalid when the active profile doesn't exist", func() {
		set.ActiveProfileId = pointer.FromAny("missing")
		Expect(set.Validate()).To(MatchError(profiles.ErrValidation))
	})

	It("is invalid when the active profile is set on an empty set", func() {
		set.Profiles = nil
		Expect(set.Validate()).To(MatchError(profiles.ErrValidation))
	})

	Describe("EnsureActive", func() {
		It("keeps a valid active profile", func() {
			set.ActiveProfileId = pointer.FromAny(set.Profiles[2].Id)
			Expect(set.EnsureActive()).To(BeFalse())
			Expect(*set.ActiveProfileId).To(Equal(set.Profiles[2].Id))
		})

		It("prefers the self profile", func() {
			set.ActiveProfileId = pointer.FromAny("missing")
			Expect(set.EnsureActive()).To(BeTrue())
			Expect(*set.ActiveProfileId).To(Equal(set.Profiles[0].Id))
		})

		It("falls back to the first profile when there is no self profile", func() {
			set.Profiles = set.Profiles[1:]
			set.ActiveProfileId = nil
			Expect(set.EnsureActive()).To(BeTrue())
			Expect(*set.ActiveProfileId).To(Equal(set.Profiles[0].Id))
		})

		It("clears the active profile of an empty set", func() {
			set.Profiles = nil
			Expect(set.EnsureActive()).To(BeTrue())
			Expect(set.ActiveProfileId).To(BeNil())
		})
	})

	Describe("Remove", func() {
		It("reassigns the active profile to self", func() {
			removed := set.Profiles[1].Id
			set.ActiveProfileId = pointer.FromAny(removed)

			Expect(set.Remove(removed)).To(BeTrue())
			Expect(set.Profiles).To(HaveLen(2))
			Expect(*set.ActiveProfileId).To(Equal(set.Profiles[0].Id))
			Expect(set.Validate()).To(Succeed())
		})

		It("returns false for unknown profiles", func() {
			Expect(set.Remove("missing")).To(BeFalse())
			Expect(set.Profiles).To(HaveLen(3))
		})
	})

	It("returns independent clones", func() {
		clone := set.Clone()
		clone.Profiles[0].Name = "Changed"
		clone.Profiles[0].HealthInfo.ChronicConditions[0] = "changed"

		Expect(set.Profiles[0].Name).ToNot(Equal("Changed"))
		Expect(set.Profiles[0].HealthInfo.ChronicConditions[0]).ToNot(Equal("changed"))
	})
})

var _ = Describe("Update", func() {
	var profile profiles.Profile
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	BeforeEach(func() {
		profile = profilesTest.RandomProfile("acct-1")
	})

	It("applies the mutable fields", func() {
		update := profiles.Update{
			Name:      pointer.FromAny("  Grandpa Joe "),
			BloodType: pointer.FromAny(profiles.BloodTypeONegative),
		}

		updated := update.Apply(profile, now)
		Expect(updated.Name).To(Equal("Grandpa Joe"))
		Expect(*updated.BloodType).To(Equal(profiles.BloodTypeONegative))
		Expect(updated.UpdatedTime).To(Equal(now))
		Expect(updated.Email).To(Equal(profile.Email))
	})

	It("ignores the identity, ownership and creation fields", func() {
		created := profile.CreatedTime
		update := profiles.Update{
			Id:           pointer.FromAny("other"),
			AccountId:    pointer.FromAny("acct-2"),
			Relationship: pointer.FromAny(profiles.RelationshipSelf),
			CreatedTime:  &now,
		}

		updated := update.Apply(profile, now)
		Expect(updated.Id).To(Equal(profile.Id))
		Expect(updated.AccountId).To(Equal("acct-1"))
		Expect(updated.Relationship).To(Equal(profiles.RelationshipFamily))
		Expect(updated.CreatedTime).To(Equal(created))
	})

	It("does not change the permissions of the self profile", func() {
		self := profilesTest.RandomSelfProfile("acct-1")
		update := profiles.Update{Permissions: &profiles.Permissions{}}

		Expect(update.Apply(self, now).Permissions).To(Equal(profiles.FullPermissions()))
	})

	It("does not modify the original profile", func() {
		update := profiles.Update{HealthInfo: &profiles.HealthInfo{Allergies: []string{"peanuts"}}}
		update.Apply(profile, now)
		Expect(profile.HealthInfo.Allergies).To(BeEmpty())
	})
})

var _ = Describe("Create", func() {
	It("requires a name", func() {
		_, err := profiles.Create{Name: "   "}.Normalize()
		Expect(err).To(MatchError(profiles.ErrValidation))
	})

	DescribeTable("detects self profiles",
		func(create profiles.Create, expected profiles.Relationship) {
			normalized, err := create.Normalize()
			Expect(err).ToNot(HaveOccurred())
			Expect(normalized.Relationship).To(Equal(expected))
		},
		Entry("by relationship label", profiles.Create{Name: "John", RelationshipLabel: pointer.FromAny("Myself")}, profiles.RelationshipSelf),
		Entry("by name", profiles.Create{Name: "My Profile"}, profiles.RelationshipSelf),
		Entry("by explicit relationship", profiles.Create{Name: "John", Relationship: profiles.RelationshipSelf}, profiles.RelationshipSelf),
		Entry("family member", profiles.Create{Name: "Mom", RelationshipLabel: pointer.FromAny("Mother")}, profiles.RelationshipFamily),
	)

	It("grants full permissions to self regardless of the request", func() {
		normalized, err := profiles.Create{Name: "Me", Permissions: &profiles.Permissions{}}.Normalize()
		Expect(err).ToNot(HaveOccurred())
		Expect(*normalized.Permissions).To(Equal(profiles.FullPermissions()))
	})

	It("grants the reduced default set to family members", func() {
		normalized, err := profiles.Create{Name: "Mom"}.Normalize()
		Expect(err).ToNot(HaveOccurred())
		Expect(*normalized.Permissions).To(Equal(profiles.DefaultFamilyPermissions()))
	})
})
