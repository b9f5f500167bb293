package notifications_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/hlra-health/profilesync/notifications"
)

var _ = Describe("Request", func() {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	It("builds a health alert", func() {
		n, err := notifications.Request{
			Type:      notifications.TypeHealthAlert,
			ProfileId: "profile",
			Parameter: "Glucose",
			Value:     "250",
			Status:    notifications.StatusCritical,
			ReportId:  "report",
		}.Build("account", now)
		Expect(err).ToNot(HaveOccurred())
		Expect(n.Type).To(Equal(notifications.TypeHealthAlert))
		Expect(n.AccountId).To(Equal("account"))
		Expect(n.Priority).To(Equal(notifications.PriorityHigh))
	})

	It("builds a checkup reminder", func() {
		n, err := notifications.Request{Type: notifications.TypeCheckupReminder, ProfileId: "profile", DaysSinceLast: 200}.Build("account", now)
		Expect(err).ToNot(HaveOccurred())
		data, err := notifications.DecodeData[notifications.CheckupReminderData](n)
		Expect(err).ToNot(HaveOccurred())
		Expect(data.DaysSinceLast).To(Equal(200))
	})

	It("builds a report ready notification", func() {
		n, err := notifications.Request{Type: notifications.TypeReportReady, ProfileId: "profile", ReportId: "r-1", Filename: "labs.pdf"}.Build("account", now)
		Expect(err).ToNot(HaveOccurred())
		Expect(n.Message).To(ContainSubstring("labs.pdf"))
	})

	DescribeTable("rejects incomplete requests",
		func(request notifications.Request) {
			_, err := request.Build("account", now)
			Expect(err).To(MatchError(notifications.ErrInvalidRequest))
		},
		Entry("without a profile", notifications.Request{Type: notifications.TypeCheckupReminder, DaysSinceLast: 10}),
		Entry("health alert without a value", notifications.Request{Type: notifications.TypeHealthAlert, ProfileId: "p", Parameter: "Glucose", Status: "high", ReportId: "r"}),
		Entry("reminder without days", notifications.Request{Type: notifications.TypeCheckupReminder, ProfileId: "p"}),
		Entry("report without a filename", notifications.Request{Type: notifications.TypeReportReady, ProfileId: "p", ReportId: "r"}),
		Entry("profile updates", notifications.Request{Type: notifications.TypeProfileUpdate, ProfileId: "p"}),
	)
})
