package notifications_test

import (
	"fmt"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/hlra-health/profilesync/config"
	"github.com/hlra-health/profilesync/metrics"
	"github.com/hlra-health/profilesync/notifications"
	"github.com/hlra-health/profilesync/pointer"
)

var _ = Describe("Inbox", func() {
	var inbox *notifications.Inbox
	var now time.Time

	reminder := func(profileId string, days int) notifications.Notification {
		return notifications.NewCheckupReminder("account", profileId, days, now)
	}

	BeforeEach(func() {
		now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		var err error
		inbox, err = notifications.NewInbox(notifications.Params{
			Config: &config.Config{
				NotificationInboxCapacity: 3,
				NotificationDedupWindow:   5 * time.Minute,
			},
			Logger:  zap.NewNop().Sugar(),
			Metrics: metrics.NewMetrics(),
			Clock:   func() time.Time { return now },
		})
		Expect(err).ToNot(HaveOccurred())
	})

	It("lists notifications newest first", func() {
		first, ok := inbox.Add(reminder("profile", 1))
		Expect(ok).To(BeTrue())
		now = now.Add(time.Second)
		second, ok := inbox.Add(reminder("profile", 2))
		Expect(ok).To(BeTrue())

		list := inbox.List(notifications.Filter{})
		Expect(list).To(HaveLen(2))
		Expect(list[0].Id).To(Equal(second.Id))
		Expect(list[1].Id).To(Equal(first.Id))
	})

	It("evicts the oldest notification when full", func() {
		var ids []string
		for i := 0; i < 4; i++ {
			n, ok := inbox.Add(reminder("profile", i))
			Expect(ok).To(BeTrue())
			ids = append(ids, n.Id)
			now = now.Add(time.Second)
		}

		list := inbox.List(notifications.Filter{})
		Expect(list).To(HaveLen(3))
		for _, n := range list {
			Expect(n.Id).ToNot(Equal(ids[0]))
		}
	})

	It("drops duplicates", func() {
		_, ok := inbox.Add(reminder("profile", 1))
		Expect(ok).To(BeTrue())
		_, ok = inbox.Add(reminder("profile", 1))
		Expect(ok).To(BeFalse())
		Expect(inbox.List(notifications.Filter{})).To(HaveLen(1))
	})

	It("drops expired notifications", func() {
		n := reminder("profile", 1)
		n.ExpirationTime = pointer.FromAny(now.Add(-time.Second))
		_, ok := inbox.Add(n)
		Expect(ok).To(BeFalse())
		Expect(inbox.List(notifications.Filter{})).To(BeEmpty())
	})

	It("delivers notifications that don't persist without storing them", func() {
		_, ok := inbox.Add(notifications.NewProfileUpdate("account", "profile", "Jane", "updated", now))
		Expect(ok).To(BeTrue())
		Expect(inbox.List(notifications.Filter{})).To(BeEmpty())
	})

	It("queues toasts until they are taken", func() {
		update, ok := inbox.Add(notifications.NewProfileUpdate("account", "profile", "Jane", "updated", now))
		Expect(ok).To(BeTrue())
		silent := reminder("profile", 3)
		silent.ShowToast = false
		_, ok = inbox.Add(silent)
		Expect(ok).To(BeTrue())

		toasts := inbox.TakeToasts()
		Expect(toasts).To(HaveLen(1))
		Expect(toasts[0].Id).To(Equal(update.Id))
		Expect(inbox.TakeToasts()).To(BeEmpty())
		Expect(inbox.List(notifications.Filter{})).To(HaveLen(1))
	})

	It("keeps only the newest toasts", func() {
		for i := 0; i < 5; i++ {
			_, ok := inbox.Add(reminder("profile", i))
			Expect(ok).To(BeTrue())
		}
		toasts := inbox.TakeToasts()
		Expect(toasts).To(HaveLen(3))
		Expect(toasts[0].Message).To(ContainSubstring("2 days"))
	})

	It("skips toasts that expired before they were taken", func() {
		_, ok := inbox.Add(reminder("profile", 1))
		Expect(ok).To(BeTrue())
		now = now.Add(8 * 24 * time.Hour)
		Expect(inbox.TakeToasts()).To(BeEmpty())
	})

	It("doesn't share state with the caller", func() {
		n, _ := inbox.Add(reminder("profile", 1))
		n.Data["days_since_last"] = 99
		list := inbox.List(notifications.Filter{})
		Expect(list[0].Data["days_since_last"]).To(Equal(1))
	})

	It("filters by profile and unread", func() {
		first, _ := inbox.Add(reminder("first", 1))
		inbox.Add(reminder("second", 1))
		Expect(inbox.MarkRead(first.Id)).To(Succeed())

		Expect(inbox.List(notifications.Filter{ProfileId: pointer.FromAny("first")})).To(HaveLen(1))
		Expect(inbox.List(notifications.Filter{UnreadOnly: true})).To(HaveLen(1))
		Expect(inbox.UnreadCount(nil)).To(Equal(1))
		Expect(inbox.UnreadCount(pointer.FromAny("first"))).To(Equal(0))
	})

	It("marks a notification as read", func() {
		n, _ := inbox.Add(reminder("profile", 1))
		now = now.Add(time.Minute)
		Expect(inbox.MarkRead(n.Id)).To(Succeed())

		list := inbox.List(notifications.Filter{})
		Expect(list[0].Read).To(BeTrue())
		Expect(list[0].ReadTime).To(Equal(pointer.FromAny(now)))
	})

	It("returns not found when marking an unknown notification as read", func() {
		Expect(inbox.MarkRead("unknown")).To(MatchError(notifications.ErrNotFound))
	})

	It("marks all notifications of a profile as read", func() {
		inbox.Add(reminder("first", 1))
		inbox.Add(reminder("first", 2))
		inbox.Add(reminder("second", 1))

		Expect(inbox.MarkAllRead(pointer.FromAny("first"))).To(Equal(2))
		Expect(inbox.UnreadCount(nil)).To(Equal(1))
		Expect(inbox.MarkAllRead(nil)).To(Equal(1))
		Expect(inbox.UnreadCount(nil)).To(Equal(0))
	})

	It("hides dismissed notifications", func() {
		n, _ := inbox.Add(reminder("profile", 1))
		Expect(inbox.Dismiss(n.Id)).To(Succeed())
		Expect(inbox.List(notifications.Filter{})).To(BeEmpty())
		Expect(inbox.Dismiss(n.Id)).To(MatchError(notifications.ErrNotFound))
	})

	It("removes expired notifications", func() {
		inbox.Add(reminder("profile", 1))
		inbox.Add(notifications.NewHealthAlert("account", "profile", "Glucose", "250", notifications.StatusCritical, "report", now))

		now = now.Add(8 * 24 * time.Hour)
		Expect(inbox.List(notifications.Filter{})).To(HaveLen(1))
		Expect(inbox.CleanupExpired()).To(Equal(1))
		Expect(inbox.List(notifications.Filter{})).To(HaveLen(1))
	})

	It("clears the notifications and the seen content", func() {
		for i := 0; i < 3; i++ {
			inbox.Add(notifications.NewReportReady("account", "profile", fmt.Sprintf("report-%d", i), fmt.Sprintf("labs-%d.pdf", i), now))
		}
		inbox.Clear()
		Expect(inbox.List(notifications.Filter{})).To(BeEmpty())

		_, ok := inbox.Add(notifications.NewReportReady("account", "profile", "report-0", "labs-0.pdf", now))
		Expect(ok).To(BeTrue())
	})
})
