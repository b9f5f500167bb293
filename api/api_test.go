package api_test

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/hlra-health/profilesync/api"
	"github.com/hlra-health/profilesync/auth"
	authTest "github.com/hlra-health/profilesync/auth/test"
	"github.com/hlra-health/profilesync/config"
	"github.com/hlra-health/profilesync/errors"
	"github.com/hlra-health/profilesync/metrics"
	"github.com/hlra-health/profilesync/notifications"
	"github.com/hlra-health/profilesync/pointer"
	"github.com/hlra-health/profilesync/profiles"
	profilesTest "github.com/hlra-health/profilesync/profiles/test"
	"github.com/hlra-health/profilesync/session"
)

var _ = Describe("Api", func() {
	var now time.Time
	var profileService *profilesTest.MockService
	var users *authTest.MockUserService
	var inbox *notifications.Inbox
	var healthCheck *api.HealthCheck
	var sess *session.Session
	var server *echo.Echo
	var user *auth.User

	BeforeEach(func() {
		now = time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
		clock := func() time.Time { return now }
		logger := zap.NewNop()
		cfg := &config.Config{
			BreakerThreshold:          3,
			BreakerFailureWindow:      30 * time.Second,
			BreakerCooldown:           60 * time.Second,
			RemoteRequestTimeout:      time.Second,
			NotificationInboxCapacity: 10,
			NotificationDedupWindow:   5 * time.Minute,
		}

		ctrl := gomock.NewController(GinkgoT())
		profileService = profilesTest.NewMockService(ctrl)
		users = authTest.NewMockUserService(ctrl)
		breaker := auth.NewCircuitBreaker(auth.BreakerParams{Config: cfg, Logger: logger.Sugar(), Metrics: metrics.NewMetrics(), Clock: clock})
		tokenSource := auth.NewTokenSource(auth.TokenSourceParams{
			Config:    cfg,
			Refresher: authTest.NewMockRefresher(ctrl),
			Breaker:   breaker,
			Logger:    logger.Sugar(),
			Clock:     clock,
		})

		var err error
		inbox, err = notifications.NewInbox(notifications.Params{Config: cfg, Logger: logger.Sugar(), Metrics: metrics.NewMetrics(), Clock: clock})
		Expect(err).ToNot(HaveOccurred())
		sess = session.NewSession(session.Params{
			Profiles:    profileService,
			TokenSource: tokenSource,
			Breaker:     breaker,
			Users:       users,
			Inbox:       inbox,
			Logger:      logger.Sugar(),
			Clock:       clock,
		})

		handler := api.NewHandler(api.Params{
			Profiles:      profileService,
			Session:       sess,
			Notifications: inbox,
			Logger:        logger.Sugar(),
			Clock:         clock,
		})
		healthCheck = api.NewHealthCheck()
		server = api.NewServer(handler, healthCheck, sess, logger)
		user = &auth.User{Id: "user-1", Email: "user@example.com", Name: "User"}
	})

	request := func(method string, path string, body string) *httptest.ResponseRecorder {
		var reader io.Reader
		if body != "" {
			reader = strings.NewReader(body)
		}
		req := httptest.NewRequest(method, path, reader)
		if body != "" {
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		}
		rec := httptest.NewRecorder()
		server.ServeHTTP(rec, req)
		return rec
	}

	decode := func(rec *httptest.ResponseRecorder, v any) {
		Expect(json.Unmarshal(rec.Body.Bytes(), v)).To(Succeed())
	}

	login := func() {
		users.EXPECT().GetCurrentUser(gomock.Any()).Return(user, nil)
		profileService.EXPECT().Initialize(gomock.Any(), user.Id).Return(nil)
		rec := request(http.MethodPost, "/v1/session", `{"accessToken":"access","refreshToken":"refresh","expiresIn":3600}`)
		Expect(rec.Code).To(Equal(http.StatusOK))
	}

	Describe("Ready", func() {
		It("is unavailable until the service is ready", func() {
			Expect(request(http.MethodGet, "/ready", "").Code).To(Equal(http.StatusServiceUnavailable))
			healthCheck.SetReady(true)
			Expect(request(http.MethodGet, "/ready", "").Code).To(Equal(http.StatusOK))
		})
	})

	It("serves metrics without a session", func() {
		rec := request(http.MethodGet, "/metrics", "")
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring("go_goroutines"))
	})

	Describe("Session", func() {
		It("rejects requests without a session", func() {
			Expect(request(http.MethodGet, "/v1/profiles", "").Code).To(Equal(http.StatusUnauthorized))
			Expect(request(http.MethodGet, "/v1/session", "").Code).To(Equal(http.StatusUnauthorized))
		})

		It("signs in", func() {
			login()
			rec := request(http.MethodGet, "/v1/session", "")
			Expect(rec.Code).To(Equal(http.StatusOK))
			result := auth.User{}
			decode(rec, &result)
			Expect(result).To(Equal(*user))
		})

		It("requires an access token", func() {
			Expect(request(http.MethodPost, "/v1/session", `{}`).Code).To(Equal(http.StatusBadRequest))
		})

		It("returns unauthorized when the token is rejected", func() {
			users.EXPECT().GetCurrentUser(gomock.Any()).Return(nil, fmt.Errorf("rejected: %w", errors.Unauthorized))
			rec := request(http.MethodPost, "/v1/session", `{"accessToken":"access"}`)
			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		})

		It("signs out", func() {
			login()
			profileService.EXPECT().Reset()
			Expect(request(http.MethodDelete, "/v1/session", "").Code).To(Equal(http.StatusNoContent))
			Expect(sess.User()).To(BeNil())
		})

		It("expires the session when a request fails to authenticate", func() {
			login()
			profileService.EXPECT().CreateProfile(gomock.Any(), gomock.Any()).Return(nil, fmt.Errorf("create: %w", errors.Unauthorized))
			profileService.EXPECT().Reset()

			rec := request(http.MethodPost, "/v1/profiles", `{"name":"Jane"}`)
			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
			Expect(sess.User()).To(BeNil())

			list := inbox.List(notifications.Filter{})
			Expect(list).To(HaveLen(1))
			Expect(list[0].Title).To(Equal("Session Expired"))
		})
	})

	Describe("Profiles", func() {
		var self profiles.Profile

		BeforeEach(func() {
			login()
			self = profilesTest.RandomSelfProfile(user.Id)
		})

		It("lists the profiles", func() {
			family := profilesTest.RandomProfile(user.Id)
			profileService.EXPECT().GetProfiles().Return([]profiles.Profile{self, family})
			profileService.EXPECT().GetActiveProfile().Return(&self)

			rec := request(http.MethodGet, "/v1/profiles", "")
			Expect(rec.Code).To(Equal(http.StatusOK))
			result := api.ProfileList{}
			decode(rec, &result)
			Expect(result.Total).To(Equal(2))
			Expect(result.ActiveProfileId).To(Equal(&self.Id))
		})

		It("returns not found without an active profile", func() {
			profileService.EXPECT().GetActiveProfile().Return(nil)
			Expect(request(http.MethodGet, "/v1/profiles/active", "").Code).To(Equal(http.StatusNotFound))
		})

		It("returns the active profile", func() {
			profileService.EXPECT().GetActiveProfile().Return(&self)
			rec := request(http.MethodGet, "/v1/profiles/active", "")
			Expect(rec.Code).To(Equal(http.StatusOK))
			result := profiles.Profile{}
			decode(rec, &result)
			Expect(result.Id).To(Equal(self.Id))
		})

		It("switches the active profile", func() {
			profileService.EXPECT().SwitchProfile(gomock.Any(), self.Id).Return(&self, nil)
			rec := request(http.MethodPost, "/v1/profiles/active", fmt.Sprintf(`{"profileId":"%s"}`, self.Id))
			Expect(rec.Code).To(Equal(http.StatusOK))
		})

		It("requires a profile id to switch", func() {
			Expect(request(http.MethodPost, "/v1/profiles/active", `{}`).Code).To(Equal(http.StatusBadRequest))
		})

		It("returns not found when switching to an unknown profile", func() {
			profileService.EXPECT().SwitchProfile(gomock.Any(), "unknown").Return(nil, profiles.ErrNotFound)
			Expect(request(http.MethodPost, "/v1/profiles/active", `{"profileId":"unknown"}`).Code).To(Equal(http.StatusNotFound))
		})

		It("returns service unavailable when the switch is rolled back", func() {
			profileService.EXPECT().SwitchProfile(gomock.Any(), self.Id).Return(nil, fmt.Errorf("%w: down", profiles.ErrRemoteUnavailable))
			rec := request(http.MethodPost, "/v1/profiles/active", fmt.Sprintf(`{"profileId":"%s"}`, self.Id))
			Expect(rec.Code).To(Equal(http.StatusServiceUnavailable))
			Expect(sess.User()).ToNot(BeNil())
		})

		It("creates a profile", func() {
			created := profilesTest.RandomProfile(user.Id)
			profileService.EXPECT().CreateProfile(gomock.Any(), gomock.Any()).DoAndReturn(func(_ any, create profiles.Create) (*profiles.Profile, error) {
				Expect(create.Name).To(Equal("Jane"))
				Expect(create.RelationshipLabel).To(Equal(pointer.FromAny("Mother")))
				return &created, nil
			})

			rec := request(http.MethodPost, "/v1/profiles", `{"name":"Jane","relationshipLabel":"Mother"}`)
			Expect(rec.Code).To(Equal(http.StatusCreated))
		})

		It("shows a toast without storing a notification when a profile is created", func() {
			created := profilesTest.RandomProfile(user.Id)
			profileService.EXPECT().CreateProfile(gomock.Any(), gomock.Any()).Return(&created, nil)

			Expect(request(http.MethodPost, "/v1/profiles", `{"name":"Jane"}`).Code).To(Equal(http.StatusCreated))
			Expect(inbox.List(notifications.Filter{})).To(BeEmpty())

			rec := request(http.MethodGet, "/v1/notifications/toasts", "")
			Expect(rec.Code).To(Equal(http.StatusOK))
			result := api.ToastList{}
			decode(rec, &result)
			Expect(result.Toasts).To(HaveLen(1))
			Expect(result.Toasts[0].Type).To(Equal(notifications.TypeProfileUpdate))
			Expect(result.Toasts[0].ProfileId).To(Equal(&created.Id))
			Expect(result.Toasts[0].Message).To(ContainSubstring(created.Name))

			decode(request(http.MethodGet, "/v1/notifications/toasts", ""), &result)
			Expect(result.Toasts).To(BeEmpty())
		})

		It("returns bad request for an invalid profile", func() {
			profileService.EXPECT().CreateProfile(gomock.Any(), gomock.Any()).Return(nil, fmt.Errorf("%w: profile name is required", profiles.ErrValidation))
			rec := request(http.MethodPost, "/v1/profiles", `{"name":""}`)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			Expect(rec.Body.String()).To(ContainSubstring("profile name is required"))
		})

		It("updates a profile", func() {
			profileService.EXPECT().UpdateProfile(gomock.Any(), self.Id, gomock.Any()).DoAndReturn(func(_ any, _ string, update profiles.Update) (*profiles.Profile, error) {
				Expect(update.Name).To(Equal(pointer.FromAny("Me")))
				return &self, nil
			})
			rec := request(http.MethodPut, "/v1/profiles/"+self.Id, `{"name":"Me"}`)
			Expect(rec.Code).To(Equal(http.StatusOK))
		})

		It("refuses to delete the self profile", func() {
			profileService.EXPECT().GetProfiles().Return([]profiles.Profile{self})
			profileService.EXPECT().DeleteProfile(gomock.Any(), self.Id).Return(profiles.ErrCannotDeleteSelf)
			Expect(request(http.MethodDelete, "/v1/profiles/"+self.Id, "").Code).To(Equal(http.StatusForbidden))
		})

		It("deletes a profile", func() {
			family := profilesTest.RandomProfile(user.Id)
			profileService.EXPECT().GetProfiles().Return([]profiles.Profile{self, family})
			profileService.EXPECT().DeleteProfile(gomock.Any(), family.Id).Return(nil)
			Expect(request(http.MethodDelete, "/v1/profiles/"+family.Id, "").Code).To(Equal(http.StatusNoContent))

			toasts := inbox.TakeToasts()
			Expect(toasts).To(HaveLen(1))
			Expect(toasts[0].Message).To(Equal(fmt.Sprintf("The profile of %s was deleted.", family.Name)))
		})

		It("returns the health insights of the active profile", func() {
			insights := profiles.NewHealthInsights(self, now)
			profileService.EXPECT().GetHealthInsights().Return(&insights)
			rec := request(http.MethodGet, "/v1/profiles/active/insights", "")
			Expect(rec.Code).To(Equal(http.StatusOK))
			result := profiles.HealthInsights{}
			decode(rec, &result)
			Expect(result.ProfileId).To(Equal(self.Id))
		})

		It("returns not found without insights", func() {
			profileService.EXPECT().GetHealthInsights().Return(nil)
			Expect(request(http.MethodGet, "/v1/profiles/active/insights", "").Code).To(Equal(http.StatusNotFound))
		})

		It("checks a permission of the active profile", func() {
			profileService.EXPECT().HasPermission(profiles.CapabilityShareReports).Return(true)
			rec := request(http.MethodGet, "/v1/profiles/active/permissions/share_reports", "")
			Expect(rec.Code).To(Equal(http.StatusOK))
			result := api.PermissionCheck{}
			decode(rec, &result)
			Expect(result).To(Equal(api.PermissionCheck{Capability: "share_reports", Granted: true}))
		})
	})

	Describe("Notifications", func() {
		var alert notifications.Notification
		var reminder notifications.Notification

		BeforeEach(func() {
			login()
			alert, _ = inbox.Add(notifications.NewHealthAlert(user.Id, "first", "Glucose", "250", notifications.StatusCritical, "report", now))
			now = now.Add(time.Second)
			reminder, _ = inbox.Add(notifications.NewCheckupReminder(user.Id, "second", 200, now))
		})

		It("lists the notifications", func() {
			rec := request(http.MethodGet, "/v1/notifications", "")
			Expect(rec.Code).To(Equal(http.StatusOK))
			result := api.NotificationList{}
			decode(rec, &result)
			Expect(result.Total).To(Equal(2))
			Expect(result.UnreadCount).To(Equal(2))
			Expect(result.HasCritical).To(BeTrue())
			Expect(result.Notifications[0].Id).To(Equal(reminder.Id))
		})

		It("filters by profile", func() {
			rec := request(http.MethodGet, "/v1/notifications?profileId=second", "")
			result := api.NotificationList{}
			decode(rec, &result)
			Expect(result.Total).To(Equal(1))
			Expect(result.HasCritical).To(BeFalse())
		})

		It("rejects an invalid unread filter", func() {
			Expect(request(http.MethodGet, "/v1/notifications?unreadOnly=maybe", "").Code).To(Equal(http.StatusBadRequest))
		})

		It("marks a notification as read", func() {
			Expect(request(http.MethodPost, "/v1/notifications/"+alert.Id+"/read", "").Code).To(Equal(http.StatusNoContent))
			Expect(inbox.UnreadCount(nil)).To(Equal(1))
		})

		It("returns not found for an unknown notification", func() {
			Expect(request(http.MethodPost, "/v1/notifications/unknown/read", "").Code).To(Equal(http.StatusNotFound))
		})

		It("marks all notifications as read", func() {
			rec := request(http.MethodPost, "/v1/notifications/read", "")
			Expect(rec.Code).To(Equal(http.StatusOK))
			result := api.MarkedRead{}
			decode(rec, &result)
			Expect(result.Count).To(Equal(2))
		})

		It("creates a health alert for a profile", func() {
			self := profilesTest.RandomSelfProfile(user.Id)
			profileService.EXPECT().GetProfiles().Return([]profiles.Profile{self}).AnyTimes()

			body := fmt.Sprintf(`{"type":"health_alert","profileId":"%s","parameter":"Cholesterol","value":"290","status":"critical","reportId":"r-9"}`, self.Id)
			rec := request(http.MethodPost, "/v1/notifications", body)
			Expect(rec.Code).To(Equal(http.StatusCreated))
			result := api.CreatedNotification{}
			decode(rec, &result)
			Expect(result.Accepted).To(BeTrue())
			Expect(result.Notification.Priority).To(Equal(notifications.PriorityHigh))
			Expect(inbox.List(notifications.Filter{ProfileId: &self.Id})).To(HaveLen(1))

			rec = request(http.MethodPost, "/v1/notifications", body)
			Expect(rec.Code).To(Equal(http.StatusOK))
			decode(rec, &result)
			Expect(result.Accepted).To(BeFalse())
		})

		It("rejects a notification for an unknown profile", func() {
			profileService.EXPECT().GetProfiles().Return([]profiles.Profile{})
			body := `{"type":"report_ready","profileId":"unknown","reportId":"r-1","filename":"labs.pdf"}`
			Expect(request(http.MethodPost, "/v1/notifications", body).Code).To(Equal(http.StatusNotFound))
		})

		It("rejects an unsupported notification type", func() {
			body := `{"type":"system","profileId":"first"}`
			Expect(request(http.MethodPost, "/v1/notifications", body).Code).To(Equal(http.StatusBadRequest))
		})

		It("dismisses a notification", func() {
			Expect(request(http.MethodDelete, "/v1/notifications/"+alert.Id, "").Code).To(Equal(http.StatusNoContent))
			Expect(inbox.List(notifications.Filter{})).To(HaveLen(1))
		})
	})
})
