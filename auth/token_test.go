package auth_test

import (
	"fmt"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/hlra-health/profilesync/auth"
	authTest "github.com/hlra-health/profilesync/auth/test"
	"github.com/hlra-health/profilesync/config"
	"github.com/hlra-health/profilesync/errors"
	"github.com/hlra-health/profilesync/metrics"
)

var _ = Describe("Token source", func() {
	var refresher *authTest.MockRefresher
	var breaker *auth.CircuitBreaker
	var source *auth.TokenSource
	var now time.Time

	BeforeEach(func() {
		now = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		clock := func() time.Time { return now }
		cfg := &config.Config{
			BreakerThreshold:     3,
			BreakerFailureWindow: 30 * time.Second,
			BreakerCooldown:      60 * time.Second,
			RemoteRequestTimeout: time.Second,
		}

		refresher = authTest.NewMockRefresher(gomock.NewController(GinkgoT()))
		breaker = auth.NewCircuitBreaker(auth.BreakerParams{
			Config:  cfg,
			Logger:  zap.NewNop().Sugar(),
			Metrics: metrics.NewMetrics(),
			Clock:   clock,
		})
		source = auth.NewTokenSource(auth.TokenSourceParams{
			Config:    cfg,
			Refresher: refresher,
			Breaker:   breaker,
			Logger:    zap.NewNop().Sugar(),
			Clock:     clock,
		})
	})

	It("fails without a session", func() {
		_, err := source.Token()
		Expect(err).To(MatchError(auth.ErrSessionExpired))
	})

	It("returns a valid token without refreshing it", func() {
		source.SetToken(&oauth2.Token{AccessToken: "access", RefreshToken: "refresh", Expiry: now.Add(time.Hour)})

		token, err := source.Token()
		Expect(err).ToNot(HaveOccurred())
		Expect(token.AccessToken).To(Equal("access"))
	})

	It("takes the expiry from the access token", func() {
		access := authTest.SignedAccessToken("user-1", now.Add(time.Hour))
		source.SetToken(&oauth2.Token{AccessToken: access, RefreshToken: "refresh"})

		Expect(source.Current().Expiry.Equal(now.Add(time.Hour))).To(BeTrue())
	})

	It("refreshes tokens that are about to expire", func() {
		source.SetToken(&oauth2.Token{AccessToken: "access", RefreshToken: "refresh", Expiry: now.Add(10 * time.Second)})
		refresher.EXPECT().RefreshToken(gomock.Any(), "refresh").Return(&oauth2.Token{
			AccessToken: "access-2",
			Expiry:      now.Add(time.Hour),
		}, nil)

		token, err := source.Token()
		Expect(err).ToNot(HaveOccurred())
		Expect(token.AccessToken).To(Equal("access-2"))
		Expect(token.RefreshToken).To(Equal("refresh"))

		token, err = source.Token()
		Expect(err).ToNot(HaveOccurred())
		Expect(token.AccessToken).To(Equal("access-2"))
	})

	It("fails when there is no refresh token", func() {
		source.SetToken(&oauth2.Token{AccessToken: "access", Expiry: now.Add(-time.Minute)})

		_, err := source.Token()
		Expect(err).To(MatchError(auth.ErrSessionExpired))
	})

	It("stops refreshing after three consecutive failures until the cool-down elapses", func() {
		source.SetToken(&oauth2.Token{AccessToken: "access", RefreshToken: "refresh", Expiry: now.Add(-time.Minute)})
		refresher.EXPECT().RefreshToken(gomock.Any(), "refresh").Return(nil, errors.Unauthorized).Times(3)

		for i := 0; i < 3; i++ {
			_, err := source.Token()
			Expect(err).To(MatchError(errors.Unauthorized))
			Expect(err).ToNot(MatchError(auth.ErrBreakerOpen))
		}

		Expect(breaker.IsBroken()).To(BeTrue())
		_, err := source.Token()
		Expect(err).To(MatchError(auth.ErrBreakerOpen))

		now = now.Add(61 * time.Second)
		Expect(breaker.IsBroken()).To(BeFalse())
		Expect(breaker.Failures()).To(Equal(0))

		refresher.EXPECT().RefreshToken(gomock.Any(), "refresh").Return(&oauth2.Token{
			AccessToken: "access-2",
			Expiry:      now.Add(time.Hour),
		}, nil)
		token, err := source.Token()
		Expect(err).ToNot(HaveOccurred())
		Expect(token.AccessToken).To(Equal("access-2"))
	})

	It("resets the failure streak after a successful refresh", func() {
		source.SetToken(&oauth2.Token{AccessToken: "access", RefreshToken: "refresh", Expiry: now.Add(-time.Minute)})
		gomock.InOrder(
			refresher.EXPECT().RefreshToken(gomock.Any(), "refresh").Return(nil, fmt.Errorf("timeout")).Times(2),
			refresher.EXPECT().RefreshToken(gomock.Any(), "refresh").Return(&oauth2.Token{AccessToken: "access-2", RefreshToken: "refresh-2"}, nil),
		)

		for i := 0; i < 2; i++ {
			_, err := source.Token()
			Expect(err).To(HaveOccurred())
		}
		Expect(breaker.Failures()).To(Equal(2))

		token, err := source.Token()
		Expect(err).ToNot(HaveOccurred())
		Expect(token.RefreshToken).To(Equal("refresh-2"))
		Expect(breaker.Failures()).To(Equal(0))
	})

	It("clears the session", func() {
		source.SetToken(&oauth2.Token{AccessToken: "access", RefreshToken: "refresh"})
		source.Clear()
		Expect(source.Current()).To(BeNil())
	})

	It("parses the expiry of jwt access tokens", func() {
		expiry, ok := auth.ExpiryFromAccessToken(authTest.SignedAccessToken("user-1", now.Add(time.Hour)))
		Expect(ok).To(BeTrue())
		Expect(expiry.Equal(now.Add(time.Hour))).To(BeTrue())

		_, ok = auth.ExpiryFromAccessToken("opaque")
		Expect(ok).To(BeFalse())
	})
})
