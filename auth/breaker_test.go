package auth_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"go.uber.org/zap"

	"github.com/hlra-health/profilesync/auth"
	"github.com/hlra-health/profilesync/config"
	"github.com/hlra-health/profilesync/metrics"
)

var _ = Describe("Circuit breaker", func() {
	var breaker *auth.CircuitBreaker
	var now time.Time

	BeforeEach(func() {
		now = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		breaker = auth.NewCircuitBreaker(auth.BreakerParams{
			Config: &config.Config{
				BreakerThreshold:     3,
				BreakerFailureWindow: 30 * time.Second,
				BreakerCooldown:      60 * time.Second,
			},
			Logger:  zap.NewNop().Sugar(),
			Metrics: metrics.NewMetrics(),
			Clock:   func() time.Time { return now },
		})
	})

	It("starts closed", func() {
		Expect(breaker.IsBroken()).To(BeFalse())
		Expect(breaker.State()).To(Equal(auth.StateClosed))
		Expect(breaker.Failures()).To(Equal(0))
	})

	It("opens after the threshold is reached", func() {
		breaker.RecordFailure()
		breaker.RecordFailure()
		Expect(breaker.IsBroken()).To(BeFalse())

		breaker.RecordFailure()
		Expect(breaker.IsBroken()).To(BeTrue())
		Expect(breaker.State()).To(Equal(auth.StateOpen))
	})

	It("closes after the cool-down and clears the failures", func() {
		for i := 0; i < 3; i++ {
			breaker.RecordFailure()
		}
		Expect(breaker.IsBroken()).To(BeTrue())

		now = now.Add(60 * time.Second)
		Expect(breaker.IsBroken()).To(BeTrue())

		now = now.Add(time.Second)
		Expect(breaker.IsBroken()).To(BeFalse())
		Expect(breaker.Failures()).To(Equal(0))
	})

	It("only closes when IsBroken is called", func() {
		breaker.Trip()
		now = now.Add(2 * time.Minute)
		Expect(breaker.State()).To(Equal(auth.StateOpen))
		Expect(breaker.IsBroken()).To(BeFalse())
		Expect(breaker.State()).To(Equal(auth.StateClosed))
	})

	It("starts a new streak when the failures are too far apart", func() {
		breaker.RecordFailure()
		breaker.RecordFailure()
		now = now.Add(31 * time.Second)
		breaker.RecordFailure()

		Expect(breaker.IsBroken()).To(BeFalse())
		Expect(breaker.Failures()).To(Equal(1))
	})

	It("resets the streak on success", func() {
		breaker.RecordFailure()
		breaker.RecordFailure()
		breaker.RecordSuccess()
		breaker.RecordFailure()

		Expect(breaker.IsBroken()).To(BeFalse())
		Expect(breaker.Failures()).To(Equal(1))
	})

	Describe("Trip", func() {
		It("opens the breaker immediately", func() {
			breaker.Trip()
			Expect(breaker.IsBroken()).To(BeTrue())
		})

		It("restarts the cool-down when already open", func() {
			breaker.Trip()
			now = now.Add(45 * time.Second)
			breaker.Trip()

			now = now.Add(45 * time.Second)
			Expect(breaker.IsBroken()).To(BeTrue())

			now = now.Add(16 * time.Second)
			Expect(breaker.IsBroken()).To(BeFalse())
		})
	})

	Describe("Reset", func() {
		It("closes the breaker regardless of the cool-down", func() {
			breaker.Trip()
			breaker.Reset()
			Expect(breaker.IsBroken()).To(BeFalse())
			Expect(breaker.Failures()).To(Equal(0))
		})
	})

	It("uses the defaults without configuration", func() {
		breaker = auth.NewCircuitBreaker(auth.BreakerParams{
			Logger: zap.NewNop().Sugar(),
			Clock:  func() time.Time { return now },
		})
		for i := 0; i < auth.DefaultBreakerThreshold; i++ {
			breaker.RecordFailure()
		}
		Expect(breaker.IsBroken()).To(BeTrue())
	})
})
