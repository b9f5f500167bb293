package test

import (
	"math/rand"

	"github.com/jaswdr/faker"
	"github.com/onsi/ginkgo/v2"
)

var (
	Faker  = faker.NewWithSeed(Source)
	Source = rand.NewSource(ginkgo.GinkgoRandomSeed())
)

// RandomAccountId returns an account id that is valid for every cache backend
func RandomAccountId() string {
	return Faker.UUID().V4()
}
