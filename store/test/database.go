package test

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/hlra-health/profilesync/store"
	"github.com/hlra-health/profilesync/test"
)

const (
	mongoTestHostEnvVar = "PROFILESYNC_TEST_MONGO_HOST"
	mongoTestHost       = "mongodb://127.0.0.1:27017"
	mongoTimeout        = time.Second * 5
)

var (
	database *mongo.Database
)

// SetupDatabase connects to the test database. When no server is reachable the
// database is left unset and tests that need it are expected to call SkipIfUnavailable.
func SetupDatabase() {
	host := mongoTestHost
	if h, ok := os.LookupEnv(mongoTestHostEnvVar); ok && h != "" {
		host = h
	}

	client, err := store.NewClient(host)
	Expect(err).ToNot(HaveOccurred())

	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return
	}

	databaseName := fmt.Sprintf("profilesync_test_%s_%d", test.Faker.Letter(), ginkgo.GinkgoParallelProcess())
	database = client.Database(databaseName)
}

func TeardownDatabase() {
	if database == nil {
		return
	}
	err := database.Drop(context.Background())
	Expect(err).ToNot(HaveOccurred())

	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()
	Expect(database.Client().Disconnect(ctx)).ToNot(HaveOccurred())
	database = nil
}

func SkipIfUnavailable() {
	if database == nil {
		ginkgo.Skip("mongo is not available")
	}
}

func GetTestDatabase() *mongo.Database {
	Expect(database).ToNot(BeNil())
	return database
}
