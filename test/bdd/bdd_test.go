package bdd

import (
	"os"
	"testing"

	"github.com/andrescamacho/officesim-go/test/bdd/steps"
	"github.com/andrescamacho/officesim-go/test/helpers"
	"github.com/cucumber/godog"
)

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features/application", "features/adapters"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

func InitializeScenario(sc *godog.ScenarioContext) {
	// NOTE: PlacementScenario registered FIRST so its office and agent setup
	// steps take precedence over the store scenario's variants
	steps.InitializePlacementScenario(sc)
	steps.InitializeUpkeepScenario(sc)
	steps.InitializeAgentStoreScenario(sc)
}

func TestMain(m *testing.M) {
	// Initialize shared test database for all integration tests
	if err := helpers.InitializeSharedTestDB(); err != nil {
		panic("Failed to initialize shared test database: " + err.Error())
	}
	defer helpers.CloseSharedTestDB()

	os.Exit(m.Run())
}
