// Command seed hydrates the Postgres procedure table from the embedded
// catalog. Run it once after provisioning a database; upserts make it safe
// to re-run after catalog updates.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/heartclinicmelbourne/patient-resources/backend/internal/adapters/catalog"
	"github.com/heartclinicmelbourne/patient-resources/backend/internal/adapters/database"
	"github.com/heartclinicmelbourne/patient-resources/backend/internal/domain/repositories"
	"github.com/heartclinicmelbourne/patient-resources/backend/internal/infrastructure/clients/postgres"
	"github.com/heartclinicmelbourne/patient-resources/backend/internal/infrastructure/observability"
	"github.com/heartclinicmelbourne/patient-resources/backend/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger("patient-resources-seed", cfg.Server.Env)
	logger := observability.GetLogger()

	staticCatalog, err := catalog.NewStaticAdapter()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load embedded catalog")
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	records, err := staticCatalog.List(ctx, repositories.ProcedureFilter{})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to list embedded procedures")
	}

	adapter := database.NewProcedureAdapter(pgClient)
	for _, record := range records {
		if err := adapter.Upsert(ctx, record); err != nil {
			logger.Fatal().Err(err).Str("procedure_id", record.ID).Msg("Upsert failed")
		}
		logger.Info().Str("procedure_id", record.ID).Msg("Seeded procedure")
	}

	logger.Info().Int("count", len(records)).Msg("Catalog seed complete")
}
