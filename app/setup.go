package app

import (
	"fmt"

	"github.com/smartmeet/meeting-assistant-api/api"
	"github.com/smartmeet/meeting-assistant-api/config"
	"github.com/smartmeet/meeting-assistant-api/database"
	"github.com/smartmeet/meeting-assistant-api/router"
	"github.com/smartmeet/meeting-assistant-api/services/cron"
)

// SetupAndRunServer boots the whole API: config, database, cron, routes.
func SetupAndRunServer() error {
	if err := config.LoadENV(); err != nil {
		return err
	}

	getEnv, err := config.Get()
	if err != nil {
		return err
	}

	store, err := database.StartGORM()
	if err != nil {
		print("Check whether Postgres is running or not\n")
		return err
	}

	if err := store.Init(); err != nil {
		print("Failed to initialize database tables\n")
		return err
	}

	// Background sweeps: stale meetings, expired verification tokens, old
	// soft-deleted rows.
	var cronManager *cron.CronManager
	if getEnv.CRON_ENABLED {
		cronManager = cron.NewCronManager(store.DB())
		if err := cronManager.Start(); err != nil {
			print("Warning: Failed to start cron jobs\n")
			print("Error: ", err.Error(), "\n")
			// Keep serving; sweeps are not load-bearing
		}
	}

	defer func() {
		if cronManager != nil {
			cronManager.Stop()
		}
		store.Close()
	}()

	server := api.NewAPIServer(fmt.Sprintf(":%d", getEnv.PORT))
	app := server.GetEngine()

	router.SetupRoutes(app, store)

	return server.Run()
}
