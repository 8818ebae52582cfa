package main

import (
	"log"

	"cyclelens/api"
	"cyclelens/app"
	"cyclelens/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("invalid configuration:", err)
	}

	pipeline, err := app.New(cfg)
	if err != nil {
		log.Fatal("failed to build pipeline:", err)
	}

	server := api.NewServer(pipeline)

	// Configured input paths are optional; without them the server starts
	// empty and every data endpoint reports 409 until a dataset exists.
	if cfg.Inputs.PhysiologicalPath != "" && cfg.Inputs.JournalPath != "" {
		in, err := app.LoadInputs(app.InputPaths{
			Physiological: cfg.Inputs.PhysiologicalPath,
			Journal:       cfg.Inputs.JournalPath,
			Sleep:         cfg.Inputs.SleepPath,
			Workouts:      cfg.Inputs.WorkoutsPath,
		})
		if err != nil {
			log.Fatal("failed to read input tables:", err)
		}

		ds, err := pipeline.Process(in)
		if err != nil {
			log.Fatal("failed to process inputs:", err)
		}
		server.SetDataset(ds)
	}

	log.Printf("Starting cyclelens API on http://localhost:%s", cfg.Server.Port)
	log.Fatal(server.ListenAndServe(cfg.Server.Port))
}
