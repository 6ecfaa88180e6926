package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/samuelfneumann/gometaworld/environment/envconfig"
	"github.com/samuelfneumann/gometaworld/experiment"
	"github.com/samuelfneumann/gometaworld/experiment/tracker"
	"github.com/samuelfneumann/gometaworld/experiment/trackers"
	"github.com/samuelfneumann/gometaworld/utils/progressbar"
)

func main() {
	configFile := flag.String("config", "", "JSON environment configuration "+
		"(defaults to the disassemble task)")
	steps := flag.Uint("steps", 5_000, "number of steps to run")
	seed := flag.Uint64("seed", 192382, "random seed")
	returnsFile := flag.String("returns", "./returns.bin", "file to save "+
		"episodic returns to")
	dbFile := flag.String("db", "", "SQLite database to save per-step "+
		"reward diagnostics to (disabled if empty)")
	progress := flag.Bool("progress", false, "display a progress bar")
	flag.Parse()

	logger := log.New(os.Stderr, "gometaworld: ", log.LstdFlags)

	envConf := envconfig.NewConfig(envconfig.Sawyer, envconfig.Disassemble,
		0, 0.99, true)
	if *configFile != "" {
		var err error
		envConf, err = envconfig.Load(*configFile)
		if err != nil {
			log.Fatalf("could not load configuration: %v", err)
		}
	}
	confJSON, _ := json.Marshal(envConf)
	logger.Printf("configuration: %s", confJSON)

	// Trackers
	returns := trackers.NewReturn(*returnsFile)
	success := trackers.NewSuccess(*returnsFile + ".success")
	t := []tracker.Tracker{returns, success}
	if *dbFile != "" {
		info, err := trackers.NewInfoDB(*dbFile)
		if err != nil {
			log.Fatalf("could not open diagnostics database: %v", err)
		}
		logger.Printf("tracking diagnostics as run %v", info.RunID())
		t = append(t, info)
	}

	// Experiment
	c := experiment.Config{
		Type:     experiment.OnlineExp,
		MaxSteps: *steps,
		EnvConf:  envConf,
	}
	exp, err := c.CreateExp(*seed, logger, t...)
	if err != nil {
		log.Fatalf("could not create experiment: %v", err)
	}
	if online, ok := exp.(*experiment.Online); ok && *progress {
		online.ShowProgress(progressbar.NewManualProgressBar(os.Stdout, 50,
			int(*steps)))
	}

	if err := exp.Run(); err != nil {
		log.Fatalf("could not run experiment: %v", err)
	}
	if err := exp.Save(); err != nil {
		log.Fatalf("could not save data: %v", err)
	}

	data, err := tracker.LoadData(*returnsFile)
	if err != nil {
		log.Fatalf("could not load returns: %v", err)
	}
	if len(data) > 10 {
		data = data[len(data)-10:]
	}
	fmt.Println()
	fmt.Println("last returns:", data)
	fmt.Printf("success rate: %.2f\n", success.Rate())
}
