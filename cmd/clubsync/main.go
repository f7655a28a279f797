package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/common-nighthawk/go-figure"
	"github.com/goccy/go-json"
	"github.com/jrsteele09/go-club-sync/internal/app"
	"github.com/jrsteele09/go-club-sync/internal/config"
	"github.com/jrsteele09/go-club-sync/internal/logging"
	"github.com/rs/zerolog/log"
)

func main() {
	operation := flag.String("op", "all", "sync to run: members, activities or all")
	quiet := flag.Bool("quiet", false, "skip the banner")
	flag.Parse()

	if err := run(*operation, *quiet); err != nil {
		log.Error().Err(err).Msg("sync failed")
		os.Exit(1)
	}
}

func run(operation string, quiet bool) error {
	switch operation {
	case "all", app.OperationMembers, app.OperationActivities:
	default:
		return fmt.Errorf("unknown operation %q", operation)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	app.InitLogging(cfg, "console")
	if !quiet {
		displayAppname(cfg.GetService())
	}

	ctx := context.Background()
	svc, err := app.NewService(ctx, cfg)
	if err != nil {
		return err
	}

	if operation == "all" || operation == app.OperationMembers {
		ictx, _ := logging.WithInvocation(ctx, app.OperationMembers)
		result, err := svc.SyncMembers(ictx)
		if err != nil {
			return err
		}
		printResult(result)
	}
	if operation == "all" || operation == app.OperationActivities {
		ictx, _ := logging.WithInvocation(ctx, app.OperationActivities)
		result, err := svc.SyncActivities(ictx)
		if err != nil {
			return err
		}
		printResult(result)
	}
	return nil
}

func printResult(result any) {
	out, err := json.Marshal(result)
	if err != nil {
		return
	}
	fmt.Println(string(out))
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
