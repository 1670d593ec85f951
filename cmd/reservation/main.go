package main

import (
	"context"
	"fmt"
	"os"

	"railway-reservation/config"
	"railway-reservation/internal/handler"
	"railway-reservation/internal/repository"
	"railway-reservation/internal/service"
	"railway-reservation/pkg/logger"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	flagSet := pflag.NewFlagSet("reservation", pflag.ContinueOnError)
	flagSet.StringVar(&cfg.Storage.DataFile, "data", cfg.Storage.DataFile, "path to the ticket data file")
	flagSet.IntVar(&cfg.Storage.MaxSeats, "seats", cfg.Storage.MaxSeats, "number of seats on the train")
	flagSet.StringVar(&cfg.Log.Level, "log-level", cfg.Log.Level, "log level (debug, info, warn, error)")
	flagSet.StringVar(&cfg.Log.Output, "log-output", cfg.Log.Output, "write JSON log records to this file (or stderr)")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		fmt.Fprintln(os.Stdout, "Usage: reservation [flags]")
		flagSet.PrintDefaults()
		return nil
	}
	if cfg.Storage.MaxSeats <= 0 {
		return fmt.Errorf("--seats must be positive, got %d", cfg.Storage.MaxSeats)
	}

	if err := logger.Setup(cfg.Log.Level, cfg.Log.Output); err != nil {
		return fmt.Errorf("setup logger: %w", err)
	}
	defer logger.L.Sync()

	storage := repository.NewFileTicketStorage(cfg.Storage.DataFile)
	logger.WithComponent("main").Info("starting reservation console",
		zap.String("data_file", storage.Path()),
		zap.Int("max_seats", cfg.Storage.MaxSeats),
	)

	ticketService := service.NewTicketService(storage, &service.TicketServiceConfig{
		MaxSeats: cfg.Storage.MaxSeats,
	})
	console := handler.NewConsoleHandler(ticketService, os.Stdin, os.Stdout)

	return console.Run(context.Background())
}
