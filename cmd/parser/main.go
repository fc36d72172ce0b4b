package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/Ihor-MA/flats-data-analytics/internal"
	"github.com/Ihor-MA/flats-data-analytics/internal/configs"
	"github.com/Ihor-MA/flats-data-analytics/internal/core/domain"
)

const (
	exitOK     = 0
	exitFailed = 1
	exitUsage  = 2

	defaultStartPage = 1
	defaultEndPage   = 3
)

type options struct {
	pages   domain.PageRange
	envPath string
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("parser", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.IntVar(&opts.pages.Start, "start", defaultStartPage, "first index page to scrape (1-based)")
	fs.IntVar(&opts.pages.End, "end", defaultEndPage, "last index page to scrape (inclusive)")
	fs.StringVar(&opts.envPath, "env", "", "path to .env file (default: ./.env if present)")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if fs.NArg() > 0 {
		return opts, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if err := opts.pages.Validate(); err != nil {
		return opts, err
	}
	return opts, nil
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(stderr, "invalid arguments: %v\n", err)
		return exitUsage
	}

	appConfig, err := configs.LoadConfig(opts.envPath)
	if err != nil {
		fmt.Fprintf(stderr, "invalid configuration: %v\n", err)
		return exitUsage
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := internal.NewApp(ctx, appConfig)
	if err != nil {
		fmt.Fprintf(stderr, "failed to start: %v\n", err)
		return exitFailed
	}
	defer app.Close()

	if _, err := app.Run(ctx, opts.pages); err != nil {
		fmt.Fprintf(stderr, "run failed: %v\n", err)
		return exitFailed
	}

	fmt.Fprintln(stdout, "Data is written!")
	return exitOK
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
