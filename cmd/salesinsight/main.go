// Command salesinsight answers natural-language questions about recent sales.
//
//	salesinsight [-refresh] [-top N] "What were our best-selling items yesterday?"
//	salesinsight -serve
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/0xcro3dile/salesinsight-go/internal/config"
	"github.com/0xcro3dile/salesinsight-go/internal/domain/entities"
	httpserver "github.com/0xcro3dile/salesinsight-go/internal/infrastructure/http"
	"github.com/0xcro3dile/salesinsight-go/internal/observability"
)

type options struct {
	refresh  bool
	top      int
	serve    bool
	question string
}

var errUsage = errors.New("usage")

func parseArgs(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("salesinsight", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.BoolVar(&opts.refresh, "refresh", false, "bypass the response cache and download fresh orders")
	fs.IntVar(&opts.top, "top", 0, "number of context snippets (0 uses RETRIEVAL_TOP_K)")
	fs.BoolVar(&opts.serve, "serve", false, "run the HTTP server instead of answering one question")
	fs.Usage = func() {
		fmt.Fprintln(stderr, `usage: salesinsight [-refresh] [-top N] "question"`)
		fmt.Fprintln(stderr, "       salesinsight -serve")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	opts.question = strings.TrimSpace(strings.Join(fs.Args(), " "))
	if !opts.serve && opts.question == "" {
		fs.Usage()
		return opts, errUsage
	}
	return opts, nil
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseArgs(args, stderr)
	if err != nil {
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return 1
	}

	logger, err := observability.NewLogger(cfg.Logging.Level)
	if err != nil {
		fmt.Fprintf(stderr, "logger: %v\n", err)
		return 1
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, logger, opts.serve)
	if err != nil {
		logger.Error("failed to start", zap.Error(err))
		return 1
	}
	defer a.Close()

	if opts.serve {
		var serverOpts []httpserver.Option
		if a.watcher != nil {
			serverOpts = append(serverOpts, httpserver.WithCacheWatch(a.watcher, cfg.Cache.Dir, a.orders))
		}
		server := httpserver.NewServer(a.queries, cfg.HTTP.Addr, logger, serverOpts...)
		if err := server.Start(ctx); err != nil {
			logger.Error("server stopped", zap.Error(err))
			return 1
		}
		return 0
	}

	resp, err := a.queries.Query(ctx, &entities.ChatRequest{
		Question:     opts.question,
		ForceRefresh: opts.refresh,
		TopK:         opts.top,
	})
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	fmt.Fprintln(stdout, resp.Answer)
	return 0
}
