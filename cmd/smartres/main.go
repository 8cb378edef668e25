package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dixieflatline76/SmartRes/config"
	"github.com/dixieflatline76/SmartRes/pkg/api"
	"github.com/dixieflatline76/SmartRes/pkg/resolution"
	"github.com/dixieflatline76/SmartRes/util"
	"github.com/dixieflatline76/SmartRes/util/log"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	listenAddr := flag.String("listen", "", "listen address, overrides the config file")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s %s\n", config.AppName, config.AppVersion)
		return
	}

	cfg := config.GetConfig()
	addr := cfg.ListenAddr
	if *listenAddr != "" {
		addr = *listenAddr
	}

	engine := resolution.NewEngine()
	engine.SetCacheTTL(time.Duration(cfg.CacheTTLMS) * time.Millisecond)

	server := api.NewServer(engine, addr, cfg.DivisibleBy)
	server.SetVersion(config.AppVersion)
	server.SetDefaultDropdown(cfg.DropdownRatio)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Printf("%s listening on %s", config.AppName, addr)
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Println("Shutting down")
		return server.Stop()
	})

	// Update check runs once in the background so startup never blocks on
	// the network.
	g.Go(func() error {
		result, err := util.CheckForUpdates(nil)
		if err != nil {
			log.Printf("Update check failed: %v", err)
			return nil
		}
		if result.UpdateAvailable {
			log.Printf("Update available: %s (current %s)", result.LatestVersion, result.CurrentVersion)
			server.SetUpdateInfo(&api.UpdateInfo{
				UpdateAvailable: true,
				LatestVersion:   result.LatestVersion,
				ReleaseURL:      result.ReleaseURL,
			})
		}
		return nil
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		log.Printf("Server exited: %v", err)
		os.Exit(1)
	}
}
