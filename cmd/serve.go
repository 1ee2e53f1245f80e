package cmd

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"minicourse/database"
	"minicourse/routers"
	"minicourse/utils"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run migrations and serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer rt.close()

	if err := database.Migrate(rt.db, rt.log); err != nil {
		return err
	}

	scheduler, err := utils.InitializeAuditScheduler(rt.cfg.AuditSchedule, rt.content, rt.log)
	if err != nil {
		return err
	}
	if scheduler != nil {
		defer scheduler.Stop()
	}

	app := routers.NewApp(routers.Deps{
		Config:    rt.cfg,
		Log:       rt.log,
		DB:        rt.db,
		Hierarchy: rt.hierarchy,
		Content:   rt.content,
		Generator: rt.generator,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rt.log.Info("Server is running", "port", rt.cfg.Port)
		return app.Listen(":" + rt.cfg.Port)
	})
	g.Go(func() error {
		<-gctx.Done()
		rt.log.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return app.ShutdownWithContext(shutdownCtx)
	})
	return g.Wait()
}
