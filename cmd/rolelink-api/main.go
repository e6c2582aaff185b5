package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"

	"rolelink/internal/platform/config"
	"rolelink/internal/platform/logger"
	phttp "rolelink/internal/platform/net/http"
	"rolelink/internal/platform/store"

	auditmod "rolelink/internal/services/audit/module"
	idmod "rolelink/internal/services/identity/module"
	idsvc "rolelink/internal/services/identity/service"
	regmod "rolelink/internal/services/register/module"
	regsvc "rolelink/internal/services/register/service"
)

func main() {
	logger.Init(logger.FromEnv())
	l := logger.Get()

	root := config.New()
	apiCfg := root.Prefix("API_")
	pgCfg := root.Prefix("PGSQL_")
	chCfg := root.Prefix("CLICKHOUSE_")
	rdCfg := root.Prefix("REDIS_")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, store.Config{
		PG: store.PGConfig{
			Enabled:  true,
			URL:      pgCfg.MustString("DBURL"),
			MaxConns: int32(pgCfg.MayInt("MAX_CONNS", 4)),
		},
		CH: store.CHConfig{
			Enabled: chCfg.MayBool("ENABLED", false),
			URL:     chCfg.MayString("DBURL", ""),
		},
		RD: store.RDConfig{
			Enabled:  rdCfg.MayBool("ENABLED", false),
			Addr:     rdCfg.MayString("ADDR", "localhost:6379"),
			Password: rdCfg.MayString("PASSWORD", ""),
			DB:       rdCfg.MayInt("DB", 0),
		},
	}, store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	audit, err := auditmod.New(ctx, st)
	if err != nil {
		l.Panic().Err(err).Msg("audit module failed")
	}

	identity, err := idmod.New(ctx, st, audit.Svc, idsvc.Config{
		Admins: apiCfg.MayCSV("ADMINS", nil),
	})
	if err != nil {
		l.Panic().Err(err).Msg("identity module failed")
	}

	register := regmod.New(st, identity.Svc, identity.Svc, regsvc.Config{
		SessionTTL: apiCfg.MayDuration("SESSION_TTL", 0),
	})

	srv := phttp.NewServer(apiCfg)
	srv.Mux().Route("/api/v1", func(r chi.Router) {
		identity.Mount(r)
		register.Mount(r)
		audit.Mount(r)
	})

	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
