package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"

	"rolelink/internal/adapters/discord"
	"rolelink/internal/platform/config"
	"rolelink/internal/platform/logger"
	phttp "rolelink/internal/platform/net/http"
	"rolelink/internal/platform/store"

	auditmod "rolelink/internal/services/audit/module"
	botmod "rolelink/internal/services/bot/module"
	botsvc "rolelink/internal/services/bot/service"
	idmod "rolelink/internal/services/identity/module"
	idsvc "rolelink/internal/services/identity/service"
	msgsvc "rolelink/internal/services/messages/service"
)

func main() {
	logger.Init(logger.FromEnv())
	l := logger.Get()

	root := config.New()
	botCfg := root.Prefix("BOT_")
	pgCfg := root.Prefix("PGSQL_")
	chCfg := root.Prefix("CLICKHOUSE_")

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
		Admins: botCfg.MayCSV("ADMINS", nil),
	})
	if err != nil {
		l.Panic().Err(err).Msg("identity module failed")
	}

	guilds := botCfg.MayCSV("MONITORED_SERVERS", nil)
	dir := discord.New(discord.Options{
		Token:    botCfg.MustString("TOKEN"),
		GuildIDs: guilds,
		Rule:     roleRule(identity, botCfg),
	})

	messenger := msgsvc.New(identity.Svc, botCfg.MayString("DEFAULT_LANGUAGE", ""))

	bot := botmod.New(identity.Svc, dir, messenger, botsvc.Config{
		Prefix:           botCfg.MayString("PREFIX", ""),
		MonitoredServers: guilds,
		ChunkSize:        botCfg.MayInt("SYNC_CHUNK_SIZE", 0),
		Stagger:          botCfg.MayDuration("SYNC_STAGGER", 0),
	})
	defer bot.Svc.Wait()

	srv := phttp.NewServer(botCfg)
	srv.Mux().Route("/api/v1", func(r chi.Router) {
		bot.Mount(r)
	})

	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}

// roleRule decides which roles a member should hold: a verified role for any
// registered, unbanned user, plus an identified role when a true identity is
// on record. Everyone else loses both.
func roleRule(identity *idmod.Module, cfg config.Conf) discord.RoleRule {
	verified := cfg.MayString("VERIFIED_ROLE_ID", "")
	identified := cfg.MayString("IDENTIFIED_ROLE_ID", "")

	managed := func() []string {
		var out []string
		if verified != "" {
			out = append(out, verified)
		}
		if identified != "" {
			out = append(out, identified)
		}
		return out
	}

	return func(ctx context.Context, userID string) (add, remove []string, err error) {
		u, err := identity.Svc.GetUser(ctx, userID)
		if err != nil {
			return nil, nil, err
		}
		if u == nil {
			return nil, managed(), nil
		}

		adv, err := identity.Svc.CanUseService(ctx, u)
		if err != nil {
			return nil, nil, err
		}
		if !adv.Allowed() {
			return nil, managed(), nil
		}

		if verified != "" {
			add = append(add, verified)
		}
		if identified != "" {
			has, err := identity.Repo.HasIdentity(ctx, u)
			if err != nil {
				return nil, nil, err
			}
			if has {
				add = append(add, identified)
			} else {
				remove = append(remove, identified)
			}
		}
		return add, remove, nil
	}
}
