package bot

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	tele "gopkg.in/telebot.v4"

	corebootstrap "github.com/selvaganesh19/mailform/core/bootstrap"
	corecmd "github.com/selvaganesh19/mailform/core/cmd"
	"github.com/selvaganesh19/mailform/core/logger"
	coretelegram "github.com/selvaganesh19/mailform/core/telegram"
	"github.com/selvaganesh19/mailform/core/telegram/router"
	tgsender "github.com/selvaganesh19/mailform/core/telegram/sender"

	"github.com/selvaganesh19/mailform/app/assistant"
	"github.com/selvaganesh19/mailform/app/attachments"
	appconfig "github.com/selvaganesh19/mailform/app/config"
	"github.com/selvaganesh19/mailform/app/generator"
	"github.com/selvaganesh19/mailform/app/mailer"
	"github.com/selvaganesh19/mailform/app/schedule"
)

// App wires the dialog machine to Telegram, the mailer and the scheduler.
type App struct {
	cfg *appconfig.Config

	store     *assistant.MemoryStore
	executor  *assistant.Executor
	scheduler *schedule.Scheduler
	files     *attachments.Store

	bot atomic.Pointer[tele.Bot]
}

// LoadConfig adapts the app config loader to the runner's interface.
func LoadConfig(path string) (corecmd.ConfigCarrier, error) {
	return appconfig.Load(path)
}

// Bootstrap prepares infrastructure and builds the application.
func Bootstrap(carrier corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
	cfg, ok := carrier.(*appconfig.Config)
	if !ok {
		return nil, fmt.Errorf("bot: unexpected config type %T", carrier)
	}

	err := corebootstrap.Run(corebootstrap.Options{
		Config: cfg.CoreConfig(),
		Steps: []corebootstrap.Step{
			{Name: "mail_credentials", Run: func() error {
				return mailer.EnsureCredentialFiles(cfg.Mail)
			}},
		},
	})
	if err != nil {
		return nil, err
	}

	return New(cfg)
}

// New builds the application from loaded configuration.
func New(cfg *appconfig.Config) (*App, error) {
	files, err := attachments.New(cfg.Attachments)
	if err != nil {
		return nil, err
	}

	a := &App{
		cfg:       cfg,
		store:     assistant.NewMemoryStore(),
		scheduler: schedule.New(),
		files:     files,
	}

	machine := assistant.NewMachine(a.store)
	a.executor = assistant.NewExecutor(
		machine,
		&responder{app: a},
		mailer.NewGmail(cfg.Mail),
		a.scheduler,
		buildGenerator(cfg.Generator),
		&fileFetcher{app: a},
	)

	return a, nil
}

// buildGenerator falls back to a stub that fails at draft time when the API
// key is absent, so the bot still serves the rest of the flow.
func buildGenerator(cfg generator.Config) assistant.Generator {
	gen, err := generator.New(cfg)
	if err != nil {
		logger.Warn(logger.Background(), "generator", "disabled",
			slog.String("err", err.Error()),
		)
		return unavailableGenerator{err: err}
	}
	return gen
}

type unavailableGenerator struct{ err error }

func (g unavailableGenerator) Generate(context.Context, string, string, string, string) (string, error) {
	return "", g.err
}

// TelegramRunOptions assembles routes, middlewares and lifecycle hooks.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	reg := coretelegram.NewRegistry()
	a.registerCommands(reg)
	a.registerCallbacks(reg)

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminID: a.cfg.Core.Telegram.AdminID,
	})
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{}))
	routes = append(routes, router.TextRoutes(a, reg, router.TextOptions{})...)

	return coretelegram.RunOptions{
		Config:      &a.cfg.Core,
		Registry:    reg,
		Middlewares: coretelegram.DefaultMiddlewares(&a.cfg.Core, nil),
		Routes:      routes,
		// A single worker keeps prompts in the order the machine emitted them.
		DispatcherOptions: tgsender.Options{
			Workers:    1,
			MaxRetries: 2,
		},
		OnStart: func(ctx context.Context, rt coretelegram.Runtime) error {
			a.bot.Store(rt.Bot)
			logger.Info(ctx, "app", "bot.ready",
				slog.String("mode", a.cfg.Core.Telegram.RunMode),
			)
			return nil
		},
		OnStop: func(ctx context.Context, rt coretelegram.Runtime) error {
			pending := a.scheduler.Pending()
			if pending > 0 {
				logger.Warn(ctx, "app", "shutdown.pending_jobs",
					slog.Int("messages", pending),
				)
			}
			<-a.scheduler.Stop().Done()
			return nil
		},
	}, nil
}
