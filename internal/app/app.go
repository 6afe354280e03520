package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/ykvlv/mood-bot/internal/config"
	"github.com/ykvlv/mood-bot/internal/report"
	"github.com/ykvlv/mood-bot/internal/schedule"
	"github.com/ykvlv/mood-bot/internal/store"
	"github.com/ykvlv/mood-bot/internal/telegram"
)

type App struct {
	cfg     config.Config
	log     *zap.Logger
	bot     *tgbotapi.BotAPI
	httpSrv *http.Server
	repo    store.Repo
	disp    *schedule.CronDispatcher
	router  *telegram.Router
}

func New(cfg config.Config, log *zap.Logger) (*App, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, err
	}
	bot.Debug = false

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}

	return &App{cfg: cfg, log: log, bot: bot, httpSrv: srv}, nil
}

func (a *App) Run(ctx context.Context) error {
	a.log.Info("starting mood-bot",
		zap.String("tz", a.cfg.LocalTZ),
		zap.String("http", a.cfg.HTTPAddr),
	)

	loc, err := time.LoadLocation(a.cfg.LocalTZ)
	if err != nil {
		a.log.Error("load timezone failed", zap.Error(err))
		return err
	}

	repo, err := store.OpenSQLite(ctx, a.cfg.DBPath)
	if err != nil {
		a.log.Error("open sqlite failed", zap.Error(err))
		return err
	}
	a.repo = repo
	a.log.Info("sqlite ready")

	a.disp = schedule.NewCronDispatcher()
	registry := schedule.NewRegistry(a.disp, a.log)
	sched := schedule.NewScheduler(repo, registry, loc, func(userID int64, hour int) {
		a.router.Notify(userID, hour)
	}, a.log)
	a.router = telegram.NewRouter(a.bot, a.log, repo, sched)

	reporter := report.NewReporter(repo, a.disp, a.router, a.log)
	if err := reporter.Start(); err != nil {
		a.log.Error("register report jobs failed", zap.Error(err))
		return err
	}

	// Re-arm every active user's triggers before the dispatcher starts
	// firing; per-user failures are already isolated inside.
	if err := sched.InitializeAllActive(ctx); err != nil {
		a.log.Error("startup initialization failed", zap.Error(err))
		return err
	}
	a.disp.Start()

	go func() {
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("http server error", zap.Error(err))
		}
	}()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updCh := a.bot.GetUpdatesChan(u)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	for {
		select {
		case <-ctx.Done():
			a.log.Info("shutdown signal received")

			a.disp.Stop()

			shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			err := a.httpSrv.Shutdown(shCtx)
			cancel()
			if err != nil {
				a.log.Warn("http server shutdown error", zap.Error(err))
			}

			if a.repo != nil {
				_ = a.repo.Close()
			}
			return nil

		case upd := <-updCh:
			a.router.HandleUpdate(ctx, upd)
		}
	}
}
