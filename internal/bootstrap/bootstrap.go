package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	backupinadapter "urworld/internal/modules/backup/adapter/in"
	backupoutadapter "urworld/internal/modules/backup/adapter/out"
	backupdomain "urworld/internal/modules/backup/domain"
	backupout "urworld/internal/modules/backup/port/out"
	backupusecase "urworld/internal/modules/backup/usecase"
	challengeinadapter "urworld/internal/modules/challenge/adapter/in"
	challengeoutadapter "urworld/internal/modules/challenge/adapter/out"
	challengeservice "urworld/internal/modules/challenge/service"
	challengeusecase "urworld/internal/modules/challenge/usecase"
	profileinadapter "urworld/internal/modules/profile/adapter/in"
	profileoutadapter "urworld/internal/modules/profile/adapter/out"
	profileservice "urworld/internal/modules/profile/service"
	profileusecase "urworld/internal/modules/profile/usecase"
	progressinadapter "urworld/internal/modules/progress/adapter/in"
	progressoutadapter "urworld/internal/modules/progress/adapter/out"
	progressservice "urworld/internal/modules/progress/service"
	progressusecase "urworld/internal/modules/progress/usecase"
	quizinadapter "urworld/internal/modules/quiz/adapter/in"
	quizoutadapter "urworld/internal/modules/quiz/adapter/out"
	quizservice "urworld/internal/modules/quiz/service"
	quizusecase "urworld/internal/modules/quiz/usecase"
	settingsinadapter "urworld/internal/modules/settings/adapter/in"
	settingsoutadapter "urworld/internal/modules/settings/adapter/out"
	settingsdto "urworld/internal/modules/settings/dto"
	settingsin "urworld/internal/modules/settings/port/in"
	settingsservice "urworld/internal/modules/settings/service"
	settingsusecase "urworld/internal/modules/settings/usecase"
	"urworld/internal/platform/catalog"
	"urworld/internal/platform/clock"
	"urworld/internal/platform/config"
	"urworld/internal/platform/events"
	"urworld/internal/platform/id"
	"urworld/internal/platform/kvstore"
	"urworld/internal/platform/logging"
	uiapp "urworld/internal/ui/app"
)

type App struct {
	Config config.Config
	Logger *slog.Logger

	ProgressCLI  progressinadapter.CLIHandler
	ProfileCLI   profileinadapter.CLIHandler
	ChallengeCLI challengeinadapter.CLIHandler
	SettingsCLI  settingsinadapter.CLIHandler
	QuizCLI      quizinadapter.CLIHandler
	BackupCLI    backupinadapter.CLIHandler

	Rollover      *challengeinadapter.RolloverScheduler
	Watcher       *kvstore.Watcher
	Notifications *events.Memory

	closers []io.Closer
}

// New wires every module against the vault named in cfg. Log lines go to
// logOut so the TUI can keep them off the terminal.
func New(cfg config.Config, logOut io.Writer) (*App, error) {
	logger := logging.New(logOut, cfg.LogLevel, cfg.LogFormat)
	clk := clock.SystemClock{}

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	storage := kvstore.NewFileStore(cfg.StorageDir)
	sessions := kvstore.NewFileStore(cfg.SessionDir)

	settingsStore, err := settingsoutadapter.NewKVSettingsStore(storage)
	if err != nil {
		return nil, fmt.Errorf("new settings store: %w", err)
	}
	settingsUC := settingsusecase.NewInteractor(settingsservice.NewSettingsService(settingsStore, logger))

	notifications := events.NewMemory()
	publisher := events.Multi{
		events.NewLog(logger),
		events.Filter{Next: notifications, Keep: notificationGate(settingsUC)},
	}

	ledgerStore, err := progressoutadapter.NewKVLedgerStore(storage)
	if err != nil {
		return nil, fmt.Errorf("new ledger store: %w", err)
	}
	projector, err := progressoutadapter.NewSQLiteLedgerProjector(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("new ledger projector: %w", err)
	}
	observer := progressoutadapter.NewChallengeObserver(logger)
	progressUC := progressusecase.NewInteractor(
		progressservice.NewLedgerService(clk, cat, ledgerStore, projector, logger),
		clk,
		publisher,
		observer,
	)

	profileStore, err := profileoutadapter.NewKVProfileStore(storage)
	if err != nil {
		_ = projector.Close()
		return nil, fmt.Errorf("new profile store: %w", err)
	}
	profileUC := profileusecase.NewInteractor(
		profileservice.NewProfileService(clk, cat, profileStore, logger),
		progressUC,
		profileoutadapter.NewVaultReportWriter(cfg.ReportPath),
		publisher,
	)

	challengeStore, err := challengeoutadapter.NewKVChallengeStore(storage)
	if err != nil {
		_ = projector.Close()
		return nil, fmt.Errorf("new challenge store: %w", err)
	}
	challengeUC := challengeusecase.NewInteractor(
		challengeservice.NewChallengeService(clk, challengeStore, logger),
		clk,
		challengeoutadapter.NewProfileRewardSink(profileUC),
		publisher,
		logger,
	)
	observer.Bind(challengeUC)

	historyStore, err := quizoutadapter.NewKVHistoryStore(storage)
	if err != nil {
		_ = projector.Close()
		return nil, fmt.Errorf("new quiz history store: %w", err)
	}
	quizUC := quizusecase.NewInteractor(quizusecase.Deps{
		Service: quizservice.NewQuizService(
			clk, id.UUID{}, cat,
			quizoutadapter.NewKVSessionStore(sessions),
			historyStore,
			logger,
		),
		Clock:     clk,
		Progress:  progressUC,
		Profile:   profileUC,
		Challenge: challengeUC,
		Settings:  settingsUC,
		Notes:     quizoutadapter.NewVaultNoteWriter(cfg.AttemptsDir),
		Logger:    logger,
	})

	backupUC := backupusecase.NewInteractor(backupusecase.Deps{
		Clock: clk,
		Blobs: backupoutadapter.NewKVBlobStore(storage),
		Writers: map[backupdomain.Format]backupout.Writer{
			backupdomain.FormatJSON: backupoutadapter.NewJSONWriter(),
			backupdomain.FormatXLSX: backupoutadapter.NewXLSXWriter(),
		},
		Progress:   progressUC,
		Profile:    profileUC,
		Settings:   settingsUC,
		Quiz:       quizUC,
		DefaultDir: cfg.ExportDir,
		Logger:     logger,
	})

	return &App{
		Config:        cfg,
		Logger:        logger,
		ProgressCLI:   progressinadapter.NewCLIHandler(progressUC),
		ProfileCLI:    profileinadapter.NewCLIHandler(profileUC),
		ChallengeCLI:  challengeinadapter.NewCLIHandler(challengeUC),
		SettingsCLI:   settingsinadapter.NewCLIHandler(settingsUC),
		QuizCLI:       quizinadapter.NewCLIHandler(quizUC),
		BackupCLI:     backupinadapter.NewCLIHandler(backupUC),
		Rollover:      challengeinadapter.NewRolloverScheduler(challengeUC, time.Local, logger),
		Watcher:       kvstore.NewWatcher(storage, cfg.WatchInterval, logger),
		Notifications: notifications,
		closers:       []io.Closer{projector},
	}, nil
}

func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// notificationGate drops badge notifications while the learner has
// achievement notifications switched off. Other events always pass.
func notificationGate(settings settingsin.Usecase) func(context.Context, events.Event) bool {
	return func(ctx context.Context, event events.Event) bool {
		if event.Type != events.BadgeUnlocked {
			return true
		}
		return settings.Enabled(ctx, settingsdto.KeyAchievementNotifications)
	}
}

func RunTUI(app *App) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := app.Rollover.Start(ctx); err != nil {
		return err
	}
	defer app.Rollover.Stop()

	model := uiapp.NewModel(uiapp.Ports{
		VaultPath:     app.Config.VaultPath,
		Progress:      app.ProgressCLI,
		Quiz:          app.QuizCLI,
		Profile:       app.ProfileCLI,
		Challenge:     app.ChallengeCLI,
		Settings:      app.SettingsCLI,
		Notifications: app.Notifications,
		Changes:       app.Watcher.Watch(ctx),
	})
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
