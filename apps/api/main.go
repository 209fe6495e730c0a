package main

import (
	"context"
	"database/sql"
	"expvar"
	"fmt"
	"log"
	"net/http"
	"net/mail"
	"os"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	echoapi "github.com/kundihq/kundi/apps/api/echo"
	"github.com/kundihq/kundi/core"
	"github.com/kundihq/kundi/core/editing"
	"github.com/kundihq/kundi/core/gamify"
	"github.com/kundihq/kundi/core/roster"
	"github.com/kundihq/kundi/services/chms"
	emailsvc "github.com/kundihq/kundi/services/email"
	logsvc "github.com/kundihq/kundi/services/logger"
	"github.com/kundihq/kundi/storage/cache"
	"github.com/kundihq/kundi/storage/database"
	sqlxrepos "github.com/kundihq/kundi/storage/database/sqlx"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	dbLogger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	dbLogger.Enable(!conf.Debug)

	// set up DB
	db, err := setUpDB(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			dbLogger.Fatal("Failed to close", err)
		}
	}()
	sdb := sqlx.NewDb(db, conf.Database.Engine)

	auditRepo := sqlxrepos.NewAuditRepository(sdb)
	settingsRepo := sqlxrepos.NewSettingsRepository(sdb)

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	var rosterCache roster.Cache
	if store, err := cache.New(conf, logger); err != nil {
		logger.Warn(fmt.Sprintf("cache disabled: %v", err), err)
	} else {
		rosterCache = store
	}

	client := chms.NewClient(conf, logger)

	ctx := context.Background()
	cutoff := roster.Cutoff{Month: time.Month(conf.Cutoff.Month), Day: conf.Cutoff.Day}
	if saved, ok, err := settingsRepo.LoadCutoff(ctx); err != nil {
		logger.Warn(fmt.Sprintf("loading cutoff override: %v", err), err)
	} else if ok {
		cutoff = saved
	}

	rosterSvc := roster.NewService(client, rosterCache, cutoff, logger)
	tracker := gamify.NewTracker(ctx, settingsRepo, logger)
	history := editing.NewHistory()

	window := editing.NewPendingWindow(editing.PendingWindowDeps{
		Delay:      conf.Edit.CommitDelay,
		Gateway:    client,
		Reconciler: rosterSvc,
		History:    history,
		Notifier:   &emailNotifier{conf: conf, mailSvc: mailSvc},
		Stats:      tracker,
		Audit:      auditRepo,
		Logger:     logger,
	})
	defer window.Close()

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err = http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:       conf,
			Logger:     logger,
			Roster:     rosterSvc,
			Window:     window,
			History:    history,
			Stats:      tracker,
			Auth:       client,
			Audit:      auditRepo,
			Settings:   settingsRepo,
			Validate:   validate,
			Translator: translator,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func setUpDB(conf *core.Config) (*sql.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

// emailNotifier mails the admin when a committed edit was rejected upstream.
type emailNotifier struct {
	conf    *core.Config
	mailSvc core.EmailService
}

var _ editing.Notifier = (*emailNotifier)(nil)

func (n *emailNotifier) WriteFailed(s roster.Student, err error) {
	msg := &core.EmailMessage{
		To:      []mail.Address{n.conf.AdminEmail},
		Subject: fmt.Sprintf("%s: failed to save changes for %s", n.conf.AppName, s.Name),
		BodyStr: fmt.Sprintf(
			"The edit for %s (record %s) could not be written upstream and has been rolled back locally.\n\nReason: %v\n",
			s.Name, s.ID, err,
		),
	}
	n.mailSvc.SendMessages(msg)
}
