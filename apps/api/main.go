package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	echoapi "github.com/opennotes/opennotes/apps/api/echo"
	"github.com/opennotes/opennotes/core"
	"github.com/opennotes/opennotes/core/content"
	"github.com/opennotes/opennotes/core/subscription"
	"github.com/opennotes/opennotes/core/user"
	chatsvc "github.com/opennotes/opennotes/services/chat"
	emailsvc "github.com/opennotes/opennotes/services/email"
	extractsvc "github.com/opennotes/opennotes/services/extract"
	identitysvc "github.com/opennotes/opennotes/services/identity"
	logsvc "github.com/opennotes/opennotes/services/logger"
	uploadsvc "github.com/opennotes/opennotes/services/upload"
	surrealrepos "github.com/opennotes/opennotes/storage/database/surreal"
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

	// set up DB & repos
	db, err := surrealrepos.Open(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer db.Close()

	subjectRepo := surrealrepos.NewSubjectRepository(db)
	noteRepo := surrealrepos.NewNoteRepository(db)
	subRepo := surrealrepos.NewSubscriptionRepository(db)

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	fileStore, err := uploadsvc.NewB2Store(context.Background(), conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up object storage: %v", err), err)
	}

	usrSvc := user.NewService(identitysvc.NewHTTPVerifier(conf), conf)
	contentSvc := content.NewService(subjectRepo, noteRepo, fileStore, extractsvc.NewPDFExtractor(), chatsvc.NewOpenAICompleter(conf), mailSvc, conf)
	subSvc := subscription.NewService(subRepo, subjectRepo)

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
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:       conf,
			Logger:     logger,
			UserSvc:    usrSvc,
			ContentSvc: contentSvc,
			SubSvc:     subSvc,
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

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
