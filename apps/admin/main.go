package main

import (
	"log"
	"os"

	"github.com/opennotes/opennotes/core"
	"github.com/opennotes/opennotes/core/content"
	chatsvc "github.com/opennotes/opennotes/services/chat"
	emailsvc "github.com/opennotes/opennotes/services/email"
	extractsvc "github.com/opennotes/opennotes/services/extract"
	uploadsvc "github.com/opennotes/opennotes/services/upload"
	surrealrepos "github.com/opennotes/opennotes/storage/database/surreal"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()

	// set up DB & repos
	db, err := surrealrepos.Open(conf)
	errAndDie(err)
	defer db.Close()

	// uploads and chat are not exercised by CLI commands
	contentSvc := content.NewService(
		surrealrepos.NewSubjectRepository(db),
		surrealrepos.NewNoteRepository(db),
		uploadsvc.NewDummyStore(),
		&extractsvc.DummyExtractor{},
		&chatsvc.DummyCompleter{},
		emailsvc.NewConsoleService(conf),
		conf,
	)

	// start CLI
	cli := commandLine{contentSvc: contentSvc}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
