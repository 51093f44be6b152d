package main

import (
	"context"
	"database/sql"
	"log"
	"os"

	"github.com/fatih/color"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/marks/core"
	"github.com/trezcool/marks/core/student"
	"github.com/trezcool/marks/core/user"
	logsvc "github.com/trezcool/marks/services/logger"
	"github.com/trezcool/marks/storage"
)

var logger core.Logger

func main() {
	conf, err := core.NewConfig()
	if err != nil {
		log.Fatal(err)
	}

	rbLogger := logsvc.NewRollbarLogger(log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile), conf)
	rbLogger.Enable(!conf.Debug)
	logger = rbLogger

	// set up DB
	stores, err := storage.Open(context.Background(), conf, logger, false /* migrate */)
	errAndDie(err)

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	student.InitValidators(validate, translator)

	var db *sql.DB
	if stores.SQL != nil {
		db = stores.SQL.DB
	}

	// start CLI
	cli := commandLine{
		db:       db,
		usrSvc:   user.NewService(stores.Users, nil /* no welcome mail */),
		stdSvc:   student.NewService(stores.Students),
		validate: validate,
		out:      os.Stdout,
	}
	err = cli.run(os.Args)
	if cerr := stores.Close(); cerr != nil {
		logger.Error("Failed to close", cerr)
	}
	if err != nil {
		if err != errHelp {
			color.New(color.FgRed).Fprintf(os.Stderr, "\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err.Error(), err)
	}
}
