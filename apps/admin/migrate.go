package main

import (
	"errors"

	"github.com/trezcool/marks/storage/database"
)

var (
	gooseRunFunc = database.RunMigration // mockable

	errNoSQLDatabase = errors.New("migrate requires the postgres engine")
)

func (cli *commandLine) migrate(args []string) error {
	if cli.db == nil {
		return errNoSQLDatabase
	}
	return gooseRunFunc(cli.db, args[0], args[1:]...)
}
