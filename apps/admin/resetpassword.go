package main

import (
	"context"

	"github.com/fatih/color"
)

func (cli *commandLine) resetPassword(uname, pwd string) error {
	usr, err := cli.usrSvc.SetPassword(context.Background(), uname, pwd)
	if err != nil {
		return err
	}
	color.New(color.FgGreen).Fprintf(cli.out, "password of %q updated\n", usr.Username)
	return nil
}
