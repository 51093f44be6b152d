package main

import (
	"context"

	"github.com/fatih/color"

	"github.com/trezcool/marks/core/user"
)

// addUser signs a new user.User up.
func (cli *commandLine) addUser(uname, email, pwd string) error {
	nu := user.NewUser{
		Username: uname,
		Email:    email,
		Password: pwd,
	}
	if err := nu.Validate(cli.validate, cli.usrSvc); err != nil {
		return err
	}
	usr, err := cli.usrSvc.Signup(context.Background(), nu)
	if err != nil {
		return err
	}
	color.New(color.FgGreen).Fprintf(cli.out, "user %q created\n", usr.Username)
	return nil
}
