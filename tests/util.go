// Package testutil holds helpers shared by the test suites.
package testutil

import (
	"context"
	"io"
	"log"
	"net/mail"
	"testing"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/marks/core"
	"github.com/trezcool/marks/core/student"
	"github.com/trezcool/marks/core/user"
	logsvc "github.com/trezcool/marks/services/logger"
)

// NewConfig returns the configuration used by tests.
func NewConfig() *core.Config {
	return &core.Config{
		Env:              "TEST",
		AppName:          "Marks",
		TestMode:         true,
		FrontendBaseURL:  "http://marks.test",
		DefaultFromEmail: mail.Address{Name: "Marks", Address: "noreply@marks.test"},
		Server: core.ServerConfig{
			AllowOrigins:       []string{"*"},
			DisableRequestLogs: true,
			ShutdownTimeout:    time.Second,
		},
		Database: core.DatabaseConfig{Engine: core.EngineMemory},
	}
}

// NewLogger returns a silent logger that never reports to Rollbar.
func NewLogger(conf *core.Config) core.Logger {
	logger := logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf)
	logger.Enable(false)
	return logger
}

// NewValidator returns a validator with every custom validation registered, and its translator.
func NewValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	student.InitValidators(validate, translator)
	return validate, translator
}

func CreateUser(t *testing.T, repo user.Repository, uname, email, pwd string) user.User {
	t.Helper()
	usr := user.User{
		Username:  uname,
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}
	if err := usr.SetPassword(pwd); err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateStudent(t *testing.T, svc *student.Service, ns student.NewStudent) student.Student {
	t.Helper()
	std, err := svc.Create(context.Background(), ns)
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return std
}
