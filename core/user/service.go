package user

import (
	"context"
	"errors"
	"net/mail"
	"time"

	"github.com/trezcool/marks/core"
)

var (
	// errors
	ErrNotFound           = errors.New("User not found")
	ErrEmailExists        = errors.New("User already exists")
	ErrUsernameExists     = errors.New("Username already taken")
	ErrInvalidCredentials = errors.New("Invalid credentials")

	nowFunc = time.Now // mockable
)

type Repository interface {
	// CheckUniqueness returns ErrUsernameExists or ErrEmailExists when another user holds username or email.
	CheckUniqueness(ctx context.Context, username, email string) error
	CreateUser(ctx context.Context, usr User) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	GetUserByUsernameOrEmail(ctx context.Context, usernameOrEmail string) (User, error)
	UpdateUser(ctx context.Context, usr User) (User, error)
}

type Service struct {
	repo    Repository
	mailSvc core.EmailService
}

func NewService(repo Repository, mailSvc core.EmailService) *Service {
	return &Service{repo: repo, mailSvc: mailSvc}
}

// CheckUniqueness wraps taken username/email errors into field validation errors.
func (svc *Service) CheckUniqueness(uname, email string) error {
	return uniquenessError(svc.repo.CheckUniqueness(context.Background(), uname, email))
}

func uniquenessError(err error) error {
	var field string
	switch err {
	case nil:
		return nil
	case ErrUsernameExists:
		field = "username"
	case ErrEmailExists:
		field = "email"
	default:
		return err
	}
	return core.NewValidationError(err, core.FieldError{Field: field, Error: err.Error()})
}

// Signup creates a User and sends them a welcome mail.
func (svc *Service) Signup(ctx context.Context, nu NewUser) (User, error) {
	usr := User{
		Username:  nu.Username,
		Email:     nu.Email,
		CreatedAt: nowFunc().UTC(),
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, err
	}
	usr, err := svc.repo.CreateUser(ctx, usr)
	if err != nil {
		return User{}, uniquenessError(err)
	}
	svc.sendWelcomeMail(usr)
	return usr, nil
}

// Login returns the User identified by creds.
func (svc *Service) Login(ctx context.Context, creds Credentials) (User, error) {
	usr, err := svc.repo.GetUserByEmail(ctx, core.CleanString(creds.Email, true /* lower */))
	if err != nil {
		return User{}, err
	}
	if err := usr.CheckPassword(creds.Password); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return usr, nil
}

// SetPassword changes the password of the user identified by a username or an email.
func (svc *Service) SetPassword(ctx context.Context, usernameOrEmail, pwd string) (User, error) {
	usr, err := svc.repo.GetUserByUsernameOrEmail(ctx, core.CleanString(usernameOrEmail))
	if err != nil {
		return User{}, err
	}
	if err := usr.SetPassword(pwd); err != nil {
		return User{}, err
	}
	return svc.repo.UpdateUser(ctx, usr)
}

func (svc *Service) sendWelcomeMail(usr User) {
	if svc.mailSvc == nil {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: usr.Username, Address: usr.Email}},
		Subject:      "Welcome",
		TemplateName: "welcome",
		TemplateData: usr,
	})
}
