package account

import (
	"errors"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitlit/internal/auth"
	"github.com/julianstephens/habitlit/internal/cli"
	"github.com/julianstephens/habitlit/internal/logger"
)

var errLocalStore = errors.New("accounts are only used with the postgres store (set storage.kind = \"postgres\")")

type AccountCmd struct {
	Signup        SignupCmd        `cmd:"" help:"Create an account and sign in."`
	Login         LoginCmd         `cmd:"" help:"Sign in."`
	Logout        LogoutCmd        `cmd:"" help:"Sign out."`
	Whoami        WhoamiCmd        `cmd:"" help:"Show the signed-in account."`
	Forgot        ForgotCmd        `cmd:"" help:"Request a password reset token."`
	ResetPassword ResetPasswordCmd `cmd:"" help:"Set a new password with a reset token."`
}

func service(ctx *cli.Context) (*auth.Service, error) {
	if ctx.Auth == nil {
		return nil, errLocalStore
	}
	return ctx.Auth, nil
}

// friendly logs the underlying error and returns the user-facing message.
func friendly(action string, err error) error {
	logger.Debug(action+" failed", "error", err)
	return errors.New(auth.FriendlyMessage(err))
}

// promptPassword asks for a password unless one was given on the command line.
func promptPassword(title, value string) (string, error) {
	if value != "" {
		return value, nil
	}
	err := huh.NewInput().
		Title(title).
		EchoMode(huh.EchoModePassword).
		Value(&value).
		Run()
	return value, err
}

type SignupCmd struct {
	Email    string `arg:"" help:"Email address."`
	Password string `help:"Password (prompted when omitted)." env:"HABITLIT_PASSWORD"`
}

func (c *SignupCmd) Run(ctx *cli.Context) error {
	svc, err := service(ctx)
	if err != nil {
		return err
	}
	password, err := promptPassword("Choose a password", c.Password)
	if err != nil {
		return err
	}
	session, err := svc.SignUp(c.Email, password)
	if err != nil {
		return friendly("Sign up", err)
	}
	ctx.Printf("✓ Account created. Signed in as %s\n", session.Email)
	return nil
}

type LoginCmd struct {
	Email    string `arg:"" help:"Email address."`
	Password string `help:"Password (prompted when omitted)." env:"HABITLIT_PASSWORD"`
}

func (c *LoginCmd) Run(ctx *cli.Context) error {
	svc, err := service(ctx)
	if err != nil {
		return err
	}
	password, err := promptPassword("Password", c.Password)
	if err != nil {
		return err
	}
	session, err := svc.SignIn(c.Email, password)
	if err != nil {
		return friendly("Sign in", err)
	}
	ctx.Printf("✓ Signed in as %s (until %s)\n", session.Email, session.ExpiresAt.Local().Format("2006-01-02 15:04"))
	return nil
}

type LogoutCmd struct{}

func (c *LogoutCmd) Run(ctx *cli.Context) error {
	svc, err := service(ctx)
	if err != nil {
		return err
	}
	if err := svc.SignOut(); err != nil {
		logger.Debug("Sign out failed", "error", err)
		ctx.Println("Not signed in.")
		return nil
	}
	ctx.Println("✓ Signed out")
	return nil
}

type WhoamiCmd struct{}

func (c *WhoamiCmd) Run(ctx *cli.Context) error {
	svc, err := service(ctx)
	if err != nil {
		return err
	}
	session, err := svc.Current()
	if err != nil {
		return friendly("Session lookup", err)
	}
	ctx.Printf("%s (%s)\n", session.Email, session.UserID)
	return nil
}

type ForgotCmd struct {
	Email string `arg:"" help:"Email address of the account."`
}

func (c *ForgotCmd) Run(ctx *cli.Context) error {
	svc, err := service(ctx)
	if err != nil {
		return err
	}
	token, err := svc.RequestPasswordReset(c.Email)
	if err != nil {
		return friendly("Password reset request", err)
	}
	ctx.Println("Reset token (valid for one hour):")
	ctx.Println(token)
	ctx.Println("Run 'habitlit account reset-password <token>' to choose a new password.")
	return nil
}

type ResetPasswordCmd struct {
	Token    string `arg:"" help:"Reset token from 'account forgot'."`
	Password string `help:"New password (prompted when omitted)."`
	Confirm  string `help:"Repeat the new password (prompted when omitted)."`
}

func (c *ResetPasswordCmd) Run(ctx *cli.Context) error {
	svc, err := service(ctx)
	if err != nil {
		return err
	}
	password, err := promptPassword("New password", c.Password)
	if err != nil {
		return err
	}
	confirm, err := promptPassword("Repeat new password", c.Confirm)
	if err != nil {
		return err
	}
	if err := svc.ResetPassword(c.Token, password, confirm); err != nil {
		return friendly("Password reset", err)
	}
	ctx.Println("✓ Password updated. Sign in with 'habitlit account login'.")
	return nil
}
