package main

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/d-madiou/job-board-client/auth"
	"github.com/d-madiou/job-board-client/forms"
	"github.com/d-madiou/job-board-client/users"
)

var errNotLoggedIn = errors.New("not logged in, run: jobboard login")

func (cc *commandContext) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cc.Err)
	return fs
}

// requireLogin fails unless a session is active.
func (cc *commandContext) requireLogin() (*users.User, error) {
	snap := cc.Controller.Snapshot()
	if !snap.IsAuthenticated {
		return nil, errNotLoggedIn
	}
	return snap.User, nil
}

// prompt reads one line from the command input.
func (cc *commandContext) prompt(label string) (string, error) {
	_, _ = fmt.Fprint(cc.Out, label)
	line, err := cc.In.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read %s: %w", strings.TrimSuffix(strings.TrimSpace(label), ":"), err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func runLogin(cc *commandContext, args []string) error {
	fs := cc.flagSet("login")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password (prompted when empty)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	creds := forms.LoginCredentials{Email: strings.TrimSpace(*email), Password: *password}
	if creds.Password == "" && creds.Email != "" {
		pw, err := cc.prompt("Password: ")
		if err != nil {
			return err
		}
		creds.Password = pw
	}
	if err := creds.Validate(); err != nil {
		return errors.New(forms.Message(err))
	}

	if res := cc.Controller.Login(cc.Ctx, creds); !res.Success {
		return errors.New(res.Error)
	}
	return cc.printSignedIn()
}

func runRegister(cc *commandContext, args []string) error {
	fs := cc.flagSet("register")
	var form forms.RegistrationForm
	var role string
	fs.StringVar(&form.Username, "username", "", "username")
	fs.StringVar(&form.Email, "email", "", "email")
	fs.StringVar(&form.Password, "password", "", "password (prompted when empty)")
	fs.StringVar(&form.PasswordConfirm, "password-confirm", "", "password again (prompted when empty)")
	fs.StringVar(&form.FirstName, "first", "", "first name")
	fs.StringVar(&form.LastName, "last", "", "last name")
	fs.StringVar(&role, "role", string(users.RoleUser), "user or employer")
	fs.StringVar(&form.Phone, "phone", "", "phone number")
	fs.StringVar(&form.Location, "location", "", "city or country")
	if err := fs.Parse(args); err != nil {
		return err
	}
	form.Role = users.RoleType(strings.ToLower(strings.TrimSpace(role)))

	if form.Password == "" {
		pw, err := cc.prompt("Password: ")
		if err != nil {
			return err
		}
		form.Password = pw
	}
	if form.PasswordConfirm == "" {
		pw, err := cc.prompt("Confirm password: ")
		if err != nil {
			return err
		}
		form.PasswordConfirm = pw
	}
	if err := form.Validate(); err != nil {
		return errors.New(forms.Message(err))
	}

	if res := cc.Controller.Register(cc.Ctx, form); !res.Success {
		return errors.New(res.Error)
	}
	return cc.printSignedIn()
}

func (cc *commandContext) printSignedIn() error {
	snap := cc.Controller.Snapshot()
	if snap.State != auth.Authenticated {
		return errors.New(snap.Error)
	}
	_, err := fmt.Fprintf(cc.Out, "Signed in as %s (%s)\n", snap.User.DisplayName(), snap.User.Email)
	return err
}

func runLogout(cc *commandContext, _ []string) error {
	cc.Controller.Logout(cc.Ctx)
	_, err := fmt.Fprintln(cc.Out, "Signed out")
	return err
}

func runWhoami(cc *commandContext, _ []string) error {
	u, err := cc.requireLogin()
	if err != nil {
		return err
	}
	return printUser(cc.Out, u)
}

func runProfile(cc *commandContext, args []string) error {
	if _, err := cc.requireLogin(); err != nil {
		return err
	}
	fs := cc.flagSet("profile")
	first := fs.String("first", "", "first name")
	last := fs.String("last", "", "last name")
	phone := fs.String("phone", "", "phone number")
	location := fs.String("location", "", "city or country")
	bio := fs.String("bio", "", "short bio")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var update users.ProfileUpdate
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "first":
			update.FirstName = first
		case "last":
			update.LastName = last
		case "phone":
			update.Phone = phone
		case "location":
			update.Location = location
		case "bio":
			update.Bio = bio
		}
	})

	profiles, err := users.NewProfileService(cc.Client)
	if err != nil {
		return err
	}
	if update.Empty() {
		u, err := profiles.Get(cc.Ctx)
		if err != nil {
			return err
		}
		return printUser(cc.Out, &u)
	}

	if err := update.Validate(); err != nil {
		return errors.New(forms.Message(err))
	}
	u, err := profiles.Update(cc.Ctx, update)
	if err != nil {
		return err
	}
	if err := cc.Controller.UpdateUser(cc.Ctx, u); err != nil {
		cc.Logger.Warn().Err(err).Msg("failed to save updated profile")
	}
	return printUser(cc.Out, &u)
}
