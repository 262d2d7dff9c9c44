package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/tharun-r1705/data-frontend-new/core/user"
	"github.com/tharun-r1705/data-frontend-new/session"
)

func (cli *commandLine) login(ctx context.Context, args []string) error {
	loginCmd := flag.NewFlagSet("login", flag.ExitOnError)
	email := loginCmd.String("email", "", "The account's email. The password will be prompted next.")
	if err := loginCmd.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		loginCmd.Usage()
		return errHelp
	}

	pwd, err := promptPassword("Enter password:")
	if err != nil {
		return err
	}
	if pwd == "" {
		loginCmd.Usage()
		return errHelp
	}

	usr, home, err := cli.mgr.Login(ctx, user.Credentials{Email: *email, Password: pwd})
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "welcome back! logged in as %s (%s) -> %s\n", usr.Email, usr.Role, home)
	return nil
}

func (cli *commandLine) signup(ctx context.Context, args []string) error {
	signupCmd := flag.NewFlagSet("signup", flag.ExitOnError)
	email := signupCmd.String("email", "", "The new account's email.")
	role := signupCmd.String("role", "", "student or teacher.")
	if err := signupCmd.Parse(args); err != nil {
		return err
	}
	if *email == "" || *role == "" {
		signupCmd.Usage()
		return errHelp
	}

	pwd, err := promptPassword("Choose a password:")
	if err != nil {
		return err
	}
	if pwd == "" {
		signupCmd.Usage()
		return errHelp
	}

	usr, home, err := cli.mgr.Signup(ctx, user.NewAccount{
		Email:    *email,
		Password: pwd,
		Role:     user.Role(*role),
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "account created; logged in as %s (%s) -> %s\n", usr.Email, usr.Role, home)
	return nil
}

func (cli *commandLine) logout(ctx context.Context) error {
	if err := cli.mgr.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(cli.out, "logged out")
	return nil
}

func (cli *commandLine) whoami() error {
	st := cli.mgr.State()
	if st.Status != session.Authenticated {
		fmt.Fprintln(cli.out, "anonymous")
		return nil
	}
	fmt.Fprintf(cli.out, "%s (%s)\n", st.User.Email, st.User.Role)
	return nil
}

func (cli *commandLine) changePassword(ctx context.Context) error {
	if err := cli.guard(""); err != nil {
		return err
	}

	current, err := promptPassword("Current password:")
	if err != nil {
		return err
	}
	next, err := promptPassword("New password:")
	if err != nil {
		return err
	}
	if err = cli.mgr.ChangePassword(ctx, user.PasswordChange{
		CurrentPassword: current,
		NewPassword:     next,
	}); err != nil {
		return err
	}
	fmt.Fprintln(cli.out, "password changed")
	return nil
}
