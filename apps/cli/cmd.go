package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"syscall"

	"golang.org/x/term"

	"github.com/tharun-r1705/data-frontend-new/core/user"
	"github.com/tharun-r1705/data-frontend-new/session"
	"github.com/tharun-r1705/data-frontend-new/session/chatexport"
	"github.com/tharun-r1705/data-frontend-new/transport"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp        = errors.New("help provided")
	errNotLoggedIn = errors.New("not logged in; run `datacli login` first")
)

type commandLine struct {
	mgr  *session.Manager
	chat *chatexport.Session
	api  *transport.Client
	out  io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  login -email EMAIL                          - log in (password prompted)")
	fmt.Fprintln(cli.out, "  signup -email EMAIL -role student|teacher   - create an account (password prompted)")
	fmt.Fprintln(cli.out, "  logout                                      - log out and clear the stored session")
	fmt.Fprintln(cli.out, "  whoami                                      - show the current session")
	fmt.Fprintln(cli.out, "  passwd                                      - change password (prompted)")
	fmt.Fprintln(cli.out, "  profile                                     - show your student profile")
	fmt.Fprintln(cli.out, "  unflag -field FIELD                         - mark a flagged field as corrected")
	fmt.Fprintln(cli.out, "  flag -student ID -field FIELD               - flag a student's field (teacher)")
	fmt.Fprintln(cli.out, "  query -prompt TEXT [-save FILE]             - run an AI query (teacher)")
	fmt.Fprintln(cli.out, "  download -name NAME [-out FILE]             - download a query's results artifact (teacher)")
	fmt.Fprintln(cli.out, "  export -out FILE                            - export the full dataset as CSV (teacher)")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	// app start: resolve the Unknown state from the credential store.
	cli.mgr.Restore()

	ctx := context.Background()
	switch args[1] {
	case "login":
		return cli.login(ctx, args[2:])
	case "signup":
		return cli.signup(ctx, args[2:])
	case "logout":
		return cli.logout(ctx)
	case "whoami":
		return cli.whoami()
	case "passwd":
		return cli.changePassword(ctx)
	case "profile":
		return cli.showProfile(ctx, args[2:])
	case "unflag":
		return cli.unflagField(ctx, args[2:])
	case "flag":
		return cli.flagField(ctx, args[2:])
	case "query":
		return cli.query(ctx, args[2:])
	case "download":
		return cli.downloadResults(ctx, args[2:])
	case "export":
		return cli.exportAll(ctx, args[2:])
	default:
		cli.printUsage()
		return errHelp
	}
}

// guard gates a command on the session state the way a routed view would be.
func (cli *commandLine) guard(requiredRole user.Role) error {
	switch session.Decide(cli.mgr.State(), requiredRole) {
	case session.RedirectToAuth:
		return errNotLoggedIn
	case session.RedirectHome:
		return fmt.Errorf("this command needs the %s role", requiredRole)
	}
	return nil
}

func promptPassword(label string) (string, error) {
	fmt.Print(label)
	pwd, err := readPasswordFunc(syscall.Stdin)
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(pwd), nil
}
