package main

import (
	"fmt"
	"log"
	"os"

	"github.com/pkg/errors"

	"github.com/tharun-r1705/data-frontend-new/core"
	logsvc "github.com/tharun-r1705/data-frontend-new/services/logger"
	"github.com/tharun-r1705/data-frontend-new/session"
	"github.com/tharun-r1705/data-frontend-new/session/chatexport"
	"github.com/tharun-r1705/data-frontend-new/storage/credstore"
	"github.com/tharun-r1705/data-frontend-new/transport"
)

func main() {
	conf := core.NewConfig()

	std := log.New(os.Stderr, "", 0)
	var logger core.Logger
	if conf.Debug || conf.Rollbar.Token == "" {
		logger = logsvc.NewConsoleLogger(std)
	} else {
		logger = logsvc.NewRollbarLogger(std, conf)
	}

	creds := credstore.NewFileStore(conf.CredentialsFile)

	// the manager and the client need each other: the client's 401 hook
	// forces the manager to Anonymous, the manager drives the client.
	var mgr *session.Manager
	api, err := transport.NewClient(&transport.Options{
		BaseURL: conf.API.BaseURL,
		Timeout: conf.API.RequestTimeout,
		Creds:   creds,
		OnAuthInvalid: func() {
			if mgr != nil {
				mgr.Invalidate()
			}
			fmt.Fprintln(os.Stderr, "session expired; please log in again")
		},
	})
	if err != nil {
		logger.Fatal("setting up API client", err)
	}
	mgr = session.NewManager(api, creds, logger)

	cli := &commandLine{
		mgr:  mgr,
		chat: chatexport.NewSession(api),
		api:  api,
		out:  os.Stdout,
	}
	if err := cli.run(os.Args); err != nil && err != errHelp {
		var vErr *core.ValidationError
		if errors.As(err, &vErr) {
			for _, fld := range vErr.Fields {
				fmt.Fprintf(os.Stderr, "%s: %s\n", fld.Field, fld.Error)
			}
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
