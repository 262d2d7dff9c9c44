package main

import (
	"bytes"
	"context"
	"io"
	"log"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tharun-r1705/data-frontend-new/core"
	"github.com/tharun-r1705/data-frontend-new/core/user"
	logsvc "github.com/tharun-r1705/data-frontend-new/services/logger"
	"github.com/tharun-r1705/data-frontend-new/services/stubapi"
	"github.com/tharun-r1705/data-frontend-new/session"
	"github.com/tharun-r1705/data-frontend-new/session/chatexport"
	"github.com/tharun-r1705/data-frontend-new/storage/credstore"
	"github.com/tharun-r1705/data-frontend-new/transport"
)

type cliFixture struct {
	store  *credstore.MemStore
	api    *transport.Client
	logger core.Logger
}

func setup(t *testing.T) *cliFixture {
	t.Helper()

	stub := stubapi.NewServer(&stubapi.Options{
		SecretKey:      []byte("test-secret"),
		DisableReqLogs: true,
		SeedStudents:   true,
	})
	srv := httptest.NewServer(stub)
	t.Cleanup(srv.Close)

	store := credstore.NewMemStore()
	api, err := transport.NewClient(&transport.Options{
		BaseURL: srv.URL + "/v1",
		Creds:   store,
	})
	if err != nil {
		t.Fatalf("NewClient() failed: %v", err)
	}
	return &cliFixture{
		store:  store,
		api:    api,
		logger: logsvc.NewConsoleLogger(log.New(io.Discard, "", 0)),
	}
}

// newCommandLine mimics one process invocation: a fresh manager and a fresh
// query session every time, sharing only the credential store and the server.
func (f *cliFixture) newCommandLine(out io.Writer) *commandLine {
	return &commandLine{
		mgr:  session.NewManager(f.api, f.store, f.logger),
		chat: chatexport.NewSession(f.api),
		api:  f.api,
		out:  out,
	}
}

func (f *cliFixture) signupTeacher(t *testing.T) {
	t.Helper()
	mgr := session.NewManager(f.api, f.store, f.logger)
	mgr.Restore()
	if _, _, err := mgr.Signup(context.Background(), user.NewAccount{
		Email:    "prof@test.cd",
		Password: "chalk&talk1",
		Role:     user.RoleTeacher,
	}); err != nil {
		t.Fatalf("signing the teacher up failed: %v", err)
	}
}

func Test_commandLine_querySave(t *testing.T) {
	fix := setup(t)
	fix.signupTeacher(t)

	dest := filepath.Join(t.TempDir(), "results.csv")
	cli := fix.newCommandLine(new(bytes.Buffer))
	if err := cli.run([]string{"datacli", "query", "-prompt", "list all students", "-save", dest}); err != nil {
		t.Fatalf("query -save failed: %v", err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("reading saved artifact failed: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("rollNo,")) {
		t.Errorf("saved artifact is not the results CSV: %q", data[:min(len(data), 40)])
	}
}

func Test_commandLine_downloadByName(t *testing.T) {
	fix := setup(t)
	fix.signupTeacher(t)

	out := new(bytes.Buffer)
	first := fix.newCommandLine(out)
	if err := first.run([]string{"datacli", "query", "-prompt", "list all students"}); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	name := first.chat.LastArtifact()
	if name == "" {
		t.Fatal("query produced no artifact")
	}
	// the hint must carry the name so the next invocation can use it
	if !strings.Contains(out.String(), "download -name "+name) {
		t.Errorf("query output %q does not name the artifact", out.String())
	}

	dest := filepath.Join(t.TempDir(), "out.csv")
	second := fix.newCommandLine(new(bytes.Buffer))
	if err := second.run([]string{"datacli", "download", "-name", name, "-out", dest}); err != nil {
		t.Fatalf("download -name in a fresh invocation failed: %v", err)
	}
	if _, err := os.Stat(dest); err != nil {
		t.Errorf("artifact not written: %v", err)
	}

	// without a name a fresh invocation has no last artifact to fall back on
	third := fix.newCommandLine(new(bytes.Buffer))
	if err := third.run([]string{"datacli", "download"}); err != chatexport.ErrNoArtifact {
		t.Errorf("bare download error = %v, want ErrNoArtifact", err)
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
