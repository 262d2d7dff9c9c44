package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/tharun-r1705/data-frontend-new/core/user"
	"github.com/tharun-r1705/data-frontend-new/session/chatexport"
)

func (cli *commandLine) query(ctx context.Context, args []string) error {
	if err := cli.guard(user.RoleTeacher); err != nil {
		return err
	}

	queryCmd := flag.NewFlagSet("query", flag.ExitOnError)
	prompt := queryCmd.String("prompt", "", "The natural-language query.")
	save := queryCmd.String("save", "", "Download the results artifact to this file.")
	if err := queryCmd.Parse(args); err != nil {
		return err
	}
	if *prompt == "" {
		queryCmd.Usage()
		return errHelp
	}

	// pick the conversation up where the last UI session left off
	_ = cli.chat.LoadRecent(ctx)

	rows, err := cli.chat.Query(ctx, *prompt)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Fprintln(cli.out, "no results; try refining your query")
		return nil
	}

	cli.printRows(rows)
	name := cli.chat.LastArtifact()
	if name == "" {
		return nil
	}
	if *save == "" {
		// the artifact only lives server-side; hand the key to the next invocation
		fmt.Fprintf(cli.out, "results are downloadable: run `datacli download -name %s`\n", name)
		return nil
	}
	art, err := cli.chat.DownloadLast(ctx)
	if err != nil {
		return err
	}
	return cli.saveArtifact(art, *save)
}

func (cli *commandLine) printRows(rows []chatexport.Row) {
	cols := chatexport.Columns(rows)

	w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	for i, col := range cols {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, col)
	}
	fmt.Fprintln(w)
	for _, row := range rows {
		for i, col := range cols {
			if i > 0 {
				fmt.Fprint(w, "\t")
			}
			if v, ok := row.Get(col); ok && v != nil {
				fmt.Fprintf(w, "%v", v)
			}
		}
		fmt.Fprintln(w)
	}
	_ = w.Flush()
}

func (cli *commandLine) downloadResults(ctx context.Context, args []string) error {
	if err := cli.guard(user.RoleTeacher); err != nil {
		return err
	}

	downloadCmd := flag.NewFlagSet("download", flag.ExitOnError)
	name := downloadCmd.String("name", "", "The artifact name printed by `query`.")
	out := downloadCmd.String("out", "", "Output file; defaults to the server's suggested name.")
	if err := downloadCmd.Parse(args); err != nil {
		return err
	}

	var (
		art *chatexport.Artifact
		err error
	)
	if *name != "" {
		art, err = cli.chat.Download(ctx, *name)
	} else {
		art, err = cli.chat.DownloadLast(ctx)
	}
	if err != nil {
		return err
	}
	return cli.saveArtifact(art, *out)
}

func (cli *commandLine) exportAll(ctx context.Context, args []string) error {
	if err := cli.guard(user.RoleTeacher); err != nil {
		return err
	}

	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	out := exportCmd.String("out", "", "Output file; defaults to the server's suggested name.")
	if err := exportCmd.Parse(args); err != nil {
		return err
	}

	name, err := cli.chat.ExportAll(ctx, nil)
	if err != nil {
		return err
	}
	art, err := cli.chat.Download(ctx, name)
	if err != nil {
		return err
	}
	return cli.saveArtifact(art, *out)
}

func (cli *commandLine) saveArtifact(art *chatexport.Artifact, out string) error {
	// the suggested name is for presentation; the internal name is only a key
	if out == "" {
		out = art.SuggestedName
	}
	if out == "" {
		out = art.Name
	}
	if err := os.WriteFile(out, art.Data, 0644); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "saved %d bytes to %s\n", len(art.Data), out)
	return nil
}
