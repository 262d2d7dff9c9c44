package main

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/tharun-r1705/data-frontend-new/core/user"
	"github.com/tharun-r1705/data-frontend-new/transport"
)

func (cli *commandLine) showProfile(ctx context.Context, args []string) error {
	if err := cli.guard(user.RoleStudent); err != nil {
		return err
	}

	info, err := cli.api.GetProfile(ctx)
	if err != nil {
		if errors.Cause(err) == transport.ErrNoProfile {
			fmt.Fprintln(cli.out, "no profile yet; create one from the web app")
			return nil
		}
		return err
	}

	p := info.Profile
	fmt.Fprintf(cli.out, "%s (%s) - class %s section %s\n", p.Name, p.RollNo, p.Class, p.Section)
	fmt.Fprintf(cli.out, "email: %s  phone: %s\n", p.Email, p.PhoneNumber)
	if len(info.MissingFields) > 0 {
		fmt.Fprintf(cli.out, "missing fields: %s\n", strings.Join(info.MissingFields, ", "))
	}
	if len(info.FlaggedFields) > 0 {
		fmt.Fprintf(cli.out, "flagged for review: %s\n", strings.Join(info.FlaggedFields, ", "))
	}
	return nil
}

func (cli *commandLine) unflagField(ctx context.Context, args []string) error {
	if err := cli.guard(user.RoleStudent); err != nil {
		return err
	}

	unflagCmd := flag.NewFlagSet("unflag", flag.ExitOnError)
	field := unflagCmd.String("field", "", "The corrected field's name.")
	if err := unflagCmd.Parse(args); err != nil {
		return err
	}
	if *field == "" {
		unflagCmd.Usage()
		return errHelp
	}

	if err := cli.api.UnflagField(ctx, *field); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "unflagged %s\n", *field)
	return nil
}

func (cli *commandLine) flagField(ctx context.Context, args []string) error {
	if err := cli.guard(user.RoleTeacher); err != nil {
		return err
	}

	flagCmd := flag.NewFlagSet("flag", flag.ExitOnError)
	studentID := flagCmd.String("student", "", "The student record's id.")
	field := flagCmd.String("field", "", "The field to flag for review.")
	if err := flagCmd.Parse(args); err != nil {
		return err
	}
	if *studentID == "" || *field == "" {
		flagCmd.Usage()
		return errHelp
	}

	if err := cli.api.FlagStudentField(ctx, *studentID, *field); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "flagged %s on student %s\n", *field, *studentID)
	return nil
}
