package main

import (
	"errors"
	"flag"
	"fmt"

	"github.com/opennotes/opennotes/core/content"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	contentSvc *content.Service
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  seed                             - insert the built-in approved subjects")
	fmt.Println("  approve -type notes|subjects -id ID - approve a pending note or subject")
	fmt.Println("  pending                          - list notes and subjects awaiting review")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	approveCmd := flag.NewFlagSet("approve", flag.ExitOnError)
	approveType := approveCmd.String("type", "", "What to approve: notes or subjects.")
	approveID := approveCmd.String("id", "", "The id of the item to approve.")

	switch args[1] {
	case "seed":
		return cli.seed()
	case "approve":
		if err := approveCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *approveID == "" || (*approveType != "notes" && *approveType != "subjects") {
			approveCmd.Usage()
			return errHelp
		}
		return cli.approve(*approveType, *approveID)
	case "pending":
		return cli.pending()
	default:
		cli.printUsage()
		return errHelp
	}
}
