package main

import (
	"context"
	"fmt"
)

// pending lists every subject and note still awaiting review.
func (cli *commandLine) pending() error {
	ctx := context.Background()

	subjects, err := cli.contentSvc.ListSubjects(ctx, true /* includeUnapproved */)
	if err != nil {
		return err
	}
	var count int
	for _, sub := range subjects {
		if !sub.IsApproved {
			fmt.Printf("subject  %s  %q (requested by %s)\n", sub.ID, sub.Title, sub.RequestedBy)
			count++
		}
	}

	stats, err := cli.contentSvc.AdminStats(ctx)
	if err != nil {
		return err
	}
	for _, note := range stats.AllNotes {
		if !note.IsApproved {
			fmt.Printf("note     %s  %q under %s\n", note.ID, note.Title, note.Subject)
			count++
		}
	}

	if count == 0 {
		fmt.Println("nothing pending")
	}
	return nil
}
