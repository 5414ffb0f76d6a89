package main

import (
	"context"
	"fmt"
)

func (cli *commandLine) approve(typ, id string) error {
	ctx := context.Background()

	switch typ {
	case "subjects":
		sub, err := cli.contentSvc.ApproveSubject(ctx, id)
		if err != nil {
			return err
		}
		fmt.Printf("approved subject %q (%s)\n", sub.Title, sub.ID)
	case "notes":
		note, err := cli.contentSvc.ApproveNote(ctx, id)
		if err != nil {
			return err
		}
		fmt.Printf("approved note %q (%s)\n", note.Title, note.ID)
	}
	return nil
}
