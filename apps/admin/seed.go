package main

import (
	"context"
	"fmt"
)

// seed inserts the built-in approved subjects, skipping existing titles.
func (cli *commandLine) seed() error {
	inserted, err := cli.contentSvc.Seed(context.Background())
	if err != nil {
		return err
	}
	if len(inserted) == 0 {
		fmt.Println("nothing to seed; all subjects already present")
		return nil
	}
	for _, sub := range inserted {
		fmt.Printf("seeded subject %q (%s)\n", sub.Title, sub.ID)
	}
	return nil
}
