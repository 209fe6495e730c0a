package main

import (
	"context"
	"fmt"

	"github.com/kundihq/kundi/core/editing"
	"github.com/kundihq/kundi/core/roster"
)

// fixNames normalizes every badly formatted name in the roster. A dry-run by
// default; -apply sends one write per changed record. Not transactional: a
// failure partway leaves the earlier writes in place.
func (cli *commandLine) fixNames(apply bool) error {
	ctx := context.Background()
	svc, client, err := cli.rosterService(ctx, false)
	if err != nil {
		return err
	}

	var updates []editing.BatchUpdate
	for _, s := range svc.Students() {
		if !s.NameAnomaly {
			continue
		}
		fixed := roster.FixName(s.Name)
		if fixed == s.Name {
			continue
		}
		target := s
		target.Name = fixed
		updates = append(updates, editing.BatchUpdate{Original: s, Target: target})
		fmt.Printf("%-36s  %q -> %q\n", s.ID, s.Name, fixed)
	}

	if len(updates) == 0 {
		fmt.Println("nothing to fix")
		return nil
	}
	if !apply {
		fmt.Printf("\n%d names would change; re-run with -apply to write them\n", len(updates))
		return nil
	}

	cmd := editing.NewBatchUpdateCommand("Fix name formatting", updates, client, svc)
	if err := cmd.Execute(ctx); err != nil {
		return err
	}
	fmt.Printf("\n%d names fixed\n", len(updates))
	return nil
}
