package main

import (
	"context"
	"fmt"
)

// audit prints every student whose recorded grade disagrees with the expected
// one, plus any hygiene anomalies. Read-only.
func (cli *commandLine) audit(refresh bool) error {
	ctx := context.Background()
	svc, _, err := cli.rosterService(ctx, refresh)
	if err != nil {
		return err
	}

	students := svc.Students()
	discrepancies, anomalies := 0, 0
	for _, s := range students {
		if !s.Consistent() {
			discrepancies++
			fmt.Printf("%-36s  %-25s grade %2d, expected %2d (delta %+d)\n", s.ID, s.Name, s.Grade, s.Expected, s.Delta)
		}
		if s.HasHygieneAnomaly() {
			anomalies++
			fmt.Printf("%-36s  %-25s hygiene:", s.ID, s.Name)
			if s.NameAnomaly {
				fmt.Print(" name")
			}
			if s.EmailAnomaly {
				fmt.Print(" email")
			}
			if s.PhoneAnomaly {
				fmt.Print(" phone")
			}
			if s.AddressAnomaly {
				fmt.Print(" address")
			}
			fmt.Println()
		}
	}

	fmt.Printf("\n%d students, %d grade discrepancies, %d with hygiene anomalies\n", len(students), discrepancies, anomalies)
	return nil
}
