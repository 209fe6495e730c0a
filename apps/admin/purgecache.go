package main

import (
	"fmt"

	"github.com/kundihq/kundi/storage/cache"
)

func (cli *commandLine) purgeCache() error {
	store, err := cache.New(cli.conf, cli.logger)
	if err != nil {
		return err
	}
	if err := store.Purge(); err != nil {
		return err
	}
	fmt.Println("cache purged")
	return nil
}
