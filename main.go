package main

import (
	"os"

	"github.com/rs/zerolog/log"

	"github.com/perfgo/faultdump/cli"
)

// Version information, set by goreleaser via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	c := cli.New()
	c.SetVersion(version, commit, date)
	if err := c.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("faultdump failed")
	}
}
