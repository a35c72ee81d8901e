package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/praekeltfoundation/puppet-gluster/glusterconverge/cmd"
)

func main() {
	cmd.RootCmd.SilenceErrors = true

	if err := cmd.RootCmd.Execute(); err != nil {
		if !errors.Is(err, cmd.ErrResourcesFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
