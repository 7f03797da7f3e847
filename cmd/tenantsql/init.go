package main

import (
	"os"

	"github.com/tenantsql/tenantsql/internal/initcmd"
)

func initCmd() {
	os.Exit(initcmd.Run(os.Args[2:], initcmd.Options{}))
}
