package main

import (
	"os"

	"github.com/NickAlarcon7/Get-It-Done-App/internal/cli"
)

func main() {
	os.Exit(cli.Execute(os.Args[1:], os.Stdout, os.Stderr))
}
