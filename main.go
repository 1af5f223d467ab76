package main

import (
	"github.com/axellelanca/linkpool/cmd"
	_ "github.com/axellelanca/linkpool/cmd/cli"    // registers create, stats and migrate
	_ "github.com/axellelanca/linkpool/cmd/server" // registers run-server
)

func main() {
	cmd.Execute()
}
