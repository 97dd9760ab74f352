package main

import (
	"github.com/marpio/photostat/cmd/photostat-cli/cmd"
	_ "github.com/mattn/go-sqlite3"
)

func main() {
	cmd.Execute()
}
