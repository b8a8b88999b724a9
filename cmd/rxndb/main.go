// Package main provides the rxndb CLI application.
// rxndb manages the lifecycle of a radiation-chemistry reaction
// database.
package main

import (
	"github.com/radreactions/rxndb/cmd"
)

func main() {
	cmd.Execute()
}
