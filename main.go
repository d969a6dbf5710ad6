// Command triageir is the live-triage collection engine for Windows
// endpoints.
package main

import (
	"os"

	"triageir/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
