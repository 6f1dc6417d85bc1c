package main

import (
	"os"

	"healthform/cmd"
	"healthform/selfreplace"
)

func main() {
	// The argv protocol hooks must run before any command machinery:
	// a staged process performs the swap and hands off inside
	// RunIfRequested, a freshly relaunched canonical process deletes its
	// staged sibling in CleanupIfRequested. Neither must reach cobra.
	if selfreplace.RunIfRequested(os.Args) {
		return
	}
	args := selfreplace.CleanupIfRequested(os.Args)

	if err := cmd.Execute(args[1:]); err != nil {
		os.Exit(1)
	}
}
