package main

import (
	"context"
	"fmt"
	"os"

	"github.com/stefanpenner/quest/pkg/tui"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, tui.ErrorStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}
