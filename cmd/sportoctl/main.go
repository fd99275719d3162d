package main

import (
	"fmt"
	"os"

	"github.com/Hustlehub34/Sporto-sub000/internal/cli"
)

func main() {
	if err := cli.NewRoot().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
