package main

import (
	"fmt"
	"os"

	"github.com/okian/classrank/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "classrank:", err)
		os.Exit(1)
	}
}
