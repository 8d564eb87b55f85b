package main

import (
	"os"

	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
