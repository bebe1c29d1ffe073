// enigma simulates rotor cipher machines described by a rotor catalog.
//
// Usage:
//
//	enigma run <catalog> [input] [output]
//	enigma validate <catalog>
//	enigma trace <catalog> --settings "* B Beta III IV I AXLE" --text HELLO
//	enigma convert <catalog> --to yaml
//	enigma test <scenarios-dir>
package main

import (
	"fmt"
	"os"

	"github.com/roach88/enigma/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
