package main

import "github.com/theopenlane/recon/cmd"

func main() {
	cmd.Execute()
}
