package main

import "github.com/nfrund/authpanel/cmd/authpanel/cmd"

func main() {
	cmd.Execute()
}
