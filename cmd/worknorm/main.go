package main

import "github.com/quillon-labs/worknorm/internal/adapters/driving/cli"

func main() {
	cli.Execute()
}
