package main

import "github.com/civicresolve/backend/internal/cli"

func main() {
	cli.Execute()
}
