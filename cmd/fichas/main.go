package main

import (
	"github.com/brogergvhs/fichas/cmd"

	_ "github.com/joho/godotenv/autoload"
)

var version = "dev"

func main() {
	cmd.Version = version
	cmd.Execute()
}
