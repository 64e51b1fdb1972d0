package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/ebridges/metaproc/cli"
	"github.com/ebridges/metaproc/config"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Info: No .env file found or error loading: %v", err)
	}
	cli.Execute(config.LoadConfig())
}
