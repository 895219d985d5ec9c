package main

import (
	"github.com/joho/godotenv"
	"ragserve/internal/cli"
)

func main() {
	_ = godotenv.Load()
	cli.Execute()
}
