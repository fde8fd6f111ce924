package main

import (
	"github.com/rafau/kiwi-rates/internal/cli"
)

func main() {
	cli.Execute()
}
