package main

import "github.com/csantanna/meetup-bot/internal/cli"

func main() {
	cli.Execute()
}
