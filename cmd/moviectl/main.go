package main

import "github.com/jasondotparse/movie-library-explorer/internal/cli"

func main() {
	cli.Execute()
}
