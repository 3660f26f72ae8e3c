package main

import "github.com/santiagomed/llmutil/internal/cli"

func main() {
	cli.Execute()
}
