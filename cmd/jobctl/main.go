package main

import "github.com/NVIDIA/jobctl/pkg/cli"

func main() {
	cli.Execute()
}
