package main

import "github.com/stuttgart-things/kubeseal-auto/cmd"

func main() {
	cmd.Execute()
}
