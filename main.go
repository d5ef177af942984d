package main

import "github.com/enesBerkSakalli/phylo-movies-sub009/cmd"

func main() {
	cmd.Execute()
}
