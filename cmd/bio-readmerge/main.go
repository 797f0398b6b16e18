package main

import "github.com/grailbio/readmerge/cmd/bio-readmerge/cmd"

func main() {
	cmd.Run()
}
