package main

import "github.com/frahmantamala/tenant-crm/cmd"

func main() {
	cmd.Execute()
}
