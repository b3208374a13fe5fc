package main

import (
	"petharvest-backend/cmd/petharvest/cmd"
)

func main() {
	cmd.Execute()
}
