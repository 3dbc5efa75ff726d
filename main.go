package main

import (
	_ "time/tzdata"

	"github.com/Yates-Labs/recap/cmd"
)

func main() {
	cmd.Execute()
}
