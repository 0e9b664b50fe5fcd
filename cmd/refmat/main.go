// Copyright © 2018 One Concern

package main

import (
	"github.com/oneconcern/refmat/cmd/refmat/cmd"
)

func main() {
	cmd.Execute()
}
