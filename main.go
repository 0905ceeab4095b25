package main

import (
	"github.com/tanpawarit/persona-agent/cmd"
	_ "github.com/tanpawarit/persona-agent/pkg/logger/autoload"
)

func main() {
	cmd.Execute()
}
