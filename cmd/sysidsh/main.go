package main

import (
	"github.com/robotalks/sysid.go/pkg/cli/sh"
	"github.com/robotalks/sysid.go/pkg/excitation"
	"github.com/robotalks/sysid.go/pkg/host"
	"github.com/robotalks/sysid.go/pkg/publish/mqtt"

	_ "github.com/robotalks/sysid.go/pkg/cli/cmds/experiment"
)

func init() {
	excitation.SetupFlags()
	host.SetupFlags()
	mqtt.SetupFlags()
}

func main() {
	sh.Main()
}
