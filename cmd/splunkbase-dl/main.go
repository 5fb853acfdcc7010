package main

import (
	"splunkbase-dl/cmd/splunkbase-dl/commands"
	"splunkbase-dl/lib/osutil"
)

func main() {
	commands.ExecuteContext(osutil.SignalContext())
}
