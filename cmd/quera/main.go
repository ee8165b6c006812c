package main

import (
	"context"

	"queracli/cmd/quera/commands"
	"queracli/lib/osutil"
)

func main() {
	ctx, cancel := osutil.SignalContext(context.Background())
	defer cancel()

	commands.ExecuteContext(ctx)
}
