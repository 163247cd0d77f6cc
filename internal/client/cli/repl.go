package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
)

const prompt = "solcraft> "

// Root runs the interactive prompt until EOF, "exit" or ctx cancellation.
// Command errors are reported and do not end the session.
func (a *App) Root(ctx context.Context) {
	fmt.Fprintf(a.out, "Connected to %s (type 'help' for commands)\n", a.config.ServerEndpointAddr)

	for ctx.Err() == nil {
		line, err := GetSimpleText(a.reader, prompt, a.out)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				fmt.Fprintln(a.out, "error:", err)
			}
			fmt.Fprintln(a.out)
			return
		}

		args, err := splitLine(line)
		if err != nil {
			fmt.Fprintln(a.out, "error:", err)
			continue
		}
		if len(args) == 0 {
			continue
		}

		switch args[0] {
		case "help":
			Usage(a.out)
		case "exit", "quit":
			fmt.Fprintln(a.out, "Bye!")
			return
		default:
			if err := a.Execute(ctx, args); err != nil {
				fmt.Fprintln(a.out, "error:", err)
			}
		}
	}
}
