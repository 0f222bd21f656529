package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface is the command surface the REPL drives. The real App type
// satisfies it; tests can provide a lightweight stub.
type execIface interface {
	Execute(ctx context.Context, cmd string, args []string) error
}

// runREPL reads commands line by line from reader and hands them to a.
//
// The first token of a line is the command, the rest are its arguments.
// Errors returned by a are printed and the loop goes on. The loop ends on
// EOF or when the user types "exit" or "quit".
//
// Prompts of interactive commands read from the same reader, so the REPL
// must not buffer ahead of them.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("fd %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "exit", "quit":
			printlnFn("Bye!")
			return
		}

		if err := a.Execute(ctx, cmd, parts[1:]); err != nil {
			if errors.Is(err, errUnknownCommand) {
				printlnFn("Unknown command:", cmd)
			} else {
				printlnFn("Error:", err)
			}
		}
	}
}
