package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/statline/dugout/internal/session"
)

// runREPL reads one line at a time and fully resolves it, tool calls
// included, before prompting again. Only quit/exit ends the loop; every
// turn failure is printed and the loop continues.
func runREPL(sess *session.Session) {
	active := sess.ActiveModel()
	fmt.Println("Baseball Stats Assistant")
	fmt.Println("Ask questions about MLB statistics!")
	fmt.Printf("Current model: %s (%s)\n", strings.ToUpper(active.Key), active.Description)
	fmt.Println("Commands: 'quit', 'clear', 'usage', 'model <key>'")
	fmt.Println()

	ctx := context.Background()
	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("You: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			// EOF (Ctrl+D) ends the session like quit.
			fmt.Println()
			break
		}

		outcome := sess.HandleInput(ctx, line)
		if outcome.Output != "" {
			fmt.Print(outcome.Output)
		}
		if outcome.Quit {
			break
		}
	}

	fmt.Println("Goodbye!")
}
