// Package main is an interactive console harness for the conversation
// engine. It drives the same state machine the WhatsApp webhook does,
// which makes flow changes testable without a phone.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/AniketThakur-404/chatapp/internal/bot"
	"github.com/AniketThakur-404/chatapp/internal/clock"
)

const consoleUser = "console-user"

func main() {
	logger := zap.NewNop()
	if os.Getenv("DEBUG") != "" {
		var err error
		logger, err = zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
			os.Exit(1)
		}
	}
	defer func() { _ = logger.Sync() }()

	store := bot.NewStore()
	engine := bot.NewEngine(store, bot.NewPriceBook(), clock.New(), logger)

	fmt.Println("UNLAYR console. Type a message, or 'exit' to quit.")
	fmt.Println("Send anything to begin.")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "exit" || input == "quit" {
			break
		}

		printResponse(engine.ProcessMessage(consoleUser, input))
	}

	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "input error: %v\n", err)
		os.Exit(1)
	}
}

func printResponse(resp bot.Response) {
	fmt.Println()
	fmt.Println(resp.Text)
	if len(resp.Buttons) > 0 {
		fmt.Println()
		for i, b := range resp.Buttons {
			fmt.Printf("  %d. %s\n", i+1, b)
		}
	}
	fmt.Println()
}
