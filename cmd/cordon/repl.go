package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/cordon-lang/cordon/interp"
)

func newReplCmd(app *appState) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Interactively execute commands, reloading the policy on change",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepl(app, cmd)
		},
	}
}

func runRepl(app *appState, cmd *cobra.Command) error {
	current, err := app.buildInterpreter()
	if err != nil {
		return err
	}

	var mu sync.Mutex
	get := func() *interp.Interpreter {
		mu.Lock()
		defer mu.Unlock()
		return current
	}

	logger := app.logger()

	// Live-reload the interpreter when the policy file changes. A reload
	// failure keeps the previous interpreter.
	if app.policyPath != "" {
		watcher, werr := fsnotify.NewWatcher()
		if werr != nil {
			return werr
		}
		defer watcher.Close()
		if werr := watcher.Add(app.policyPath); werr != nil {
			return werr
		}

		go func() {
			for {
				select {
				case event, ok := <-watcher.Events:
					if !ok {
						return
					}
					if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
						continue
					}
					next, berr := app.buildInterpreter()
					if berr != nil {
						logger.Warn("policy reload failed, keeping previous policy", "error", berr)
						continue
					}
					mu.Lock()
					current = next
					mu.Unlock()
					logger.Info("policy reloaded", "path", app.policyPath)
				case werr, ok := <-watcher.Errors:
					if !ok {
						return
					}
					logger.Warn("policy watcher error", "error", werr)
				}
			}
		}()
	}

	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	out := cmd.OutOrStdout()
	if interactive {
		fmt.Fprintln(out, "cordon repl — type a command, or exit to quit")
	}

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		if interactive {
			fmt.Fprint(out, "> ")
		}
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}

		result, err := app.execute(get(), line)
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			continue
		}
		fmt.Fprintln(out, result)
	}
	return scanner.Err()
}
