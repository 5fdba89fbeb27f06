package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/crystaldolphin/toolchat/internal/agent"
	"github.com/crystaldolphin/toolchat/internal/dependency"
	"github.com/crystaldolphin/toolchat/internal/session"
	"github.com/crystaldolphin/toolchat/internal/shared/cmdutils"
	"github.com/crystaldolphin/toolchat/internal/shared/llmutils"
)

var (
	chatMessage     string
	chatSession     string
	chatNoTools     bool
	chatTemperature float64
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the assistant",
	RunE:  runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatMessage, "message", "m", "", "Send a single message and exit")
	chatCmd.Flags().StringVarP(&chatSession, "session", "s", "", "Session ID (default: a new session)")
	chatCmd.Flags().BoolVar(&chatNoTools, "no-tools", false, "Do not offer tools to the model")
	chatCmd.Flags().Float64VarP(&chatTemperature, "temperature", "t", 0, "Sampling temperature 0-2 (default from config)")
}

var exitCommands = map[string]bool{
	"exit":  true,
	"quit":  true,
	"/exit": true,
	"/quit": true,
	":q":    true,
}

const chatHelp = `Commands:
  /clear   forget this session's history
  /stats   show session statistics
  /tools   list available tools
  /help    show this help
  exit     leave`

// chatShell holds the per-invocation state of the chat command.
type chatShell struct {
	orch   *agent.Orchestrator
	store  *session.Store
	id     string
	req    agent.TurnRequest
	out    io.Writer
	errOut io.Writer
}

func runChat(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(true)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	container, err := dependency.New(ctx, cfg, dependency.Options{})
	if err != nil {
		return err
	}
	defer container.Close()

	sessions := container.Sessions()
	var (
		id    = chatSession
		store *session.Store
	)
	if id == "" {
		id, store = sessions.Create()
	} else {
		store = sessions.GetOrCreate(id)
	}

	sh := &chatShell{
		orch:   container.Orchestrator(),
		store:  store,
		id:     id,
		req:    agent.TurnRequest{UseTools: cfg.Agent.ToolsEnabled && !chatNoTools},
		out:    cmd.OutOrStdout(),
		errOut: os.Stderr,
	}
	if cmd.Flags().Changed("temperature") {
		if chatTemperature < 0 || chatTemperature > 2 {
			return fmt.Errorf("temperature must be between 0 and 2, got %g", chatTemperature)
		}
		t := chatTemperature
		sh.req.Temperature = &t
	}

	if chatMessage != "" {
		turnCtx, turnCancel := context.WithTimeout(ctx, 5*time.Minute)
		defer turnCancel()
		return sh.turn(turnCtx, chatMessage)
	}

	listenForSignals(cancel)
	return sh.repl(ctx, os.Stdin)
}

// turn runs one user message and prints the reply.
func (sh *chatShell) turn(ctx context.Context, text string) error {
	fmt.Fprintf(sh.errOut, "  ↳ thinking...\n")
	req := sh.req
	req.Text = text
	res := sh.orch.HandleTurn(ctx, sh.store, req)
	if res.Skipped {
		return nil
	}
	if len(res.ToolCalls) > 0 {
		fmt.Fprintf(sh.errOut, "  ↳ %s\n", llmutils.ToolHint(res.ToolCalls))
	}
	cmdutils.PrintResponse(sh.out, res.Reply)
	return res.Err
}

// repl reads lines until EOF or an exit command.
func (sh *chatShell) repl(ctx context.Context, in io.Reader) error {
	fmt.Fprintf(sh.out, "%s Interactive mode, session %s (type /help for commands)\n\n", cmdutils.Logo, sh.id)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(sh.out, "You: ")
		if !scanner.Scan() {
			fmt.Fprintln(sh.out, "\nGoodbye!")
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if exitCommands[strings.ToLower(line)] {
			fmt.Fprintln(sh.out, "Goodbye!")
			return nil
		}
		if sh.command(line) {
			continue
		}
		// Backend failures are already shown inline; the session continues.
		_ = sh.turn(ctx, line)
		if ctx.Err() != nil {
			return nil
		}
	}
}

// command handles slash commands and reports whether line was one.
func (sh *chatShell) command(line string) bool {
	switch strings.ToLower(line) {
	case "/clear":
		n := sh.store.Clear()
		fmt.Fprintf(sh.out, "Cleared %d messages from history\n\n", n)
	case "/stats":
		s := sh.orch.Settings()
		fmt.Fprintf(sh.out, "Session:   %s\n", sh.id)
		fmt.Fprintf(sh.out, "Messages:  %d (replaying last %d)\n", sh.store.Len(), sh.store.MaxRetained())
		fmt.Fprintf(sh.out, "Model:     %s\n", s.Model)
		fmt.Fprintf(sh.out, "Tools:     %d (enabled: %t)\n", sh.orch.Registry().Len(), sh.req.UseTools)
		fmt.Fprintf(sh.out, "Sessions:  %d\n\n", sh.orch.Sessions().Len())
	case "/tools":
		fmt.Fprintln(sh.out, sh.orch.Registry().DescribeAll())
		fmt.Fprintln(sh.out)
	case "/help":
		fmt.Fprintln(sh.out, chatHelp)
		fmt.Fprintln(sh.out)
	default:
		return false
	}
	return true
}

// listenForSignals cancels ctx on SIGINT or SIGTERM and exits.
func listenForSignals(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		fmt.Printf("\nReceived %s, shutting down...\nGoodbye!\n", sig)
		cancel()
		os.Exit(0)
	}()
}
