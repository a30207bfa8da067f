package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/adalundhe/kindred/core/intent"
	"github.com/adalundhe/kindred/core/orchestrator"
	"github.com/spf13/cobra"
)

var (
	chatMode  string
	chatForce bool
	chatJSON  bool
	chatUser  string
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive conversation",
	Long: `Start an interactive conversation with the agent roster.

Messages route automatically by detected intent unless --mode pins a
specific agent. Type /quit to exit.

Examples:
  kindred chat
  kindred chat --mode vent
  kindred chat --force-match
  kindred chat --json`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVar(&chatMode, "mode", "auto", "agent mode: auto, vent, matchmaker, scribe, pi")
	chatCmd.Flags().BoolVar(&chatForce, "force-match", false, "always run peer matching in auto mode")
	chatCmd.Flags().BoolVar(&chatJSON, "json", false, "print full response envelopes as JSON")
	chatCmd.Flags().StringVar(&chatUser, "user", "", "user identifier for the session")

	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	mode, err := parseMode(chatMode)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, err := newApp(ctx, true)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.manager.Watch(a.logger); err != nil {
		a.logger.Warn("config watch unavailable", "error", err)
	}

	if err := a.store.LoadPersisted(ctx); err != nil {
		a.logger.Warn("could not load persisted profiles", "error", err)
	}

	sess, err := a.sessions.Create(ctx, chatUser, map[string]any{})
	if err != nil {
		return fmt.Errorf("cmd: create session: %w", err)
	}
	a.logger.Info("session started", "session_id", sess.ID)

	fmt.Println("Kindred is listening. Type /quit to exit.")

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "/quit" || line == "/exit" {
			break
		}

		env := a.orchestrator.ProcessMessage(ctx, sess.ID, line, mode, chatForce)
		printEnvelope(env, chatJSON)

		if ctx.Err() != nil {
			break
		}
	}

	return scanner.Err()
}

func parseMode(raw string) (intent.AgentMode, error) {
	switch intent.AgentMode(strings.ToLower(raw)) {
	case intent.ModeAuto:
		return intent.ModeAuto, nil
	case intent.ModeVent:
		return intent.ModeVent, nil
	case intent.ModeMatchmaker:
		return intent.ModeMatchmaker, nil
	case intent.ModeScribe:
		return intent.ModeScribe, nil
	case intent.ModePI:
		return intent.ModePI, nil
	}
	return "", fmt.Errorf("cmd: unknown mode %q", raw)
}

func printEnvelope(env *orchestrator.Envelope, asJSON bool) {
	if asJSON {
		data, err := json.MarshalIndent(env, "", "  ")
		if err == nil {
			fmt.Println(string(data))
		}
		return
	}

	fmt.Println()
	fmt.Println(env.MainResponse)
	if env.PeerMatches != "" {
		fmt.Println(env.PeerMatches)
	}
	if env.SocialDraft != "" {
		fmt.Println()
		fmt.Println(env.SocialDraft)
	}
	if env.AgentUsed != "" {
		fmt.Printf("\n[%s]\n", env.AgentUsed)
	}
	fmt.Println()
}
