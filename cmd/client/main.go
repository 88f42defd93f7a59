package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/mama165/sdk-go/logs"

	"chat-core/client"
	"chat-core/domain/event"
)

// Exit codes for the client application.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

// Config defines the client-side environment variables.
type Config struct {
	GatewayURL string `env:"CHAT_GATEWAY_URL,default=ws://localhost:8080/ws"`
	Token      string `env:"CHAT_TOKEN,required=true"`
	LogLevel   string `env:"LOG_LEVEL,required=true"`
}

func main() {
	// The main function manages the OS exit code based on run()'s return.
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Client error: %v", err)
	}
	os.Exit(code)
}

// run handles the live-connection lifecycle: configuration loading,
// subscription wiring and the blocking wait for termination signals.
func run() (int, error) {
	// 1. Load configuration from environment variables.
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}

	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Setup context to handle termination signals (Ctrl+C).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Build the delivery client on a static credential.
	c := client.New(client.Config{
		URL: config.GatewayURL,
		Credentials: func(context.Context) (string, error) {
			return config.Token, nil
		},
		Log: log,
	})

	c.Subscribe(event.TypeMessageNew, func(env event.Envelope) {
		e, err := client.DecodeMessageNew(env)
		if err != nil {
			log.Warn("undecodable message event", "error", err)
			return
		}
		log.Info(fmt.Sprintf("[%s] %s: %s",
			e.Message.CreatedAt.Format(time.TimeOnly),
			e.Message.Sender.DisplayName,
			e.Message.Text,
		))
	})
	c.Subscribe(event.TypeTypingStart, func(env event.Envelope) {
		if e, err := client.DecodeTyping(env); err == nil {
			log.Info(fmt.Sprintf("%s is typing...", e.UserID))
		}
	})
	c.Subscribe(event.TypeTypingStop, func(env event.Envelope) {
		if e, err := client.DecodeTyping(env); err == nil {
			log.Info(fmt.Sprintf("%s stopped typing", e.UserID))
		}
	})

	// 4. Connect and listen until shutdown.
	if err := c.Connect(ctx); err != nil {
		return exitRuntime, fmt.Errorf("could not connect to gateway at %s: %w", config.GatewayURL, err)
	}
	defer c.Close()

	log.Info(fmt.Sprintf(">>> Connected to %s! Listening (Ctrl+C to quit)...", config.GatewayURL))

	<-ctx.Done()
	log.Info("Stopping client...")
	return exitOK, nil
}
