package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"loreal-chat/internal/colormath"
	"loreal-chat/internal/config"
	"loreal-chat/internal/conversation"
	"loreal-chat/internal/domain"
	"loreal-chat/internal/relay"
	"loreal-chat/internal/repository"
	"loreal-chat/internal/session"
	"loreal-chat/internal/theme"
)

func main() {
	ctx := context.Background()

	// ---- Configuration (read only here) ----
	statePath := envOr("LOREAL_STATE_PATH", config.DefaultStatePath())
	configPath := envOr("LOREAL_CONFIG", config.DefaultPath())

	// ---- State ----
	// The state table selector must be known before the store exists, so
	// the first resolution runs without the persisted-override source.
	bootCfg := config.Resolve(nil, configPath)
	store, closeStore, err := openStateStore(ctx, bootCfg.StateTable, statePath)
	if err != nil {
		slog.Error("failed to open state store", "err", err)
		os.Exit(1)
	}
	defer closeStore()

	cfg := config.Resolve(store, configPath)

	// ---- Theme ----
	if cfg.Theme != "" {
		theme.SetTheme(store, cfg.Theme)
	} else if name, ok := theme.CurrentTheme(store); ok {
		cfg.Theme = name
	}
	if cfg.Theme != "" {
		slog.Info("using theme", "name", cfg.Theme)
	}

	palette := theme.NewPalette()
	theme.LoadOverrides(store, palette)
	if theme.NewCorrector(store).Run(palette) {
		slog.Info("adjusted theme colors for contrast")
	}

	// ---- Conversation ----
	conv, err := conversation.New(store)
	if err != nil {
		slog.Error("failed to create conversation store", "err", err)
		os.Exit(1)
	}

	client := relay.NewClient(cfg.WorkerURL, cfg.OpenAIKey)
	if !cfg.Configured() {
		slog.Warn("no relay endpoint or API key configured, replies will fail", "config", configPath)
	} else if client.Direct() {
		slog.Warn("using direct API access, intended for development only")
	}

	svc, err := session.NewChatService(conv, client)
	if err != nil {
		slog.Error("failed to create chat service", "err", err)
		os.Exit(1)
	}

	for _, msg := range conv.Init() {
		printMessage(palette, msg)
	}

	repl(ctx, svc, conv, palette)
}

// stateStore is the slice of the repository API the widget components use.
type stateStore interface {
	Get(key string) ([]byte, bool, error)
	Put(key string, value []byte) error
	Delete(key string) error
}

// openStateStore picks the state backend: the DynamoDB table when one is
// configured, the local bolt file otherwise.
func openStateStore(ctx context.Context, tableName, path string) (stateStore, func(), error) {
	if tableName != "" {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("load AWS config: %w", err)
		}
		store, err := repository.NewDynamo(ctx, awsdynamodb.NewFromConfig(awsCfg), tableName)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	}

	store, err := repository.OpenBolt(path)
	if err != nil {
		return nil, nil, err
	}
	return store, func() { _ = store.Close() }, nil
}

func repl(ctx context.Context, svc *session.ChatService, conv *conversation.Store, palette *theme.Palette) {
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			return
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "/quit", "/exit":
			return
		case "/clear":
			conv.Clear()
			printMessage(palette, conversation.Greeting())
			continue
		}

		answer, err := svc.Submit(ctx, line)
		if err != nil {
			fmt.Printf("  [error] %v\n", err)
			continue
		}
		printMessage(palette, domain.Message{Role: domain.RoleAssistant, Content: answer})
	}
}

// printMessage renders one chat bubble. The system directive is never shown.
func printMessage(palette *theme.Palette, msg domain.Message) {
	switch msg.Role {
	case domain.RoleUser:
		fmt.Printf("%s you: %s\n", swatch(palette, theme.VarUserSurface), msg.Content)
	case domain.RoleAssistant:
		fmt.Printf("%s bot: %s\n", swatch(palette, theme.VarBotSurface), msg.Content)
	}
}

// swatch paints two spaces with the bubble's corrected background color so
// the terminal reflects the same palette the corrector adjusted.
func swatch(palette *theme.Palette, name string) string {
	r, g, b, err := colormath.HexToRGB(palette.Get(name))
	if err != nil {
		return "  "
	}
	return fmt.Sprintf("\x1b[48;2;%d;%d;%dm  \x1b[0m", r, g, b)
}

func envOr(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}
