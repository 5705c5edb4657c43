package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/leofalp/chatbridge/core/client"
	"github.com/leofalp/chatbridge/core/client/middleware"
	"github.com/leofalp/chatbridge/internal/config"
	"github.com/leofalp/chatbridge/internal/utils"
	"github.com/leofalp/chatbridge/providers/ai"
	slogobs "github.com/leofalp/chatbridge/providers/observability/slog"
	"github.com/leofalp/chatbridge/providers/registry"
)

var chatOpts struct {
	model       string
	system      string
	image       string
	auth        string
	proxy       string
	noStream    bool
	temperature float64
	maxTokens   int
	timeout     time.Duration
	verbosity   string
}

func init() {
	rootCmd.AddCommand(chatCmd)

	flags := chatCmd.Flags()
	flags.StringVarP(&chatOpts.model, "model", "m", "", "model id or alias (provider default when empty)")
	flags.StringVarP(&chatOpts.system, "system", "s", "", "system message")
	flags.StringVar(&chatOpts.image, "image", "", "path of an image to attach to the prompt")
	flags.StringVar(&chatOpts.auth, "auth", "", "explicit session auth code (liaobots)")
	flags.StringVar(&chatOpts.proxy, "proxy", "", "proxy URL (http, https, socks5, socks5h)")
	flags.BoolVar(&chatOpts.noStream, "no-stream", false, "use the non-streaming endpoint when the provider has one")
	flags.Float64Var(&chatOpts.temperature, "temperature", -1, "sampling temperature (provider default when negative)")
	flags.IntVar(&chatOpts.maxTokens, "max-tokens", 0, "maximum output tokens (provider default when 0)")
	flags.DurationVar(&chatOpts.timeout, "timeout", 0, "deadline for the whole reply (none when 0)")
	flags.StringVar(&chatOpts.verbosity, "request-log", "standard", "request log detail: minimal, standard, verbose")
}

var chatCmd = &cobra.Command{
	Use:   "chat [prompt...]",
	Short: "Send a prompt and stream the reply",
	Long:  "Send a prompt and stream the reply to stdout. Without arguments the prompt is read from stdin.",
	RunE: func(cmd *cobra.Command, args []string) error {
		prompt, err := readPrompt(args, cmd.InOrStdin())
		if err != nil {
			return err
		}

		request, err := buildChatRequest(cfg, prompt)
		if err != nil {
			return err
		}

		provider, err := newProvider(cfg, cfg.DefaultProvider)
		if err != nil {
			return err
		}

		c, err := newClient(provider, slog.Default())
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return runChat(ctx, c, request, cmd.OutOrStdout())
	},
}

// readPrompt joins the arguments, or reads stdin when there are none.
func readPrompt(args []string, stdin io.Reader) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read prompt: %w", err)
	}
	prompt := strings.TrimSpace(string(data))
	if prompt == "" {
		return "", fmt.Errorf("empty prompt")
	}
	return prompt, nil
}

// buildChatRequest turns the flags and configuration into a ChatRequest.
func buildChatRequest(cfg *config.Config, prompt string) (ai.ChatRequest, error) {
	model := chatOpts.model
	if model == "" {
		model = cfg.Provider(cfg.DefaultProvider).Model
	}
	proxy := chatOpts.proxy
	if proxy == "" {
		proxy = cfg.Proxy
	}

	request := ai.ChatRequest{
		Model:         model,
		Messages:      []ai.Message{{Role: ai.RoleUser, Content: prompt}},
		Stream:        !chatOpts.noStream,
		Proxy:         proxy,
		SystemMessage: chatOpts.system,
		Auth:          chatOpts.auth,
	}

	if chatOpts.temperature >= 0 || chatOpts.maxTokens > 0 {
		request.GenerationConfig = &ai.GenerationConfig{}
		if chatOpts.temperature >= 0 {
			request.GenerationConfig.Temperature = utils.Ptr(chatOpts.temperature)
		}
		if chatOpts.maxTokens > 0 {
			request.GenerationConfig.MaxOutputTokens = utils.Ptr(chatOpts.maxTokens)
		}
	}

	if chatOpts.image != "" {
		data, err := os.ReadFile(chatOpts.image)
		if err != nil {
			return ai.ChatRequest{}, fmt.Errorf("read image: %w", err)
		}
		request.Image = &ai.Image{Data: data}
	}

	return request, nil
}

// newProvider builds the named provider with the overrides of its config section.
func newProvider(cfg *config.Config, name string) (ai.Provider, error) {
	section := cfg.Provider(name)
	return registry.New(registry.Config{
		Name:    name,
		APIKey:  section.APIKey,
		BaseURL: section.BaseURL,
	})
}

// newClient wraps provider with tracing and the middlewares the flags ask for.
func newClient(provider ai.Provider, logger *slog.Logger) (*client.Client, error) {
	var middlewares []client.Middleware
	if chatOpts.timeout > 0 {
		middlewares = append(middlewares, middleware.NewTimeoutMiddleware(chatOpts.timeout))
	}
	middlewares = append(middlewares, middleware.NewLoggingMiddleware(logger, middleware.ParseLogLevel(chatOpts.verbosity)))

	return client.New(provider,
		client.WithObserver(slogobs.New(logger)),
		client.WithMiddleware(middlewares...),
	)
}

// runChat streams the reply to out. Text already written stays in place when
// the stream fails part way.
func runChat(ctx context.Context, c *client.Client, request ai.ChatRequest, out io.Writer) error {
	stream, err := c.Stream(ctx, request)
	if err != nil {
		return err
	}

	for fragment, err := range stream.Iter() {
		if err != nil {
			fmt.Fprintln(out)
			return err
		}
		if _, err := io.WriteString(out, fragment); err != nil {
			return err
		}
	}
	fmt.Fprintln(out)

	return nil
}
