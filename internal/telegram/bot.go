package telegram

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/driftlab/research-router/internal/config"
	"github.com/driftlab/research-router/internal/entity"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const askTimeout = 120 * time.Second

const startMessage = "Hi! Send me any question and I will route it to the right " +
	"research agents (web search, arXiv, uploaded documents) and synthesize an answer.\n\n" +
	"Use the HTTP API to upload documents first if you want document-grounded answers."

// QueryUsecase answers a routed research question.
type QueryUsecase interface {
	Ask(ctx context.Context, req *entity.AskRequest) (*entity.AskResult, error)
}

// Bot answers questions over Telegram long polling.
type Bot struct {
	api      *tgbotapi.BotAPI
	cfg      *config.TelegramConfig
	queryUC  QueryUsecase
	logger   *zap.Logger
	stopChan chan struct{}
	wg       sync.WaitGroup
}

// NewBot creates and authorizes the Telegram bot
func NewBot(cfg *config.TelegramConfig, queryUC QueryUsecase, logger *zap.Logger) (*Bot, error) {
	if cfg.BotToken == "" {
		return nil, fmt.Errorf("telegram bot token is not set")
	}

	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("create bot API: %w", err)
	}
	api.Debug = cfg.Debug

	logger.Info("telegram bot authorized",
		zap.String("username", api.Self.UserName),
		zap.Int64("id", api.Self.ID),
	)

	return &Bot{
		api:      api,
		cfg:      cfg,
		queryUC:  queryUC,
		logger:   logger,
		stopChan: make(chan struct{}),
	}, nil
}

// Start begins processing updates until the context is cancelled
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.cfg.UpdateTimeout

	updates := b.api.GetUpdatesChan(u)
	ctx = ctxzap.ToContext(ctx, b.logger)

	b.logger.Info("telegram bot started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-b.stopChan:
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}

			b.wg.Add(1)
			go func(msg *tgbotapi.Message) {
				defer b.wg.Done()
				b.handleMessage(ctx, msg)
			}(update.Message)
		}
	}
}

// Stop stops receiving updates and waits for in-flight handlers
func (b *Bot) Stop() error {
	b.logger.Info("stopping telegram bot")

	close(b.stopChan)
	b.api.StopReceivingUpdates()

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		b.logger.Info("all handlers completed gracefully")
		return nil
	case <-time.After(30 * time.Second):
		b.logger.Warn("shutdown timeout exceeded, some handlers may not have completed")
		return fmt.Errorf("shutdown timeout exceeded")
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("panic in message handler",
				zap.Any("panic", r),
				zap.Int64("chat_id", msg.Chat.ID),
			)
			b.reply(msg.Chat.ID, "Something went wrong, please try again.")
		}
	}()

	if msg.IsCommand() {
		switch msg.Command() {
		case "start", "help":
			b.reply(msg.Chat.ID, startMessage)
		default:
			b.reply(msg.Chat.ID, "Unknown command. Just send me a question.")
		}
		return
	}

	question := strings.TrimSpace(msg.Text)
	if question == "" {
		b.reply(msg.Chat.ID, "Send me a text question to get started.")
		return
	}

	// Show "typing..." while agents run
	if _, err := b.api.Request(tgbotapi.NewChatAction(msg.Chat.ID, tgbotapi.ChatTyping)); err != nil {
		b.logger.Debug("failed to send chat action", zap.Error(err))
	}

	askCtx, cancel := context.WithTimeout(ctx, askTimeout)
	defer cancel()

	result, err := b.queryUC.Ask(askCtx, &entity.AskRequest{Query: question})
	if err != nil {
		ctxzap.Error(ctx, "ask failed",
			zap.Error(err),
			zap.Int64("chat_id", msg.Chat.ID),
		)
		b.reply(msg.Chat.ID, "I could not answer that, please try again.")
		return
	}

	ctxzap.Info(ctx, "question answered",
		zap.Int64("chat_id", msg.Chat.ID),
		zap.Any("agents", result.AgentsUsed),
	)

	b.reply(msg.Chat.ID, formatAnswer(result))
}

func formatAnswer(result *entity.AskResult) string {
	agents := make([]string, len(result.AgentsUsed))
	for i, a := range result.AgentsUsed {
		agents[i] = string(a)
	}
	return fmt.Sprintf("%s\n\nAgents used: %s", result.Answer, strings.Join(agents, ", "))
}

func (b *Bot) reply(chatID int64, text string) {
	reply := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(reply); err != nil {
		b.logger.Error("failed to send message",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
		)
	}
}
