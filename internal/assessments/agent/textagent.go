package agent

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"google.golang.org/adk/agent"
	"google.golang.org/adk/agent/llmagent"
	"google.golang.org/adk/runner"
	"google.golang.org/adk/session"
	"google.golang.org/genai"

	"studio_backend/platform/ai/textmodel"
)

// textAgent wraps an ADK llm agent that turns one prompt into one text
// completion. Both the suggester and the proposer build on it.
type textAgent struct {
	runner         *runner.Runner
	sessionService session.Service
	appName        string
	runMu          sync.Mutex
}

func newTextAgent(cfg textmodel.Config, name, description, instruction string) (*textAgent, error) {
	model := textmodel.New(cfg)

	adkAgent, err := llmagent.New(llmagent.Config{
		Name:        name,
		Model:       model,
		Description: description,
		Instruction: instruction,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create %s agent: %w", name, err)
	}

	sessionService := session.InMemoryService()
	r, err := runner.New(runner.Config{
		AppName:        name,
		Agent:          adkAgent,
		SessionService: sessionService,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create %s runner: %w", name, err)
	}

	return &textAgent{
		runner:         r,
		sessionService: sessionService,
		appName:        name,
	}, nil
}

func (t *textAgent) run(ctx context.Context, userID, promptText string) (string, error) {
	t.runMu.Lock()
	defer t.runMu.Unlock()

	sessionID := uuid.New().String()
	_, err := t.sessionService.Create(ctx, &session.CreateRequest{
		AppName:   t.appName,
		UserID:    userID,
		SessionID: sessionID,
	})
	if err != nil {
		return "", fmt.Errorf("%s: create session: %w", t.appName, err)
	}
	defer func() {
		_ = t.sessionService.Delete(ctx, &session.DeleteRequest{
			AppName:   t.appName,
			UserID:    userID,
			SessionID: sessionID,
		})
	}()

	userMessage := &genai.Content{
		Role: "user",
		Parts: []*genai.Part{{
			Text: promptText,
		}},
	}

	runConfig := agent.RunConfig{StreamingMode: agent.StreamingModeNone}

	var outputText strings.Builder
	for event, err := range t.runner.Run(ctx, userID, sessionID, userMessage, runConfig) {
		if err != nil {
			return "", fmt.Errorf("%s: run failed: %w", t.appName, err)
		}
		if event.Content == nil {
			continue
		}
		for _, part := range event.Content.Parts {
			outputText.WriteString(part.Text)
		}
	}

	return strings.TrimSpace(outputText.String()), nil
}
