// Package agent implements the conversational orchestrator: a
// tool-calling loop where the model decides which lookup tools to run
// and composes the final recommendation. Which tools run, and how
// often, is the model's decision, not fixed application logic.
package agent

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/xid"
	openai "github.com/sashabaranov/go-openai"

	"github.com/medisave/genericmeds-api/interfaces"
	"github.com/medisave/genericmeds-api/logging"
)

// Compile-time check to ensure Agent implements Orchestrator
var _ interfaces.Orchestrator = (*Agent)(nil)

// Agent drives the tool-calling loop. Reasoning runs on the chat
// backend; the two grounding-dependent tools run on a separate
// search-capable backend owned by the PriceSearcher.
type Agent struct {
	chat     interfaces.ChatBackend
	resolver interfaces.MedicineResolver
	prices   interfaces.PriceSearcher
	model    string
	maxTurns int
}

// New creates an agent with injected backends
func New(chat interfaces.ChatBackend, resolver interfaces.MedicineResolver, prices interfaces.PriceSearcher, model string, maxTurns int) *Agent {
	return &Agent{
		chat:     chat,
		resolver: resolver,
		prices:   prices,
		model:    model,
		maxTurns: maxTurns,
	}
}

// Run answers one user query. Each search gets an xid used to correlate
// log lines across the tool calls it triggers.
func (a *Agent) Run(ctx context.Context, query string) (*interfaces.Answer, error) {
	searchID := xid.New().String()

	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
		{Role: openai.ChatMessageRoleUser, Content: query},
	}
	tools := toolDefinitions()

	for turn := 1; turn <= a.maxTurns; turn++ {
		resp, err := a.chat.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:    a.model,
			Messages: messages,
			Tools:    tools,
		})
		if err != nil {
			return nil, fmt.Errorf("chat completion failed: %w", err)
		}
		if len(resp.Choices) == 0 {
			return nil, errors.New("chat backend returned no choices")
		}

		msg := resp.Choices[0].Message
		if len(msg.ToolCalls) == 0 {
			logging.Debug("Agent produced final answer",
				"search_id", searchID,
				"turns", turn)
			return &interfaces.Answer{
				SearchID: searchID,
				Text:     msg.Content,
				Turns:    turn,
			}, nil
		}

		messages = append(messages, msg)
		for _, call := range msg.ToolCalls {
			logging.Debug("Agent tool call",
				"search_id", searchID,
				"tool", call.Function.Name,
				"turn", turn)
			content := a.executeTool(ctx, searchID, call)
			messages = append(messages, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				Content:    content,
				ToolCallID: call.ID,
			})
		}
	}

	// Turn cap reached: demand a final answer with tools withheld
	logging.Warn("Agent turn cap reached, forcing final answer", "search_id", searchID)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: finalAnswerNudge,
	})

	resp, err := a.chat.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    a.model,
		Messages: messages,
	})
	if err != nil {
		return nil, fmt.Errorf("final answer completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("chat backend returned no choices for final answer")
	}

	return &interfaces.Answer{
		SearchID: searchID,
		Text:     resp.Choices[0].Message.Content,
		Turns:    a.maxTurns + 1,
	}, nil
}
