// Package ai wraps the tool-using generation agent. The rest of the
// service consumes it only through the Streamer capability; nothing
// outside this package knows how responses are produced.
package ai

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/flow/agent/react"
	"github.com/cloudwego/eino/schema"

	"github.com/golfguiders/guiders-ai/backend/internal/model/chat"
)

// Streamer is the agent capability consumed by the chat orchestration:
// one user message plus chronological history in, an ordered stream of
// response fragments out. The stream is not restartable and honors
// context cancellation mid-sequence.
type Streamer interface {
	Stream(ctx context.Context, message string, history []chat.Message) (*schema.StreamReader[*schema.Message], error)
}

const systemPrompt = `You are an expert AI Golf assistant for the GolfGuiders application, designed to help users with all aspects of golf (courses, scorecards, tee details, etc.) and application usage.

## PRIMARY RESPONSIBILITIES:
1. **Golf Course Information**: Provide clear, detailed information about golf courses (address, holes, classification, types) and recommend courses based on user preferences and location.
2. **Application Support**: Help users understand and use GolfGuiders application features.
3. **Scorecard & Tee Details Information**: Provide detailed information about scorecards and tee details for a given course, with readable summaries.
4. **General Golf Knowledge**: Answer general golf-related questions when appropriate.

## TOOL SELECTION GUIDELINES:
- Use ` + "`search_golf_courses`" + ` for: golf course information, locations, facilities, types, holes, and recommendations. When the user needs scorecards or tee info, first find the relevant course so you can internally use its ` + "`id_course`" + ` (do not show course IDs).
- Use ` + "`search_app_manual`" + ` for: GolfGuiders application questions, troubleshooting, feature explanations, and usage.
- Use ` + "`search_scorecards`" + ` for: scorecard hole information, par totals, and rating data for a given course.
- Use ` + "`search_tee_details`" + ` for: tee colors, yardages, and ratings for a given course.

## IMPORTANT GUIDELINES:
- First decide if the user's request truly needs external data. Quick greetings, confirmations, or very simple questions should be answered directly without any tool call.
- You are a golf expert, so you should answer golf related questions. For clearly unrelated topics, politely decline and invite the user to ask a golf-related question instead.
- If multiple tools provide relevant information, synthesize the best answer into a well-structured response.
- Provide a clear and detailed answer so the user feels their question is fully answered. Ask follow-up questions if needed.
- Always be friendly, professional, and golf-enthusiastic.
- If you need clarification to give an accurate answer, ask follow-up questions.`

// Service runs the golf assistant as a ReAct agent over the configured
// chat model and tool set.
type Service struct {
	agent *react.Agent
}

// NewService builds the agent once at startup; the instance is shared
// read-only across all request goroutines.
func NewService(ctx context.Context, chatModel model.ToolCallingChatModel, tools []tool.BaseTool, maxSteps int) (*Service, error) {
	agent, err := react.NewAgent(ctx, &react.AgentConfig{
		ToolCallingModel: chatModel,
		ToolsConfig:      compose.ToolsNodeConfig{Tools: tools},
		MaxStep:          maxSteps,
	})
	if err != nil {
		return nil, fmt.Errorf("create agent: %w", err)
	}
	return &Service{agent: agent}, nil
}

// Stream runs one turn and returns the agent's fragment stream. History
// must already be in chronological order; the caller owns closing the
// returned reader.
func (s *Service) Stream(ctx context.Context, message string, history []chat.Message) (*schema.StreamReader[*schema.Message], error) {
	stream, err := s.agent.Stream(ctx, buildInput(message, history))
	if err != nil {
		return nil, fmt.Errorf("stream agent response: %w", err)
	}
	return stream, nil
}

// buildInput assembles the model input: system prompt, then history in
// the order given, then the new user message.
func buildInput(message string, history []chat.Message) []*schema.Message {
	input := make([]*schema.Message, 0, len(history)+2)
	input = append(input, schema.SystemMessage(systemPrompt))
	for _, msg := range history {
		switch msg.Role {
		case chat.RoleAssistant:
			input = append(input, schema.AssistantMessage(msg.Content, nil))
		case chat.RoleSystem:
			input = append(input, schema.SystemMessage(msg.Content))
		default:
			input = append(input, schema.UserMessage(msg.Content))
		}
	}
	return append(input, schema.UserMessage(message))
}
