package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
	"github.com/rs/zerolog/log"
)

const defaultMaxTurns = 8

const systemPrompt = `You are an inventory operations assistant for a medical supply network.
You answer questions about stock levels, stock health, alerts, reordering, and consumption
using ONLY the provided tools. Rules:
1. Always call tools to get data; never invent stock figures.
2. Quantities are integers in each item's own unit (tablets, vials, pairs).
3. "Days remaining" of 999 means no measurable recent usage, not real coverage.
4. When a tool reports no data, say so plainly and suggest what to record first.
5. Keep answers short and operational; lead with the most urgent finding.`

// Agent runs the tool-calling loop against the OpenAI Responses API.
type Agent struct {
	client   *openai.Client
	registry *ToolRegistry
	model    string
	maxTurns int
}

func NewAgent(apiKey, model string, maxTurns int, registry *ToolRegistry) *Agent {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	if maxTurns <= 0 {
		maxTurns = defaultMaxTurns
	}
	return &Agent{
		client:   &client,
		registry: registry,
		model:    model,
		maxTurns: maxTurns,
	}
}

// Chat answers one natural-language question. The model calls read tools
// autonomously until it produces a final text answer or the turn budget runs
// out. Tool failures are surfaced to the model as error payloads, never as
// aborted conversations.
func (a *Agent) Chat(ctx context.Context, question string) (string, error) {
	params := responses.ResponseNewParams{
		Model:        shared.ResponsesModel(a.model),
		Instructions: param.NewOpt(systemPrompt),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: param.NewOpt(question),
		},
		Tools: a.registry.ToOpenAITools(),
	}

	resp, err := a.client.Responses.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai responses error: %w", err)
	}

	for turn := 0; turn < a.maxTurns; turn++ {
		outputs := a.runToolCalls(ctx, resp)
		if len(outputs) == 0 {
			break
		}

		params.PreviousResponseID = param.NewOpt(resp.ID)
		params.Input = responses.ResponseNewParamsInputUnion{OfInputItemList: outputs}
		resp, err = a.client.Responses.New(ctx, params)
		if err != nil {
			return "", fmt.Errorf("openai responses error: %w", err)
		}
	}

	content := resp.OutputText()
	if content == "" {
		return "", fmt.Errorf("empty response content")
	}
	return content, nil
}

// runToolCalls executes every function call in the response and returns their
// outputs as input items for the next turn. No calls means the loop is done.
func (a *Agent) runToolCalls(ctx context.Context, resp *responses.Response) responses.ResponseInputParam {
	var outputs responses.ResponseInputParam
	for _, item := range resp.Output {
		if item.Type != "function_call" {
			continue
		}

		result, err := a.registry.Dispatch(ctx, item.Name, item.Arguments)
		if err != nil {
			log.Warn().Err(err).Str("tool", item.Name).Msg("tool call failed")
			result = errorPayload(err)
		}
		outputs = append(outputs, responses.ResponseInputItemParamOfFunctionCallOutput(item.CallID, result))
	}
	return outputs
}

func errorPayload(err error) string {
	raw, marshalErr := json.Marshal(map[string]string{"error": err.Error()})
	if marshalErr != nil {
		return `{"error":"tool execution failed"}`
	}
	return string(raw)
}
