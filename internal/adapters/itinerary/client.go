package itinerary

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"

	"wayfare/internal/domain"
)

const systemPrompt = `You are a road-trip planner. Answer with a short natural-language summary followed by exactly one JSON object of the form:
{"distanceKm": <number>, "durationHours": <number>, "days": [{"day": <number>, "hotelName": "<hotel>", "chargingStation": "<station>", "notes": "<text>"}]}`

// Client generates itineraries through a chat-completion model. The
// completion is free-form text expected to embed one JSON object; callers
// only rely on that object.
type Client struct {
	ai          *openai.Client
	model       string
	maxTokens   int
	temperature float32
}

func New(apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if model == "" {
		model = openai.GPT4oMini
	}
	return &Client{
		ai:          openai.NewClient(apiKey),
		model:       model,
		maxTokens:   1024,
		temperature: 0.4,
	}, nil
}

func (c *Client) Generate(ctx context.Context, req domain.TripRequest) (domain.Itinerary, error) {
	resp, err := c.ai.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(req)},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("itinerary completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return domain.Itinerary{}, errors.New("itinerary completion returned no choices")
	}

	it, err := ExtractItinerary(resp.Choices[0].Message.Content)
	if err != nil {
		return domain.Itinerary{}, err
	}
	it.ID = uuid.NewString()
	return it, nil
}

func buildPrompt(req domain.TripRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Plan a trip from %s to %s", req.Origin, req.Destination)
	if !req.StartDate.IsZero() {
		fmt.Fprintf(&b, " starting %s", req.StartDate.Format("2006-01-02"))
	}
	if req.Days > 0 {
		fmt.Fprintf(&b, " over %d days", req.Days)
	}
	if req.Travelers > 0 {
		fmt.Fprintf(&b, " for %d travelers", req.Travelers)
	}
	b.WriteString(".")
	if p := strings.TrimSpace(req.Preferences); p != "" {
		fmt.Fprintf(&b, " Preferences: %s.", p)
	}
	b.WriteString(" Suggest one hotel per day and, where relevant, an EV charging station.")
	return b.String()
}
