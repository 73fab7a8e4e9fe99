package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"tiflisi/internal/validate"
)

var ErrStylistUnavailable = errors.New("stylist is not configured")

// Generator turns a prompt into text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeminiGenerator calls a Gemini model through the genai SDK.
type GeminiGenerator struct {
	Client *genai.Client
	Model  string
}

func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}
	return &GeminiGenerator{Client: client, Model: model}, nil
}

func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.Client.Models.GenerateContent(ctx, g.Model, genai.Text(prompt), nil)
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 {
		return "", errors.New("gemini returned no candidates")
	}
	return resp.Text(), nil
}

const stylistPrompt = `შენ ხარ მოდის სტილისტი, რომელიც სპეციალიზებულია ტრადიციულ ქართულ ესთეტიკაზე. მომხმარებელი მოგაწვდის ტანსაცმლის ნივთს, მის სტილის უპირატესობებს და შემთხვევას. შენ მიაწვდი მოდის რჩევებს და შესთავაზებ დამატებით ტანსაცმლის ნივთებს, ტრადიციული ქართული ესთეტიკის გათვალისწინებით. პასუხი უნდა იყოს ქართულ ენაზე.

ტანსაცმლის ნივთი: %s
მომხმარებლის სტილი: %s
შემთხვევა: %s

მიეცი დეტალური რჩევა, გაითვალისწინე მომხმარებლის სტილი და შემთხვევა. შესთავაზე კონკრეტული ქართული ტანსაცმლის ნივთები, რომლებიც შეავსებს მოცემულ ნივთს.`

// StylistService produces outfit advice. A nil Gen means the feature is off.
type StylistService struct {
	Gen Generator
}

func StylistPrompt(f validate.StylistForm) string {
	return fmt.Sprintf(stylistPrompt, f.ClothingItem, f.UserStyle, f.Occasion)
}

func (s *StylistService) Enabled() bool { return s != nil && s.Gen != nil }

func (s *StylistService) Advice(ctx context.Context, f validate.StylistForm) (string, error) {
	if !s.Enabled() {
		return "", ErrStylistUnavailable
	}
	out, err := s.Gen.Generate(ctx, StylistPrompt(f))
	if err != nil {
		return "", fmt.Errorf("stylist advice: %w", err)
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", errors.New("stylist advice: empty answer")
	}
	return out, nil
}
