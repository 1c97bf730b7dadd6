package ai

import (
	"context"
	"fmt"
	"strings"
)

type RecommendInput struct {
	PackedItems  []string
	TripSummary  string
	Instructions string
	Previous     string
}

type QuestionInput struct {
	PackedItems []string
	TripSummary string
	UserMessage string
	History     History
}

type InstructionInput struct {
	PackedItems       []string
	TripSummary       string
	AIRecommendations string
	History           History
}

type RefineInput = InstructionInput

// Service builds the packing prompts and runs them through a Completer,
// normally a Fallback chain.
type Service struct {
	llm Completer
}

func NewService(llm Completer) *Service {
	return &Service{llm: llm}
}

// Recommend returns markdown packing suggestions. When Instructions is set
// the previous response is revised rather than regenerated.
func (s *Service) Recommend(ctx context.Context, in RecommendInput) (string, error) {
	return s.llm.Complete(ctx, Request{
		System:    packingSystemPrompt,
		Prompt:    recommendPrompt(in),
		MaxTokens: Extended,
	})
}

// NextQuestion asks the model for one follow-up question about gaps in the list.
func (s *Service) NextQuestion(ctx context.Context, in QuestionInput) (string, error) {
	if in.PackedItems == nil || strings.TrimSpace(in.TripSummary) == "" {
		return "", ErrMissingContext
	}
	q, err := s.llm.Complete(ctx, Request{
		Prompt:    questionPrompt(in),
		MaxTokens: Standard,
	})
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(q, QuestionPrefix) {
		q = QuestionPrefix + q
	}
	return q, nil
}

// Instruction condenses the chat into a change request for the recommender.
// The reply is unquoted and always starts with InstructionPrefix.
func (s *Service) Instruction(ctx context.Context, in InstructionInput) (string, error) {
	if in.PackedItems == nil || strings.TrimSpace(in.TripSummary) == "" {
		return "", ErrMissingContext
	}
	instruction, err := s.llm.Complete(ctx, Request{
		Prompt:    instructionPrompt(in),
		MaxTokens: Standard,
	})
	if err != nil {
		return "", err
	}
	instruction = strings.Trim(strings.TrimSpace(instruction), `"`)
	if !strings.HasPrefix(instruction, InstructionPrefix) {
		instruction = InstructionPrefix + instruction
	}
	return instruction, nil
}

// Refine turns the chat into an instruction and regenerates the list with it.
func (s *Service) Refine(ctx context.Context, in RefineInput) (string, error) {
	instruction, err := s.Instruction(ctx, in)
	if err != nil {
		return "", fmt.Errorf("chatbot instruction: %w", err)
	}
	return s.Recommend(ctx, RecommendInput{
		PackedItems:  in.PackedItems,
		TripSummary:  in.TripSummary,
		Instructions: instruction,
		Previous:     in.AIRecommendations,
	})
}
