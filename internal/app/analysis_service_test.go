package app

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docanalyzer/internal/ai"
	"docanalyzer/internal/analysis"
)

type stubCompleter struct {
	out      string
	err      error
	messages []ai.ChatMessage
}

func (s *stubCompleter) Complete(_ context.Context, _ ai.ChatConfig, messages []ai.ChatMessage) (string, error) {
	s.messages = messages
	return s.out, s.err
}

var testLLM = ai.ChatConfig{BaseURL: "http://llm.local", Model: "m"}

func TestAnalyzeBuildsLegalPrompt(t *testing.T) {
	llm := &stubCompleter{out: "  Key clauses: ...  "}
	svc := NewAnalysisService(llm, testLLM, nil)

	resp, err := svc.Analyze(context.Background(), analysis.Request{DocumentText: "The tenant shall pay rent."})
	require.NoError(t, err)
	assert.Equal(t, "Key clauses: ...", resp.Analysis)

	require.Len(t, llm.messages, 1)
	prompt := llm.messages[0].Content
	assert.Contains(t, prompt, "Identify key clauses, potential risks")
	assert.Contains(t, prompt, "---\nThe tenant shall pay rent.\n---")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(prompt), "Professional Analysis:"))
}

func TestAnalyzeErrors(t *testing.T) {
	tests := []struct {
		name string
		llm  *stubCompleter
		cfg  ai.ChatConfig
		text string
		want error
	}{
		{name: "empty text", llm: &stubCompleter{}, cfg: testLLM, text: "  ", want: ErrInvalidInput},
		{name: "missing model", llm: &stubCompleter{}, cfg: ai.ChatConfig{BaseURL: "x"}, text: "t", want: ErrLLMConfig},
		{name: "empty output", llm: &stubCompleter{out: " "}, cfg: testLLM, text: "t", want: ErrNoAnalysis},
		{name: "no choices", llm: &stubCompleter{err: ai.ErrEmptyChoices}, cfg: testLLM, text: "t", want: ErrNoAnalysis},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewAnalysisService(tt.llm, tt.cfg, nil).Analyze(context.Background(), analysis.Request{DocumentText: tt.text})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestAnalyzeWrapsClientError(t *testing.T) {
	boom := errors.New("connection refused")
	_, err := NewAnalysisService(&stubCompleter{err: boom}, testLLM, nil).
		Analyze(context.Background(), analysis.Request{DocumentText: "t"})
	assert.ErrorIs(t, err, boom)
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "****", maskSecret("short"))
	assert.Equal(t, "sk-a****wxyz", maskSecret("sk-a1234wxyz"))
}
