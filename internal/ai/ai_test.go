// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/liushuangls/go-anthropic/v2"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"

	"github.com/pdiddy/ankitools/pkg/types"
)

func init() {
	defaultRetryDelay = time.Millisecond
}

// fakeCompleter returns queued answers in order and records prompts.
type fakeCompleter struct {
	answers []string
	errs    []error
	prompts []string
}

func (f *fakeCompleter) Complete(_ context.Context, prompt string) (string, error) {
	i := len(f.prompts)
	f.prompts = append(f.prompts, prompt)
	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	if err != nil {
		return "", err
	}
	if i < len(f.answers) {
		return f.answers[i], nil
	}
	return "", nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDescribe_CleansAnswer(t *testing.T) {
	tests := []struct {
		name   string
		answer string
		want   string
	}{
		{"trailing period", "a common fruit.", "A common fruit"},
		{"already clean", "Process plants use to make food", "Process plants use to make food"},
		{"first line only", "small dog\nextra commentary", "Small dog"},
		{"non-ascii first letter", "émigré writer.", "Émigré writer"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := &fakeCompleter{answers: []string{tt.answer}}
			got, err := NewEnricher(fc).Describe(context.Background(), "apple")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			require.Len(t, fc.prompts, 1)
			assert.Contains(t, fc.prompts[0], `"apple"`)
		})
	}
}

func TestDescribe_EmptyAnswer(t *testing.T) {
	fc := &fakeCompleter{answers: []string{" . "}}
	_, err := NewEnricher(fc).Describe(context.Background(), "apple")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyResponse)
	var se *ServiceError
	assert.True(t, errors.As(err, &se))
}

func TestDescribe_PropagatesServiceError(t *testing.T) {
	cause := &ServiceError{Provider: "gemini", Op: "generate", Err: ErrContentBlocked}
	fc := &fakeCompleter{errs: []error{cause}}
	_, err := NewEnricher(fc).Describe(context.Background(), "apple")
	assert.ErrorIs(t, err, ErrContentBlocked)
}

func TestRephrase(t *testing.T) {
	tests := []struct {
		name    string
		answer  string
		n       int
		want    []string
		wantErr bool
	}{
		{
			name:   "two clean lines",
			answer: "Name the capital of France\nWhich city is France's capital?",
			n:      2,
			want:   []string{"Name the capital of France", "Which city is France's capital?"},
		},
		{
			name:   "list markers and quotes stripped",
			answer: "1. \"First way\"\n2) Second way\n- Third way",
			n:      3,
			want:   []string{"First way", "Second way", "Third way"},
		},
		{
			name:   "extras dropped",
			answer: "a\nb\nc\nd",
			n:      2,
			want:   []string{"a", "b"},
		},
		{
			name:    "single variant fails",
			answer:  "Only one rephrasing",
			n:       2,
			wantErr: true,
		},
		{
			name:    "copies of original and duplicates removed",
			answer:  "What is the capital of France?\nWHAT IS THE CAPITAL OF FRANCE?\nName France's capital\nname france's capital",
			n:       2,
			wantErr: true,
		},
		{
			name:    "variant holding the separator is dropped",
			answer:  "France's capital | which city?\nName the French capital",
			n:       2,
			wantErr: true,
		},
		{
			name:   "separator lines skipped when enough remain",
			answer: "a | b\nName the French capital\nWhich city governs France?",
			n:      2,
			want:   []string{"Name the French capital", "Which city governs France?"},
		},
		{
			name:   "n below minimum is raised",
			answer: "x\ny",
			n:      1,
			want:   []string{"x", "y"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := &fakeCompleter{answers: []string{tt.answer}}
			got, err := NewEnricher(fc).Rephrase(context.Background(), "What is the capital of France?", tt.n)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrTooFewVariants)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRephrase_PromptCarriesCountAndText(t *testing.T) {
	fc := &fakeCompleter{answers: []string{"a\nb\nc"}}
	_, err := NewEnricher(fc).Rephrase(context.Background(), "Define entropy", 3)
	require.NoError(t, err)
	require.Len(t, fc.prompts, 1)
	assert.Contains(t, fc.prompts[0], "in 3 different ways")
	assert.Contains(t, fc.prompts[0], `"Define entropy"`)
}

func TestRetrying_RetriesTransientFailures(t *testing.T) {
	fc := &fakeCompleter{
		errs:    []error{errors.New("503"), errors.New("503"), nil},
		answers: []string{"", "", "ok"},
	}
	r := &Retrying{Next: fc, MaxRetries: 2, Logger: quietLogger()}
	got, err := r.Complete(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Len(t, fc.prompts, 3)
}

func TestRetrying_ExhaustsRetries(t *testing.T) {
	boom := errors.New("connection refused")
	fc := &fakeCompleter{errs: []error{boom, boom, boom, boom}}
	r := &Retrying{Next: fc, MaxRetries: 2, Logger: quietLogger()}
	_, err := r.Complete(context.Background(), "p")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	var se *ServiceError
	assert.True(t, errors.As(err, &se))
	assert.Len(t, fc.prompts, 3)
}

func TestRetrying_PermanentErrorsNotRetried(t *testing.T) {
	for _, cause := range []error{ErrContentBlocked, ErrEmptyResponse} {
		t.Run(cause.Error(), func(t *testing.T) {
			fc := &fakeCompleter{errs: []error{&ServiceError{Provider: "x", Op: "y", Err: cause}}}
			r := &Retrying{Next: fc, MaxRetries: 5, Logger: quietLogger()}
			_, err := r.Complete(context.Background(), "p")
			assert.ErrorIs(t, err, cause)
			assert.Len(t, fc.prompts, 1)
		})
	}
}

func TestPermanent(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"blocked", ErrContentBlocked, true},
		{"plain network error", errors.New("connection reset"), false},
		{"openai unauthorized", &ServiceError{Err: &openai.APIError{HTTPStatusCode: http.StatusUnauthorized}}, true},
		{"openai bad request", &ServiceError{Err: &openai.APIError{HTTPStatusCode: http.StatusBadRequest}}, true},
		{"openai rate limited", &ServiceError{Err: &openai.APIError{HTTPStatusCode: http.StatusTooManyRequests}}, false},
		{"openai bare 403", &openai.RequestError{HTTPStatusCode: http.StatusForbidden}, true},
		{"claude auth", fmt.Errorf("status 401: %w", &anthropic.APIError{Type: anthropic.ErrTypeAuthentication}), true},
		{"claude overloaded", fmt.Errorf("status 529: %w", &anthropic.APIError{Type: anthropic.ErrTypeOverloaded}), false},
		{"claude bare 403", &anthropic.RequestError{StatusCode: http.StatusForbidden}, true},
		{"claude bare 500", &anthropic.RequestError{StatusCode: http.StatusInternalServerError}, false},
		{"gemini bad key", &ServiceError{Err: &googleapi.Error{Code: http.StatusBadRequest}}, true},
		{"gemini unavailable", &ServiceError{Err: &googleapi.Error{Code: http.StatusServiceUnavailable}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, permanent(tt.err))
		})
	}
}

func TestRetrying_RejectedKeyNotRetried(t *testing.T) {
	var calls int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":{"message":"Incorrect API key provided","type":"invalid_request_error","code":"invalid_api_key"}}`)
	}))
	defer ts.Close()

	r := &Retrying{Next: NewOpenAI("sk-bad", "m", ts.URL+"/v1"), MaxRetries: 3, Logger: quietLogger()}
	_, err := r.Complete(context.Background(), "p")
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetrying_StopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	fc := &fakeCompleter{errs: []error{errors.New("timeout"), errors.New("timeout")}}
	r := &Retrying{Next: fc, MaxRetries: 5, Logger: quietLogger()}
	_, err := r.Complete(ctx, "p")
	require.Error(t, err)
	assert.Len(t, fc.prompts, 1)
}

func TestValidateKey(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{"missing", "", true},
		{"blank", "   ", true},
		{"placeholder", "YOUR_GOOGLE_API_KEY_HERE", true},
		{"real", "AIza-test", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateKey(types.AIConfig{Provider: types.ProviderGemini, APIKey: tt.key})
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestKeyEnvVar(t *testing.T) {
	assert.Equal(t, "GOOGLE_API_KEY", KeyEnvVar(types.ProviderGemini))
	assert.Equal(t, "OPENAI_API_KEY", KeyEnvVar(types.ProviderOpenAI))
	assert.Equal(t, "ANTHROPIC_API_KEY", KeyEnvVar(types.ProviderClaude))
}

func TestNewCompleter_UnknownProvider(t *testing.T) {
	_, err := NewCompleter(context.Background(), quietLogger(), types.AIConfig{Provider: "mistral", APIKey: "k"})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestNewCompleter_WrapsProvider(t *testing.T) {
	c, err := NewCompleter(context.Background(), quietLogger(), types.AIConfig{
		Provider:   types.ProviderOpenAI,
		APIKey:     "sk-test",
		MaxRetries: 3,
	})
	require.NoError(t, err)
	r, ok := c.(*Retrying)
	require.True(t, ok)
	assert.Equal(t, 3, r.MaxRetries)
	assert.IsType(t, &OpenAI{}, r.Next)
}

func TestOpenAI_Complete(t *testing.T) {
	var gotModel string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		var req struct {
			Model string `json:"model"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		gotModel = req.Model
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"c1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":" A common fruit. "},"finish_reason":"stop"}]}`)
	}))
	defer ts.Close()

	c := NewOpenAI("sk-test", "", ts.URL+"/v1")
	got, err := c.Complete(context.Background(), "describe apple")
	require.NoError(t, err)
	assert.Equal(t, "A common fruit.", got)
	assert.Equal(t, DefaultOpenAIModel, gotModel)
}

func TestOpenAI_ContentFilter(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"choices":[{"index":0,"message":{"role":"assistant","content":""},"finish_reason":"content_filter"}]}`)
	}))
	defer ts.Close()

	_, err := NewOpenAI("sk-test", "m", ts.URL+"/v1").Complete(context.Background(), "p")
	assert.ErrorIs(t, err, ErrContentBlocked)
}

func TestOpenAI_ServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = io.WriteString(w, `{"error":{"message":"overloaded","type":"server_error"}}`)
	}))
	defer ts.Close()

	_, err := NewOpenAI("sk-test", "m", ts.URL+"/v1").Complete(context.Background(), "p")
	require.Error(t, err)
	var se *ServiceError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "openai", se.Provider)
	assert.False(t, permanent(err))
}

func TestNewGemini_Model(t *testing.T) {
	g, err := NewGemini(context.Background(), "test-key", "")
	require.NoError(t, err)
	defer g.Close()
	assert.Equal(t, DefaultGeminiModel, g.model)

	g2, err := NewGemini(context.Background(), "test-key", "gemini-1.5-pro")
	require.NoError(t, err)
	defer g2.Close()
	assert.Equal(t, "gemini-1.5-pro", g2.model)
}

func geminiAnswer(finish genai.FinishReason, parts ...genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
		Content:      &genai.Content{Role: "model", Parts: parts},
		FinishReason: finish,
	}}}
}

func TestGemini_Complete(t *testing.T) {
	tests := []struct {
		name      string
		resp      *genai.GenerateContentResponse
		err       error
		want      string
		wantErr   error
		permanent bool
	}{
		{
			name: "text parts joined",
			resp: geminiAnswer(genai.FinishReasonStop, genai.Text(" A red "), genai.Text("fruit. ")),
			want: "A red fruit.",
		},
		{
			name:      "prompt blocked by sdk",
			err:       &genai.BlockedError{PromptFeedback: &genai.PromptFeedback{BlockReason: genai.BlockReasonSafety}},
			wantErr:   ErrContentBlocked,
			permanent: true,
		},
		{
			name:      "prompt feedback without candidates",
			resp:      &genai.GenerateContentResponse{PromptFeedback: &genai.PromptFeedback{BlockReason: genai.BlockReasonSafety}},
			wantErr:   ErrContentBlocked,
			permanent: true,
		},
		{
			name:      "candidate stopped for safety",
			resp:      geminiAnswer(genai.FinishReasonSafety),
			wantErr:   ErrContentBlocked,
			permanent: true,
		},
		{
			name:      "no candidates",
			resp:      &genai.GenerateContentResponse{},
			wantErr:   ErrEmptyResponse,
			permanent: true,
		},
		{
			name:      "blank text",
			resp:      geminiAnswer(genai.FinishReasonStop, genai.Text("  ")),
			wantErr:   ErrEmptyResponse,
			permanent: true,
		},
		{
			name:      "rejected key",
			err:       &googleapi.Error{Code: http.StatusBadRequest, Message: "API key not valid"},
			permanent: true,
		},
		{
			name: "service unavailable",
			err:  &googleapi.Error{Code: http.StatusServiceUnavailable},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := &Gemini{model: "m", generate: func(context.Context, string) (*genai.GenerateContentResponse, error) {
				return tt.resp, tt.err
			}}
			got, err := g.Complete(context.Background(), "p")
			if tt.want != "" {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
				return
			}
			require.Error(t, err)
			var se *ServiceError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, "gemini", se.Provider)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.Equal(t, tt.permanent, permanent(err))
		})
	}
}

func TestClaude_Complete(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/messages", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"m1","type":"message","role":"assistant","model":"claude-3-5-haiku-latest","content":[{"type":"text","text":"first\n"},{"type":"text","text":"second"}],"stop_reason":"end_turn","usage":{"input_tokens":3,"output_tokens":4}}`)
	}))
	defer ts.Close()

	got, err := NewClaude("key", "", ts.URL).Complete(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond", got)
}

func TestClaude_EmptyContent(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"m1","type":"message","role":"assistant","content":[],"stop_reason":"end_turn","usage":{"input_tokens":1,"output_tokens":0}}`)
	}))
	defer ts.Close()

	_, err := NewClaude("key", "", ts.URL).Complete(context.Background(), "p")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}
