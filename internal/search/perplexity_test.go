package search

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/linkedin-finder/pkg/perplexity"
)

type mockPerplexity struct {
	mock.Mock
}

func (m *mockPerplexity) ChatCompletion(ctx context.Context, req perplexity.ChatCompletionRequest) (*perplexity.ChatCompletionResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*perplexity.ChatCompletionResponse), args.Error(1)
}

func TestPerplexitySearcher(t *testing.T) {
	client := new(mockPerplexity)
	client.On("ChatCompletion", mock.Anything, mock.MatchedBy(func(req perplexity.ChatCompletionRequest) bool {
		return len(req.Messages) == 2 && req.Messages[1].Content == "Acme LinkedIn"
	})).Return(&perplexity.ChatCompletionResponse{
		Choices: []perplexity.Choice{{Message: perplexity.Message{Role: "assistant", Content: " Acme's page is on LinkedIn. "}}},
		SearchResults: []perplexity.SearchResult{
			{Title: "Acme | LinkedIn", URL: "https://www.linkedin.com/company/acme/"},
			{Title: "dup", URL: "https://www.linkedin.com/company/acme/"},
		},
		Citations: []string{"https://www.linkedin.com/company/acme/", "https://acme.com", ""},
	}, nil)

	results, err := NewPerplexity(client).Search(context.Background(), "Acme LinkedIn")
	require.NoError(t, err)
	assert.Equal(t, []Result{
		{Title: "Acme | LinkedIn", Link: "https://www.linkedin.com/company/acme/", Snippet: "Acme's page is on LinkedIn."},
		{Title: "https://acme.com", Link: "https://acme.com"},
	}, results)
	client.AssertExpectations(t)
}

func TestPerplexitySearcher_NoSources(t *testing.T) {
	client := new(mockPerplexity)
	client.On("ChatCompletion", mock.Anything, mock.Anything).Return(&perplexity.ChatCompletionResponse{
		Choices: []perplexity.Choice{{Message: perplexity.Message{Content: "I don't know."}}},
	}, nil)

	results, err := NewPerplexity(client).Search(context.Background(), "zzz")
	require.NoError(t, err)
	assert.Empty(t, results)

	text, err := Format(results)
	require.NoError(t, err)
	assert.Equal(t, NoResults, text)
}

func TestPerplexitySearcher_Error(t *testing.T) {
	client := new(mockPerplexity)
	client.On("ChatCompletion", mock.Anything, mock.Anything).Return(nil, errors.New("perplexity: unexpected status 401"))

	_, err := NewPerplexity(client).Search(context.Background(), "acme")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "search: perplexity")
}
