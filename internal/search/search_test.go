package search

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/linkedin-finder/pkg/google"
	"github.com/sells-group/linkedin-finder/pkg/google/mocks"
	"github.com/sells-group/linkedin-finder/pkg/jina"
)

type mockJina struct {
	mock.Mock
}

func (m *mockJina) Search(ctx context.Context, query string, opts ...jina.SearchOption) (*jina.SearchResponse, error) {
	args := m.Called(ctx, query, len(opts))
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*jina.SearchResponse), args.Error(1)
}

func TestGoogleSearcher(t *testing.T) {
	gc := mocks.NewMockClient(t)
	gc.On("Search", mock.Anything, "Acme linkedin").Return(&google.SearchResponse{
		Items: []google.Item{
			{Title: "Acme | LinkedIn", Link: "https://www.linkedin.com/company/acme/", Snippet: " Acme makes anvils. "},
			{Title: "Acme Corp", Link: "https://acme.com", Snippet: "Home"},
		},
	}, nil)

	results, err := NewGoogle(gc).Search(context.Background(), "Acme linkedin")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, Result{
		Title:   "Acme | LinkedIn",
		Link:    "https://www.linkedin.com/company/acme/",
		Snippet: "Acme makes anvils.",
	}, results[0])
}

func TestGoogleSearcher_Error(t *testing.T) {
	gc := mocks.NewMockClient(t)
	gc.On("Search", mock.Anything, "q").Return(nil, errors.New("google: unexpected status 403"))

	_, err := NewGoogle(gc).Search(context.Background(), "q")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestJinaSearcher_SiteFilterAndSnippetFallback(t *testing.T) {
	jc := new(mockJina)
	jc.On("Search", mock.Anything, "Globex", 1).Return(&jina.SearchResponse{
		Code: 200,
		Data: []jina.SearchResult{
			{Title: "Globex | LinkedIn", URL: "https://www.linkedin.com/company/globex/", Description: "Globex page"},
			{Title: "Globex news", URL: "https://news.example/globex", Content: "Long article body"},
		},
	}, nil)

	results, err := NewJina(jc, "linkedin.com").Search(context.Background(), "Globex")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Globex page", results[0].Snippet)
	assert.Equal(t, "Long article body", results[1].Snippet)
	jc.AssertExpectations(t)
}

func TestJinaSearcher_NoSiteFilter(t *testing.T) {
	jc := new(mockJina)
	jc.On("Search", mock.Anything, "Globex", 0).Return(&jina.SearchResponse{Code: 422}, nil)

	results, err := NewJina(jc, "").Search(context.Background(), "Globex")
	require.NoError(t, err)
	assert.Empty(t, results)
	jc.AssertExpectations(t)
}

func TestFormat(t *testing.T) {
	out, err := Format(nil)
	require.NoError(t, err)
	assert.Equal(t, NoResults, out)

	out, err = Format([]Result{{Title: "A", Link: "https://a", Snippet: "s"}})
	require.NoError(t, err)

	var decoded []map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, []map[string]string{{"title": "A", "link": "https://a", "snippet": "s"}}, decoded)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab", truncate("abc", 2))
	assert.Equal(t, "é", truncate("éé", 1))
}

func TestStub(t *testing.T) {
	results, err := Stub{}.Search(context.Background(), "Acme Corp, Inc.")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "https://www.linkedin.com/company/acme-corp-inc/", results[0].Link)

	results, err = Stub{}.Search(context.Background(), "!!!")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "acme-corp", Slugify("  Acme   Corp "))
	assert.Equal(t, "a-b-c", Slugify("A&B/C"))
	assert.Equal(t, "", Slugify(""))
}
