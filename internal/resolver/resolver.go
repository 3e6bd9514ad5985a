// Package resolver finds the LinkedIn company profile URL for a company name
// by running a search-enabled agent and extracting the URL from its answer.
package resolver

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/linkedin-finder/internal/agent"
	"github.com/sells-group/linkedin-finder/internal/model"
	"github.com/sells-group/linkedin-finder/internal/search"
)

// ToolName is the name of the search tool granted to the agent.
const ToolName = "web_search"

const toolDescription = "A web search engine. Useful for finding company pages and profiles. Input should be a search query. Output is a JSON array of results with title, link and snippet."

var profileURLRe = regexp.MustCompile(`https://www\.linkedin\.com/company/[^/\s]+/people/`)

// WebSearchArgs are the arguments of the search tool.
type WebSearchArgs struct {
	Query string `json:"query" jsonschema_description:"The search query, for example the company name followed by LinkedIn"`
}

// Resolver resolves a single company name.
type Resolver struct {
	runner   agent.Runner
	searcher search.Searcher
}

// New returns a Resolver that drives runner with searcher as its only tool.
func New(runner agent.Runner, searcher search.Searcher) *Resolver {
	return &Resolver{runner: runner, searcher: searcher}
}

// Resolve returns the profile URL for name, or model.NotFound when the
// answer contains no profile URL. Provider failures are returned as errors.
func (r *Resolver) Resolve(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", eris.New("resolver: empty company name")
	}

	ans, err := r.runner.Run(ctx, agent.Task{
		System: SystemPrompt(),
		Prompt: UserPrompt(name),
		Tools:  []agent.Tool{SearchTool(r.searcher)},
		Label:  name,
	})
	if err != nil {
		return "", eris.Wrapf(err, "resolver: resolve %q", name)
	}

	return ExtractProfileURL(ans.Text), nil
}

// SearchTool exposes searcher as the web_search agent tool.
func SearchTool(searcher search.Searcher) agent.Tool {
	return agent.Tool{
		Name:        ToolName,
		Description: toolDescription,
		Parameters:  agent.ReflectSchema[WebSearchArgs](),
		Invoke: func(ctx context.Context, raw json.RawMessage) (string, error) {
			var args WebSearchArgs
			if err := json.Unmarshal(raw, &args); err != nil {
				return "", eris.Wrap(err, "resolver: decode search arguments")
			}
			if strings.TrimSpace(args.Query) == "" {
				return "", eris.New("resolver: empty search query")
			}

			results, err := searcher.Search(ctx, args.Query)
			if err != nil {
				return "", err
			}
			return search.Format(results)
		},
	}
}

// ExtractProfileURL returns the first LinkedIn company people URL in text,
// or model.NotFound.
func ExtractProfileURL(text string) string {
	if m := profileURLRe.FindString(text); m != "" {
		return m
	}
	return model.NotFound
}
