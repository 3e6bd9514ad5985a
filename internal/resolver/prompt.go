package resolver

import "fmt"

const systemPrompt = "You are a helpful assistant that finds LinkedIn company profiles. Always use the provided search tool to find information."

const userPromptTemplate = "Find the most relevant LinkedIn company profile for %s. Return only the LinkedIn URL in the format https://www.linkedin.com/company/COMPANY_NAME_HERE/people/. If not found, return 'Not found'."

// SystemPrompt returns the fixed system instruction.
func SystemPrompt() string { return systemPrompt }

// UserPrompt builds the per-company request.
func UserPrompt(name string) string {
	return fmt.Sprintf(userPromptTemplate, name)
}
