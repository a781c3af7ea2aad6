// Package prompts implements MCP prompt handlers for readme-mcp.
//
// MCP prompts are user-triggered workflows (like slash commands) that
// instruct the AI to execute a specific sequence. Unlike tools (which
// the AI calls), prompts are initiated by the user.
package prompts

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// WorkflowPrompt handles the readme-workflow MCP prompt.
// It walks the AI through analyze → generate → review → save.
type WorkflowPrompt struct{}

// NewWorkflowPrompt creates a WorkflowPrompt.
func NewWorkflowPrompt() *WorkflowPrompt {
	return &WorkflowPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *WorkflowPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("readme-workflow",
		mcp.WithPromptDescription(
			"Generate a README for a GitHub repository, review it together, "+
				"and commit it once approved.",
		),
		mcp.WithArgument("repository_url",
			mcp.ArgumentDescription("GitHub repository URL (e.g. https://github.com/user/repo)"),
		),
	)
}

// Handle processes the readme-workflow prompt request.
func (p *WorkflowPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	repoURL := ""
	if args := req.Params.Arguments; args != nil {
		repoURL = strings.TrimSpace(args["repository_url"])
	}

	target := fmt.Sprintf("the repository at %s", repoURL)
	first := ""
	if repoURL == "" {
		target = "one of my GitHub repositories"
		first = "0. Ask me for the repository URL\n"
	}

	return &mcp.GetPromptResult{
		Description: "README workflow",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"I want a README.md for %s.\n\n"+
						"Please:\n"+
						"%s"+
						"1. Run `analyze_repository` and summarize what you learned in a few bullets\n"+
						"2. Run `generate_readme` and show me the full Markdown\n"+
						"3. Suggest improvements (usage examples, a better description) and apply the ones I accept\n"+
						"4. Only after I explicitly approve, run `save_readme_to_github` with the final text\n"+
						"5. Report the status and commit URL\n\n"+
						"Never commit without my approval. If the repository already has a README, "+
						"warn me that it will be replaced.",
					target, first,
				)),
			},
		},
	}, nil
}
