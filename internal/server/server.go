// Package server wires the MCP tools, prompts, and resources into a
// server instance.
//
// Dependencies arrive already built (see cmd/readme-mcp); no business
// logic lives here, only registration.
package server

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	"github.com/HendryAvila/readme-mcp/internal/history"
	"github.com/HendryAvila/readme-mcp/internal/prompts"
	"github.com/HendryAvila/readme-mcp/internal/resources"
	"github.com/HendryAvila/readme-mcp/internal/tools"
)

// Name is the MCP server name reported to clients.
const Name = "readme-mcp"

// Version is set at build time via ldflags.
var Version = "dev"

// Deps are the collaborators the server registers tools around.
type Deps struct {
	Inspector     tools.Inspector
	Writer        tools.Writer
	Logger        logrus.FieldLogger
	CommitMessage string

	// History is optional. When nil the history tool and resource are
	// not registered and runs are not recorded.
	History *history.Store
}

// New creates the MCP server with every tool, prompt, and resource
// registered.
func New(deps Deps) *server.MCPServer {
	s := server.NewMCPServer(
		Name,
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	generateTool := tools.NewGenerateReadmeTool(deps.Inspector, deps.Logger)
	saveTool := tools.NewSaveReadmeTool(deps.Writer, deps.CommitMessage, deps.Logger)
	analyzeTool := tools.NewAnalyzeRepositoryTool(deps.Inspector, deps.Logger)

	// Assigning a nil *history.Store to the Recorder interface would make
	// it non-nil, so only wire it when the store exists.
	if deps.History != nil {
		generateTool.SetRecorder(deps.History)
		saveTool.SetRecorder(deps.History)

		historyTool := tools.NewHistoryTool(deps.History)
		s.AddTool(historyTool.Definition(), historyTool.Handle)

		resourceHandler := resources.NewHandler(deps.History)
		s.AddResource(resourceHandler.RecentResource(), resourceHandler.HandleRecent)
	}

	s.AddTool(generateTool.Definition(), generateTool.Handle)
	s.AddTool(saveTool.Definition(), saveTool.Handle)
	s.AddTool(analyzeTool.Definition(), analyzeTool.Handle)

	workflowPrompt := prompts.NewWorkflowPrompt()
	s.AddPrompt(workflowPrompt.Definition(), workflowPrompt.Handle)

	return s
}

func serverInstructions() string {
	return `You have access to readme-mcp, which writes README.md files for GitHub repositories.

## TOOLS

- analyze_repository: returns the facts a README is built from (description,
  language, stars, topics, license, dependency manifests, top-level
  directories, contributors, last update) as JSON.
- generate_readme: returns a complete Markdown README built from those facts.
  Nothing is written to GitHub.
- save_readme_to_github: commits README.md to the repository, creating or
  replacing it. Needs a token with write access.
- readme_history: lists previous generations and commits (only when history
  is enabled).

## WORKFLOW

1. Run generate_readme and show the user the result.
2. Offer improvements. The generated text is a starting point, not final copy.
3. Only call save_readme_to_github after the user explicitly approves the
   final text. Saving replaces any existing README.md.
4. Report the commit URL.

## NOTES

- Repository URLs must be GitHub URLs like https://github.com/owner/repo.
  ".git" suffixes and trailing slashes are fine.
- If a section is missing (no contributors, no project structure), GitHub
  did not return that data; the README is still usable.
- If save_readme_to_github reports that README.md changed while saving,
  run generate_readme again and ask the user before retrying.`
}
