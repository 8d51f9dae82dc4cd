package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/compiler"
	"github.com/aretw0/turing/internal/logging"
	"github.com/aretw0/turing/internal/presentation/graph"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/ports"
	"github.com/aretw0/turing/pkg/runs"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// MachinesURI is the resource listing the machine library.
const MachinesURI = "turing://machines"

// RunResponse aligns with the HTTP API and provides a unified structure across adapters.
type RunResponse struct {
	ID         string `json:"id" jsonschema_description:"Run identifier"`
	MachineID  string `json:"machine_id,omitempty" jsonschema_description:"Library machine that was run, if any"`
	Input      string `json:"input" jsonschema_description:"Input tape as submitted"`
	Output     string `json:"output" jsonschema_description:"Canonical final tape"`
	Acceptance int    `json:"acceptance" jsonschema_description:"1 if the machine accepted, otherwise 0"`
	Status     string `json:"status" jsonschema_description:"Terminal condition of the run"`
	Steps      int    `json:"steps" jsonschema_description:"Transitions applied"`
	MaxSteps   int    `json:"max_steps" jsonschema_description:"Step budget of the run"`
}

// ListRunsResponse wraps the run history.
type ListRunsResponse struct {
	Runs []RunResponse `json:"runs" jsonschema_description:"Stored runs, oldest first"`
}

// Server wraps the run service and exposes it as an MCP Server.
type Server struct {
	runs      ports.RunService
	loader    ports.MachineLoader
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance. loader may be nil.
func NewServer(svc ports.RunService, loader ports.MachineLoader, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		runs:      svc,
		loader:    loader,
		logger:    logger,
		mcpServer: server.NewMCPServer("turing-mcp", strings.TrimSpace(turing.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer exposes the underlying server, e.g. for in-process clients.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops it
// gracefully when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: run_machine
	runTool := mcp.NewTool("run_machine",
		mcp.WithDescription("Run a Turing machine on an input tape. Give either machine_id (library) or an inline machine document."),
		mcp.WithString("machine_id", mcp.Description("ID of a machine in the library")),
		mcp.WithString("machine", mcp.Description("Inline machine document (JSON or YAML)")),
		mcp.WithString("format", mcp.Description("Format of the inline document: json (default) or yaml")),
		mcp.WithString("input", mcp.Description("Input tape; one trailing newline is ignored")),
		mcp.WithNumber("max_steps", mcp.Description("Lower step budget (optional, capped at the server budget)")),
		mcp.WithOutputSchema[RunResponse](),
	)
	s.mcpServer.AddTool(runTool, mcp.NewStructuredToolHandler(s.handleRun))

	// TOOL: list_runs
	s.mcpServer.AddTool(mcp.NewTool("list_runs",
		mcp.WithDescription("List stored runs, oldest first."),
		mcp.WithOutputSchema[ListRunsResponse](),
	), mcp.NewStructuredToolHandler(s.handleListRuns))

	// TOOL: get_run
	s.mcpServer.AddTool(mcp.NewTool("get_run",
		mcp.WithDescription("Fetch one stored run by ID."),
		mcp.WithString("run_id", mcp.Required(), mcp.Description("Run identifier")),
		mcp.WithOutputSchema[RunResponse](),
	), mcp.NewStructuredToolHandler(s.handleGetRun))

	// TOOL: graph_machine
	s.mcpServer.AddTool(mcp.NewTool("graph_machine",
		mcp.WithDescription("Render a library machine as a Mermaid state diagram."),
		mcp.WithString("machine_id", mcp.Required(), mcp.Description("ID of a machine in the library")),
	), s.handleGraph)
}

// Handler methods for structured tools

func (s *Server) handleRun(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (RunResponse, error) {
	machineID, _ := args["machine_id"].(string)
	doc, _ := args["machine"].(string)
	format, _ := args["format"].(string)
	input, _ := args["input"].(string)

	if err := runs.CheckInput(input); err != nil {
		s.logger.Warn("MCP run_machine: Input rejected", "err", err, "size", len(input))
		return RunResponse{}, fmt.Errorf("input rejected: %w", err)
	}

	req := domain.RunRequest{
		MachineID: machineID,
		Input:     input,
	}
	if n, ok := args["max_steps"].(float64); ok && n > 0 {
		req.MaxSteps = int(n)
	}
	if doc != "" {
		m, err := compiler.Parse([]byte(doc), documentFormat(format))
		if err != nil {
			return RunResponse{}, err
		}
		m.ID = machineID
		req.Machine = m
	}

	run, err := s.runs.Execute(ctx, req)
	if err != nil {
		return RunResponse{}, fmt.Errorf("run failed: %w", err)
	}
	return toResponse(run), nil
}

func (s *Server) handleGraph(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := request.GetString("machine_id", "")
	if s.loader == nil {
		return mcp.NewToolResultError("no machine library configured"), nil
	}
	m, err := s.loader.LoadMachine(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("load failed: %v", err)), nil
	}
	return mcp.NewToolResultText(graph.GenerateMermaid(m)), nil
}

func documentFormat(name string) compiler.Format {
	switch strings.ToLower(name) {
	case "yaml", "yml":
		return compiler.FormatYAML
	default:
		return compiler.FormatJSON
	}
}

func (s *Server) handleListRuns(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ListRunsResponse, error) {
	history, err := s.runs.History(ctx)
	if err != nil {
		return ListRunsResponse{}, fmt.Errorf("list failed: %w", err)
	}
	resp := ListRunsResponse{Runs: make([]RunResponse, 0, len(history))}
	for _, run := range history {
		resp.Runs = append(resp.Runs, toResponse(run))
	}
	return resp, nil
}

func (s *Server) handleGetRun(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (RunResponse, error) {
	id, _ := args["run_id"].(string)
	run, err := s.runs.Get(ctx, id)
	if errors.Is(err, domain.ErrRunNotFound) {
		return RunResponse{}, fmt.Errorf("run %q not found", id)
	}
	if err != nil {
		return RunResponse{}, err
	}
	return toResponse(run), nil
}

func toResponse(run *domain.Run) RunResponse {
	return RunResponse{
		ID:         run.ID,
		MachineID:  run.MachineID,
		Input:      run.Input,
		Output:     run.Output,
		Acceptance: run.Acceptance,
		Status:     string(run.Status),
		Steps:      run.Steps,
		MaxSteps:   run.MaxSteps,
	}
}

func (s *Server) registerResources() {
	// EXPOSE: turing://machines
	s.mcpServer.AddResource(mcp.NewResource(MachinesURI, "Machine Library",
		mcp.WithResourceDescription("IDs of the machines available to run_machine"),
		mcp.WithMIMEType("application/json"),
	), s.handleMachines)
}

func (s *Server) handleMachines(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	ids := []string{}
	if s.loader != nil {
		var err error
		ids, err = s.loader.ListMachines(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list machines: %w", err)
		}
	}
	jsonBytes, _ := json.Marshal(ids)

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      MachinesURI,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}
