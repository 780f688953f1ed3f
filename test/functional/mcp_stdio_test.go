package functional_test

import (
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

// stdioSession wraps an MCP client session talking to the server binary over stdio.
type stdioSession struct {
	session *sdkmcp.ClientSession
}

func newStdioSession(t *testing.T) *stdioSession {
	t.Helper()

	binaryPath := "./bin/loom"
	if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
		binaryPath = "../../bin/loom"
		if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
			t.Skip("Server binary not found. Run 'make build' first.")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)

	cmd := exec.CommandContext(ctx, binaryPath)
	cmd.Env = append(os.Environ(),
		"LOOM_MCP_MODE=stdio",
		"LOOM_STORE_DRIVER=sqlite",
		"LOOM_STORE_SQLITE_PATH=:memory:",
		"LOOM_SERVER_PORT=0",
	)

	client := sdkmcp.NewClient(&sdkmcp.Implementation{
		Name:    "test-client",
		Version: "1.0.0",
	}, nil)

	session, err := client.Connect(ctx, &sdkmcp.CommandTransport{Command: cmd}, nil)
	if err != nil {
		cancel()
		t.Fatalf("Failed to connect: %v", err)
	}

	t.Cleanup(func() {
		session.Close()
		cancel()
	})

	return &stdioSession{session: session}
}

func (s *stdioSession) callTool(t *testing.T, name string, args map[string]any) json.RawMessage {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := s.session.CallTool(ctx, &sdkmcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	require.NoError(t, err, "CallTool %s failed", name)
	require.False(t, result.IsError, "Tool %s returned error", name)

	for _, content := range result.Content {
		if textContent, ok := content.(*sdkmcp.TextContent); ok {
			return json.RawMessage(textContent.Text)
		}
	}
	t.Fatalf("Tool %s returned no text content", name)
	return nil
}

func TestStdioFunctional_ServerInfo(t *testing.T) {
	s := newStdioSession(t)

	initResult := s.session.InitializeResult()
	require.NotNil(t, initResult)
	require.NotNil(t, initResult.ServerInfo)
	require.Equal(t, "loom", initResult.ServerInfo.Name)
	require.NotEmpty(t, initResult.Instructions)
}

func TestStdioFunctional_RegisterAndList(t *testing.T) {
	s := newStdioSession(t)

	s.callTool(t, "register_domain", map[string]any{
		"name":                     "test-domain",
		"retention_period_in_days": "60",
	})
	s.callTool(t, "register_activity_type", map[string]any{
		"domain":  "test-domain",
		"name":    "test-activity",
		"version": "v1.0",
	})

	var list struct {
		Types []struct {
			Name    string `json:"name"`
			Version string `json:"version"`
		} `json:"types"`
	}
	require.NoError(t, json.Unmarshal(s.callTool(t, "list_activity_types", map[string]any{"domain": "test-domain"}), &list))
	require.Len(t, list.Types, 1)
	require.Equal(t, "test-activity", list.Types[0].Name)
}

func TestStdioFunctional_DocumentationResources(t *testing.T) {
	s := newStdioSession(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	resources, err := s.session.ListResources(ctx, nil)
	require.NoError(t, err)
	require.Len(t, resources.Resources, 1)
	require.Equal(t, "loom://docs/index", resources.Resources[0].URI)
	require.Equal(t, "text/markdown", resources.Resources[0].MIMEType)
}
