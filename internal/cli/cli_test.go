package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chainPipeline = `{"nodes":[{"id":"a","type":"input","data":{"text":"hi"}},{"id":"b","type":"llm","data":{}}],
"edges":[{"id":"e1","source":"a","target":"b"}]}`

func writePipeline(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pipeline.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

// runCmd выполняет команду и возвращает stdout.
func runCmd(t *testing.T, factory func(func() *Client, func() *Output) *cobra.Command, apiURL string, jsonMode bool, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	clientFn := func() *Client { return NewClient(apiURL) }
	outputFn := func() *Output { return &Output{jsonMode: jsonMode, w: &stdout, errW: &stderr} }

	cmd := factory(clientFn, outputFn)
	cmd.SetArgs(args)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	err := cmd.Execute()
	return stdout.String(), err
}

func TestParseCmd_Offline(t *testing.T) {
	path := writePipeline(t, chainPipeline)

	out, err := runCmd(t, NewParseCmd, "http://127.0.0.1:0", true, "--offline", path)
	require.NoError(t, err)

	var res ParseResponse
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, ParseResponse{NumNodes: 2, NumEdges: 1, IsDAG: true}, res)
}

func TestParseCmd_OfflineInvalid(t *testing.T) {
	path := writePipeline(t, `{"nodes":[{"id":"a"}],"edges":[]}`)

	_, err := runCmd(t, NewParseCmd, "http://127.0.0.1:0", false, "--offline", path)
	assert.Error(t, err)
}

func TestParseCmd_API(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pipelines/parse", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, chainPipeline, string(body))
		w.Write([]byte(`{"num_nodes":2,"num_edges":1,"is_dag":true}`))
	}))
	defer srv.Close()

	out, err := runCmd(t, NewParseCmd, srv.URL, false, writePipeline(t, chainPipeline))
	require.NoError(t, err)
	assert.Contains(t, out, "NODES")
	assert.Contains(t, out, "true")
}

func TestExecuteCmd(t *testing.T) {
	serve := func(answer string) *httptest.Server {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/pipelines/execute", r.URL.Path)
			w.Write([]byte(answer))
		}))
		t.Cleanup(srv.Close)
		return srv
	}
	path := writePipeline(t, chainPipeline)

	out, err := runCmd(t, NewExecuteCmd, serve(`{"result":"generated text"}`).URL, false, path)
	require.NoError(t, err)
	assert.Equal(t, "generated text\n", out)

	_, err = runCmd(t, NewExecuteCmd, serve(`{"error":"quota exceeded"}`).URL, false, path)
	require.ErrorIs(t, err, ErrExecutionFailed)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestRenderCmd_Offline(t *testing.T) {
	out, err := runCmd(t, NewRenderCmd, "http://127.0.0.1:0", false, "--offline", writePipeline(t, chainPipeline))
	require.NoError(t, err)
	assert.Contains(t, out, "digraph")
}

func TestClient_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"error":{"code":"VALIDATION_ERROR","message":"invalid pipeline input: nodes[0].type"}}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Parse(json.RawMessage(`{}`))
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR: invalid pipeline input: nodes[0].type", err.Error())
}

func TestExecutionsCmd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/pipelines/executions":
			assert.Equal(t, "FAILED", r.URL.Query().Get("status"))
			assert.Equal(t, "5", r.URL.Query().Get("limit"))
			w.Write([]byte(`{"data":[{"id":"x1","status":"FAILED","num_nodes":3,"num_edges":2,"duration_ms":12,"created_at":"2026-01-01T00:00:00Z"}],"total":1}`))
		case strings.HasPrefix(r.URL.Path, "/pipelines/executions/"):
			w.Write([]byte(`{"data":{"id":"x1","status":"SUCCEEDED","tier":"primary","input":"q","result":"a"}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	out, err := runCmd(t, NewExecutionsCmd, srv.URL, false, "list", "--status", "FAILED", "--limit", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "x1")
	assert.Contains(t, out, "DURATION_MS")

	out, err = runCmd(t, NewExecutionsCmd, srv.URL, true, "show", "x1")
	require.NoError(t, err)
	var e ExecutionResponse
	require.NoError(t, json.Unmarshal([]byte(out), &e))
	assert.Equal(t, "primary", e.Tier)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abc…", truncate("abcdef", 4))
}
