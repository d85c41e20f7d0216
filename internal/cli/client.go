package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// --- Response types (дублируются из api/dto.go, CLI не импортирует internal/api) ---

// ParseResponse — ответ /pipelines/parse.
type ParseResponse struct {
	NumNodes int  `json:"num_nodes"`
	NumEdges int  `json:"num_edges"`
	IsDAG    bool `json:"is_dag"`
}

// ExecuteResponse — ответ /pipelines/execute.
// Заполнено ровно одно из полей.
type ExecuteResponse struct {
	Result *string `json:"result,omitempty"`
	Error  *string `json:"error,omitempty"`
}

// ExecutionResponse — запись истории выполнений из API.
type ExecutionResponse struct {
	ID         string `json:"id"`
	Input      string `json:"input"`
	Tier       string `json:"tier,omitempty"`
	Status     string `json:"status"`
	Result     string `json:"result,omitempty"`
	Error      string `json:"error,omitempty"`
	NumNodes   int    `json:"num_nodes"`
	NumEdges   int    `json:"num_edges"`
	DurationMs int64  `json:"duration_ms"`
	CreatedAt  string `json:"created_at"`
}

// ListExecutionsOpts — параметры фильтрации истории.
type ListExecutionsOpts struct {
	Status string
	Limit  int
	Offset int
}

// --- API response wrappers ---

type dataResponse struct {
	Data json.RawMessage `json:"data"`
}

type listResponse struct {
	Data  json.RawMessage `json:"data"`
	Total int             `json:"total"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// --- Client ---

// Client — HTTP-клиент для Pipeliner API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient создаёт клиент для API.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			// execute ждёт ответа провайдеров, таймаут с запасом
			Timeout: 3 * time.Minute,
		},
	}
}

// --- Pipelines ---

// Parse отправляет pipeline на /pipelines/parse.
func (c *Client) Parse(pipeline json.RawMessage) (*ParseResponse, error) {
	var res ParseResponse
	err := c.postRaw("/pipelines/parse", pipeline, &res)
	return &res, err
}

// Execute отправляет pipeline на /pipelines/execute.
func (c *Client) Execute(pipeline json.RawMessage) (*ExecuteResponse, error) {
	var res ExecuteResponse
	err := c.postRaw("/pipelines/execute", pipeline, &res)
	return &res, err
}

// Render возвращает pipeline в формате Graphviz DOT.
func (c *Client) Render(pipeline json.RawMessage) (string, error) {
	resp, err := c.do(http.MethodPost, "/pipelines/render", pipeline)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return "", err
	}

	dot, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	return string(dot), nil
}

// --- Executions ---

// ListExecutions возвращает историю выполнений.
func (c *Client) ListExecutions(opts ListExecutionsOpts) ([]ExecutionResponse, error) {
	params := url.Values{}
	if opts.Status != "" {
		params.Set("status", opts.Status)
	}
	if opts.Limit > 0 {
		params.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Offset > 0 {
		params.Set("offset", strconv.Itoa(opts.Offset))
	}

	var executions []ExecutionResponse
	err := c.list("/pipelines/executions", params, &executions)
	return executions, err
}

// GetExecution возвращает запись истории по ID.
func (c *Client) GetExecution(id string) (*ExecutionResponse, error) {
	var execution ExecutionResponse
	err := c.get("/pipelines/executions/"+url.PathEscape(id), &execution)
	return &execution, err
}

// --- HTTP helpers ---

func (c *Client) get(path string, result any) error {
	resp, err := c.do(http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return err
	}

	var dr dataResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return json.Unmarshal(dr.Data, result)
}

// postRaw отправляет JSON как есть и декодирует ответ без обёртки data.
func (c *Client) postRaw(path string, body json.RawMessage, result any) error {
	resp, err := c.do(http.MethodPost, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) list(path string, params url.Values, result any) error {
	if len(params) > 0 {
		path = path + "?" + params.Encode()
	}

	resp, err := c.do(http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return err
	}

	var lr listResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return json.Unmarshal(lr.Data, result)
}

func (c *Client) do(method, path string, body []byte) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.httpClient.Do(req)
}

func (c *Client) checkError(resp *http.Response) error {
	if resp.StatusCode < 400 {
		return nil
	}

	var er errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil || er.Error.Code == "" {
		return fmt.Errorf("API error: HTTP %d", resp.StatusCode)
	}

	return fmt.Errorf("%s: %s", er.Error.Code, er.Error.Message)
}
