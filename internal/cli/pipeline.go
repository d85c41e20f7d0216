package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/shaiso/Pipeliner/internal/engine"
)

// ErrExecutionFailed — execute вернул {"error": ...}.
var ErrExecutionFailed = errors.New("execution failed")

// NewParseCmd создаёт команду parse.
func NewParseCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var offline bool

	cmd := &cobra.Command{
		Use:   "parse FILE",
		Short: "Count nodes and edges and check that the pipeline is a DAG",
		Long:  "Count nodes and edges and check that the pipeline is a DAG.\nFILE may be - to read from stdin.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()

			raw, err := readPipeline(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}

			var res *ParseResponse
			if offline {
				res, err = parseOffline(raw)
			} else {
				res, err = clientFn().Parse(raw)
			}
			if err != nil {
				return err
			}

			out.Print(
				[]string{"NODES", "EDGES", "DAG"},
				[][]string{{strconv.Itoa(res.NumNodes), strconv.Itoa(res.NumEdges), strconv.FormatBool(res.IsDAG)}},
				res,
			)
			return nil
		},
	}

	cmd.Flags().BoolVar(&offline, "offline", false, "Parse locally without calling the API")

	return cmd
}

// NewExecuteCmd создаёт команду execute.
func NewExecuteCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "execute FILE",
		Short: "Execute the pipeline and print the generated text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()

			raw, err := readPipeline(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}

			res, err := clientFn().Execute(raw)
			if err != nil {
				return err
			}

			if out.jsonMode {
				out.JSON(res)
			} else if res.Result != nil {
				out.Text(*res.Result)
			}

			if res.Error != nil {
				return fmt.Errorf("%w: %s", ErrExecutionFailed, *res.Error)
			}
			return nil
		},
	}
}

// NewRenderCmd создаёт команду render.
func NewRenderCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var offline bool

	cmd := &cobra.Command{
		Use:     "render FILE",
		Short:   "Render the pipeline graph in Graphviz DOT format",
		Example: "  pipeliner render pipeline.json | dot -Tsvg > pipeline.svg",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()

			raw, err := readPipeline(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}

			var dot string
			if offline {
				dot, err = renderOffline(raw)
			} else {
				dot, err = clientFn().Render(raw)
			}
			if err != nil {
				return err
			}

			out.Text(dot)
			return nil
		},
	}

	cmd.Flags().BoolVar(&offline, "offline", false, "Render locally without calling the API")

	return cmd
}

// readPipeline читает JSON pipeline из файла или stdin ("-").
func readPipeline(path string, stdin io.Reader) (json.RawMessage, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read pipeline: %w", err)
	}
	return data, nil
}

func parseOffline(raw []byte) (*ParseResponse, error) {
	p, err := engine.DecodePipeline(raw)
	if err != nil {
		return nil, err
	}

	res := engine.Parse(p)
	return &ParseResponse{NumNodes: res.NumNodes, NumEdges: res.NumEdges, IsDAG: res.IsDAG}, nil
}

func renderOffline(raw []byte) (string, error) {
	p, err := engine.DecodePipeline(raw)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := engine.RenderDOT(p, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
