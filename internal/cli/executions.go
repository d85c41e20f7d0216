package cli

import (
	"strconv"

	"github.com/spf13/cobra"
)

// NewExecutionsCmd создаёт группу команд для истории выполнений.
func NewExecutionsCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "executions",
		Short: "Browse execution history",
	}

	cmd.AddCommand(
		newExecutionsListCmd(clientFn, outputFn),
		newExecutionsShowCmd(clientFn, outputFn),
	)

	return cmd
}

func newExecutionsListCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var status string
	var limit int
	var offset int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List executions",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			executions, err := client.ListExecutions(ListExecutionsOpts{
				Status: status,
				Limit:  limit,
				Offset: offset,
			})
			if err != nil {
				return err
			}

			headers := []string{"ID", "STATUS", "TIER", "NODES", "EDGES", "DURATION_MS", "CREATED"}
			rows := make([][]string, len(executions))
			for i, e := range executions {
				rows[i] = []string{
					e.ID, e.Status, e.Tier,
					strconv.Itoa(e.NumNodes), strconv.Itoa(e.NumEdges),
					strconv.FormatInt(e.DurationMs, 10), e.CreatedAt,
				}
			}

			out.Print(headers, rows, executions)
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by status (SUCCEEDED, FAILED)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of results")
	cmd.Flags().IntVar(&offset, "offset", 0, "Number of results to skip")

	return cmd
}

func newExecutionsShowCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show execution details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			e, err := client.GetExecution(args[0])
			if err != nil {
				return err
			}

			out.Print(
				[]string{"ID", "STATUS", "TIER", "INPUT", "RESULT", "ERROR", "CREATED"},
				[][]string{{e.ID, e.Status, e.Tier, truncate(e.Input, 40), truncate(e.Result, 60), e.Error, e.CreatedAt}},
				e,
			)
			return nil
		},
	}
}

// truncate обрезает строку до n рун для табличного вывода.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
