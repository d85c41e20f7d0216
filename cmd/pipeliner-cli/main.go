// Pipeliner CLI — инструмент командной строки для проверки и
// выполнения pipeline через HTTP API.
//
// Использование:
//
//	pipeliner [--api-url URL] [--json] <command> [flags]
//
// Команды:
//
//	parse       Проверить pipeline (узлы, рёбра, DAG)
//	execute     Выполнить pipeline
//	render      Вывести граф в формате DOT
//	executions  История выполнений
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shaiso/Pipeliner/internal/cli"
)

// version задаётся через ldflags при сборке.
var version = "dev"

func main() {
	var apiURL string
	var jsonOutput bool

	rootCmd := &cobra.Command{
		Use:           "pipeliner",
		Short:         "Pipeliner CLI — pipeline graph analysis and execution",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	defaultURL := "http://localhost:8080"
	if v := os.Getenv("PIPELINER_API_URL"); v != "" {
		defaultURL = v
	}

	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", defaultURL, "API server URL")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	clientFn := func() *cli.Client { return cli.NewClient(apiURL) }
	outputFn := func() *cli.Output { return cli.NewOutput(jsonOutput) }

	rootCmd.AddCommand(
		cli.NewParseCmd(clientFn, outputFn),
		cli.NewExecuteCmd(clientFn, outputFn),
		cli.NewRenderCmd(clientFn, outputFn),
		cli.NewExecutionsCmd(clientFn, outputFn),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
