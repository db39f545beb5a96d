package cli

import (
	"fmt"
	"os"

	"github.com/funcpod/funcpod/internal/config"
	"github.com/spf13/cobra"
)

var ServerConfig config.RemoteServerConf

var rootCmd = &cobra.Command{
	Use:   "funcpod-cli",
	Short: "CLI utility for funcpod",
	Long:  `CLI utility to deploy and invoke workloads on a funcpod node.`,
}

var invokeCmd = &cobra.Command{
	Use:   "invoke",
	Short: "Invokes a workload",
	Run:   invoke,
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Registers a new workload",
	Run:   create,
}

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Removes a workload from the node",
	Run:   deleteWorkload,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Lists the workloads deployed on the node",
	Run:   list,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Prints the node status",
	Run:   status,
}

var prewarmCmd = &cobra.Command{
	Use:   "prewarm",
	Short: "Creates idle containers for a workload ahead of invocations",
	Run:   prewarm,
}

var workloadName, runtimeClass, handler, customImage, src string
var memory int64
var cpuDemand float64
var instances int64
var forcePull bool
var params []string
var verbose bool

func Init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&ServerConfig.Host, "host", "H", ServerConfig.Host, "remote funcpod host")
	rootCmd.PersistentFlags().IntVarP(&ServerConfig.Port, "port", "P", ServerConfig.Port, "remote funcpod port")

	rootCmd.AddCommand(invokeCmd)
	invokeCmd.Flags().StringVarP(&workloadName, "workload", "w", "", "name of the workload")
	invokeCmd.Flags().StringSliceVarP(&params, "param", "p", nil, "Workload parameter: <name>:<value>")

	rootCmd.AddCommand(createCmd)
	createCmd.Flags().StringVarP(&workloadName, "workload", "w", "", "name of the workload")
	createCmd.Flags().StringVarP(&runtimeClass, "runtime", "r", "python310", "runtime class for the workload")
	createCmd.Flags().StringVarP(&handler, "handler", "", "", "workload handler")
	createCmd.Flags().StringVarP(&customImage, "custom_image", "", "", "custom container image (only if runtime is 'custom')")
	createCmd.Flags().Int64VarP(&memory, "memory", "", 128, "max memory in MB for the workload")
	createCmd.Flags().Float64VarP(&cpuDemand, "cpu", "", 0.0, "estimated CPU demand (e.g., 1.0 = 1 core)")
	createCmd.Flags().StringVarP(&src, "src", "", "", "source of the workload (single file, directory or TAR archive)")

	rootCmd.AddCommand(deleteCmd)
	deleteCmd.Flags().StringVarP(&workloadName, "workload", "w", "", "name of the workload")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(statusCmd)

	rootCmd.AddCommand(prewarmCmd)
	prewarmCmd.Flags().StringVarP(&workloadName, "workload", "w", "", "name of the workload")
	prewarmCmd.Flags().Int64VarP(&instances, "instances", "n", 1, "number of containers to prewarm")
	prewarmCmd.Flags().BoolVarP(&forcePull, "pull", "", false, "force a pull of the workload image")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
