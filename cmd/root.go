package main

import (
	"github.com/fyerfyer/doc-dashboard/config"
	"github.com/spf13/cobra"
)

// newRootCmd 创建根命令
func newRootCmd() *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:          "dashboard",
		Short:        "Document dashboard service",
		Long:         "Upload PDF and spreadsheet files, list them as cards and page through their previews.",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "Path to config file")

	load := func() (*config.Config, error) {
		return config.Load(cfgFile)
	}

	root.AddCommand(
		newServeCmd(load),
		newUploadCmd(load),
		newListCmd(load),
	)
	return root
}

// configLoader 延迟到命令执行时才读取配置
type configLoader func() (*config.Config, error)
