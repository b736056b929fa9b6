package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

const (
	defaultConfigFileName     = "config.yml"
	defaultBondParamsFileName = "bond-params.json"
	defaultPoolsFileName      = "pools.json"
)

var (
	cfgPath        string
	bondParamsPath string
	poolsPath      string
	replayFlag     bool
	inMemoryFlag   bool
	rootCmd        = &cobra.Command{
		Use:   "start-server",
		Short: "Claim and dispute resolution API service",
	}
)

func Setup() error {
	homePath, err := os.UserHomeDir()
	if err != nil {
		return err
	}

	defaultConfigPath := getDefaultConfigFile(homePath, defaultConfigFileName)
	defaultBondParamsPath := getDefaultConfigFile(homePath, defaultBondParamsFileName)
	defaultPoolsPath := getDefaultConfigFile(homePath, defaultPoolsFileName)

	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", defaultConfigPath, fmt.Sprintf("config file (default %s)", defaultConfigPath))
	rootCmd.PersistentFlags().StringVar(&bondParamsPath, "params", defaultBondParamsPath, fmt.Sprintf("bond params file (default %s)", defaultBondParamsPath))
	rootCmd.PersistentFlags().StringVar(&poolsPath, "pools", defaultPoolsPath, fmt.Sprintf("monitored pools file (default %s)", defaultPoolsPath))
	rootCmd.PersistentFlags().BoolVar(&replayFlag, "replay", false, "Replay unprocessable queue messages")
	rootCmd.PersistentFlags().BoolVar(&inMemoryFlag, "in-memory", false, "Keep claims and balances in memory instead of MongoDB (development only)")
	if err := rootCmd.Execute(); err != nil {
		return err
	}

	return nil
}

func getDefaultConfigFile(homePath, filename string) string {
	return filepath.Join(homePath, filename)
}

func GetConfigPath() string {
	return cfgPath
}

func GetBondParamsPath() string {
	return bondParamsPath
}

func GetPoolsPath() string {
	return poolsPath
}

func GetReplayFlag() bool {
	return replayFlag
}

func GetInMemoryFlag() bool {
	return inMemoryFlag
}
