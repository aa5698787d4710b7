package config

import (
	"os"
	"path/filepath"
)

// LambdaTempDir is the only writable directory inside a Lambda environment
const LambdaTempDir = "/tmp"

// isRunningInLambda detects if the application is running in AWS Lambda
func isRunningInLambda() bool {
	return os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != ""
}

// GetDeploymentMode returns the current deployment mode
func GetDeploymentMode() string {
	if isRunningInLambda() {
		return "serverless"
	}
	return "server"
}

// AdaptConfigForServerless moves default on-disk locations under /tmp when
// running in Lambda. Explicitly configured paths are left alone.
func AdaptConfigForServerless(config *Config) *Config {
	if !isRunningInLambda() {
		return config
	}

	if config.Storage.LocalPath == DefaultStorageLocalPath {
		config.Storage.LocalPath = LambdaTempDir
	}

	if config.Database.Path == DefaultDatabasePath {
		config.Database.Path = filepath.Join(LambdaTempDir, "notes.db")
	}

	// A warm container serves one request at a time
	config.RateLimit.RPS = 0

	return config
}

// GetOptimizedConfig returns configuration optimized for the current deployment mode
func GetOptimizedConfig() (*Config, error) {
	config, err := Load()
	if err != nil {
		return nil, err
	}

	return AdaptConfigForServerless(config), nil
}
