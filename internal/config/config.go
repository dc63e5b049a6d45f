package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

var validEnvs = map[string]bool{
	"local": true,
	"alpha": true,
	"beta":  true,
	"prod":  true,
}

const (
	StoreDriverDynamo = "dynamo"
	StoreDriverMemory = "memory"
)

type Config struct {
	ServerPort  string
	AppEnv      string
	AuthDevMode bool
	LogLevel    string
	StoreDriver string
	Dynamo      DynamoConfig
	Cognito     CognitoConfig
}

type DynamoConfig struct {
	Region    string
	TableName string
	IndexName string
	// Endpoint, when set, points the client at a local DynamoDB.
	Endpoint string
}

type CognitoConfig struct {
	Region          string
	UserPoolID      string
	AppClientID     string
	AppClientSecret string
}

func (c Config) ParseLogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (c Config) Validate() error {
	if _, err := strconv.Atoi(c.ServerPort); err != nil {
		return fmt.Errorf("invalid SERVER_PORT %q: %w", c.ServerPort, err)
	}
	if !validEnvs[c.AppEnv] {
		return fmt.Errorf("invalid APP_ENV %q: must be one of local, alpha, beta, prod", c.AppEnv)
	}
	if c.AuthDevMode && c.AppEnv != "local" {
		return fmt.Errorf("AUTH_DEV_MODE must not be enabled in %s environment", c.AppEnv)
	}
	switch c.StoreDriver {
	case StoreDriverDynamo:
		if c.Dynamo.TableName == "" {
			return fmt.Errorf("DYNAMO_TABLE_NAME is required when STORE_DRIVER is %s", StoreDriverDynamo)
		}
		if c.Dynamo.IndexName == "" {
			return fmt.Errorf("DYNAMO_OWNER_INDEX_NAME is required when STORE_DRIVER is %s", StoreDriverDynamo)
		}
	case StoreDriverMemory:
		if c.AppEnv != "local" {
			return fmt.Errorf("STORE_DRIVER %q must not be used in %s environment", c.StoreDriver, c.AppEnv)
		}
	default:
		return fmt.Errorf("invalid STORE_DRIVER %q: must be %s or %s", c.StoreDriver, StoreDriverDynamo, StoreDriverMemory)
	}
	if !c.AuthDevMode {
		if c.Cognito.UserPoolID == "" {
			return fmt.Errorf("COGNITO_USER_POOL_ID is required when AUTH_DEV_MODE is disabled")
		}
		if c.Cognito.AppClientID == "" {
			return fmt.Errorf("COGNITO_APP_CLIENT_ID is required when AUTH_DEV_MODE is disabled")
		}
	}
	return nil
}

func Load() Config {
	return Config{
		ServerPort:  envOrDefault("SERVER_PORT", "8080"),
		AppEnv:      envOrDefault("APP_ENV", "local"),
		AuthDevMode: strings.EqualFold(envOrDefault("AUTH_DEV_MODE", "false"), "true"),
		LogLevel:    envOrDefault("LOG_LEVEL", "info"),
		StoreDriver: envOrDefault("STORE_DRIVER", StoreDriverDynamo),
		Dynamo: DynamoConfig{
			Region:    envOrDefault("DYNAMO_REGION", "us-east-1"),
			TableName: envOrDefault("DYNAMO_TABLE_NAME", "TodoItems"),
			IndexName: envOrDefault("DYNAMO_OWNER_INDEX_NAME", "ownerId-createdAt-index"),
			Endpoint:  os.Getenv("DYNAMO_ENDPOINT"),
		},
		Cognito: CognitoConfig{
			Region:          envOrDefault("COGNITO_REGION", "us-east-1"),
			UserPoolID:      os.Getenv("COGNITO_USER_POOL_ID"),
			AppClientID:     os.Getenv("COGNITO_APP_CLIENT_ID"),
			AppClientSecret: os.Getenv("COGNITO_APP_CLIENT_SECRET"),
		},
	}
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
