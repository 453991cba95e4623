package main

import (
	"context"
	"os"

	"agentchat/internal/agent"
	"agentchat/internal/config"
	"agentchat/internal/engine"
	"agentchat/internal/logger"
)

func main() {
	// Initialize logger
	logger.Initialize(os.Getenv("DEBUG") == "true")

	config.LoadDotEnv()

	cfg, err := loadConfig()
	if err != nil {
		logger.Get().Fatal().Err(err).Msg("Error loading configuration")
	}
	if cfg.Debug {
		logger.Initialize(true)
	}

	// Acquire the engine; a failure here is fatal.
	eng, err := engine.New(cfg)
	if err != nil {
		logger.Get().Fatal().Err(err).Msg("Engine initialization failed")
	}

	session := agent.NewSession(agent.SessionConfig{
		Responder: agent.New(eng),
		In:        os.Stdin,
		Out:       os.Stdout,
		Labels:    agent.LabelsFor(os.Stdout),
	})

	if err := session.Run(context.Background()); err != nil {
		logger.Get().Fatal().Err(err).Msg("Session failed")
	}
}

// loadConfig reads the environment and applies defaults. Failures are
// reported as engine initialization errors.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, &engine.InitializationError{Err: err}
	}
	return cfg.WithDefaults(), nil
}
