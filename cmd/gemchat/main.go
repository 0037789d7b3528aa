package main

import (
	"log"
	"os"
	"path/filepath"

	"gemchat/internal/config"
	"gemchat/internal/gemini"
	"gemchat/internal/storage"
	"gemchat/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}
	if cfg.APIKey == "" {
		log.Fatal("An API key is required: set GEMINI_API_KEY or api_key in ~/.gemchat/config.toml")
	}

	if err := os.MkdirAll(filepath.Dir(cfg.StorePath), 0755); err != nil {
		log.Fatal("Failed to create data directory:", err)
	}

	// The TUI owns the terminal, so the log goes to a file.
	logFile, err := os.OpenFile(cfg.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		log.Fatal("Failed to open log file:", err)
	}
	defer logFile.Close()
	logger := zerolog.New(logFile).With().Timestamp().Logger()

	store, err := storage.Open(cfg.StorePath, logger)
	if err != nil {
		log.Fatal("Failed to open conversation store:", err)
	}
	defer store.Close()
	store.Load()

	client := gemini.NewClient(&gemini.ClientConfig{
		BaseURL: cfg.BaseURL,
		APIKey:  cfg.APIKey,
	}, logger)

	model := ui.NewModel(client, store, cfg, logger)

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatal(err)
	}
}
