// Package config reads the editor's rc file: plain key=value lines in
// ~/.sceneryrc, with "#" comments. Missing file means defaults.
package config

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

type Config struct {
	// ExportDirectory is where exported stills and videos land. Empty means
	// the current directory.
	ExportDirectory string
	// GenerateURL points at the generative-media service, if any.
	GenerateURL string
	// Confirmations gates destructive-action prompts.
	Confirmations bool
}

func Load() *Config {
	config := &Config{
		Confirmations: true,
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return config
	}

	configPath := filepath.Join(homeDir, ".sceneryrc")
	file, err := os.Open(configPath)
	if err != nil {
		return config
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		switch strings.ToLower(key) {
		case "exportdirectory", "export_directory", "exportdir":
			if strings.HasPrefix(value, "~") {
				value = filepath.Join(homeDir, strings.TrimPrefix(value, "~"))
			}
			if !filepath.IsAbs(value) {
				if absPath, err := filepath.Abs(value); err == nil {
					value = absPath
				}
			}
			config.ExportDirectory = value
		case "generateurl", "generate_url":
			config.GenerateURL = value
		case "confirmations", "confirm":
			config.Confirmations = strings.ToLower(value) == "true"
		}
	}

	return config
}

// ExportDir resolves the export target directory, creating it when
// configured.
func (c *Config) ExportDir() string {
	if c.ExportDirectory == "" {
		return "."
	}
	os.MkdirAll(c.ExportDirectory, 0o755)
	return c.ExportDirectory
}
