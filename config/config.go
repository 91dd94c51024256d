package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the node configuration.
type Config struct {
	Node NodeConfig `yaml:"node"`
	API  APIConfig  `yaml:"api"`
	P2P  P2PConfig  `yaml:"p2p"`
}

// NodeConfig holds node identity and logging settings.
type NodeConfig struct {
	ID       string `yaml:"id"`
	LogLevel string `yaml:"log_level"`
}

// APIConfig holds the HTTP control surface settings.
type APIConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// P2PConfig holds the peer-to-peer listener settings. Seed peers are
// dialed once at startup; there is no discovery beyond that.
type P2PConfig struct {
	Port      int      `yaml:"port"`
	SeedPeers []string `yaml:"seed_peers"`
}

// Default returns the built-in configuration used when no file or
// environment overrides are present.
func Default() Config {
	return Config{
		Node: NodeConfig{
			ID:       "goncoin-node",
			LogLevel: "info",
		},
		API: APIConfig{
			Host: "0.0.0.0",
			Port: 3001,
		},
		P2P: P2PConfig{
			Port: 6001,
		},
	}
}

// Load loads configuration from a YAML file and environment variables.
// A missing file is not an error; defaults and the environment apply.
func Load(path string) (*Config, error) {
	defaults := Default()
	cfg := &defaults

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		} else {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	cfg.loadEnv()

	return cfg, nil
}

func (c *Config) loadEnv() {
	if id := os.Getenv("NODE_ID"); id != "" {
		c.Node.ID = id
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.Node.LogLevel = level
	}
	if host := os.Getenv("API_HOST"); host != "" {
		c.API.Host = host
	}
	if port := os.Getenv("API_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.API.Port = p
		}
	}
	if port := os.Getenv("P2P_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.P2P.Port = p
		}
	}
	if seeds := os.Getenv("P2P_SEED_PEERS"); seeds != "" {
		var peers []string
		for _, s := range strings.Split(seeds, ",") {
			if s = strings.TrimSpace(s); s != "" {
				peers = append(peers, s)
			}
		}
		c.P2P.SeedPeers = peers
	}
}
