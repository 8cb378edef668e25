package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Package config provides configuration management for the SmartRes host service.

// Config struct to hold all configuration data
type Config struct {
	ListenAddr    string `json:"listen_addr"`
	CacheTTLMS    int    `json:"cache_ttl_ms"`
	DivisibleBy   int    `json:"divisible_by"`
	DropdownRatio string `json:"aspect_ratio"`
}

var (
	instance *Config
	once     sync.Once
)

// GetConfig returns the singleton instance of Config.
func GetConfig() *Config {
	once.Do(func() {
		instance = &Config{}
		if err := instance.loadFromFile(GetFilename()); err != nil {
			// Missing or unreadable config is not fatal, run on defaults.
			fmt.Println("Error loading config:", err)
			instance.setDefaultValues()
		}
		instance.applyFallbacks()
	})
	return instance
}

// GetFilename returns the path to the user's config file
func GetFilename() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("Error getting user home directory: %v", err)
	}
	return filepath.Join(homeDir, "."+strings.ToLower(AppName), "config.json")
}

// GetPath returns the path to the user's config directory
func GetPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("Error getting user home directory: %v", err)
	}
	return filepath.Join(homeDir, "."+strings.ToLower(AppName))
}

// loadFromFile loads configuration from the specified file
func (c *Config) loadFromFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return err
	}

	return json.Unmarshal(data, c)
}

// setDefaultValues sets default values for the configuration
func (c *Config) setDefaultValues() {
	c.ListenAddr = DefaultListenAddr
	c.CacheTTLMS = DefaultCacheTTLMillis
	c.DivisibleBy = DefaultDivisor
	c.DropdownRatio = DefaultDropdownRatio
}

// applyFallbacks backfills any fields a hand-edited config file left empty.
func (c *Config) applyFallbacks() {
	if c.ListenAddr == "" {
		c.ListenAddr = DefaultListenAddr
	}
	if c.CacheTTLMS <= 0 {
		c.CacheTTLMS = DefaultCacheTTLMillis
	}
	switch c.DivisibleBy {
	case 8, 16, 32, 64:
	default:
		c.DivisibleBy = DefaultDivisor
	}
	if c.DropdownRatio == "" {
		c.DropdownRatio = DefaultDropdownRatio
	}
}

// Save saves the current configuration to the user's config file
func (c *Config) Save() {
	cfgFile := GetFilename()
	err := os.MkdirAll(filepath.Dir(cfgFile), 0700)
	if err != nil {
		log.Fatalf("Error creating config directory: %v", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		log.Fatalf("Error encoding config data: %v", err)
	}

	err = os.WriteFile(cfgFile, data, 0644)
	if err != nil {
		log.Fatalf("Error writing config file: %v", err)
	}
}
