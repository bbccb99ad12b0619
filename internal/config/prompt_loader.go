package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// LoadedPrompts holds the content of the assessment prompts currently
// in effect. File overrides are re-read by the PromptWatcher, so reads
// go through the store's lock.
type LoadedPrompts struct {
	System string
	User   string
}

type promptStore struct {
	mu      sync.RWMutex
	prompts LoadedPrompts
}

var loadedPrompts promptStore

// GetLoadedPrompts returns the prompt content currently in effect
func GetLoadedPrompts() LoadedPrompts {
	loadedPrompts.mu.RLock()
	defer loadedPrompts.mu.RUnlock()
	return loadedPrompts.prompts
}

func setLoadedPrompts(p LoadedPrompts) {
	loadedPrompts.mu.Lock()
	defer loadedPrompts.mu.Unlock()
	loadedPrompts.prompts = p
}

// loadPromptsFromFiles loads custom prompts, preferring file overrides
// over inline config values. Built-in defaults apply when both are empty.
func (c *Config) loadPromptsFromFiles() error {
	prompts := LoadedPrompts{
		System: c.AI.CustomPrompts.System,
		User:   c.AI.CustomPrompts.User,
	}

	if c.AI.CustomPrompts.SystemFile != "" {
		content, err := c.loadPromptFromFile(c.AI.CustomPrompts.SystemFile, "system")
		if err != nil {
			return err
		}
		prompts.System = content
	}

	if c.AI.CustomPrompts.UserFile != "" {
		content, err := c.loadPromptFromFile(c.AI.CustomPrompts.UserFile, "user")
		if err != nil {
			return err
		}
		prompts.User = content
	}

	setLoadedPrompts(prompts)
	c.logPromptLoadingSummary(prompts)

	return nil
}

// ReloadPrompts re-reads the prompt files in place. Used by the
// PromptWatcher when a watched file changes; a failed reload keeps the
// previous prompts.
func (c *Config) ReloadPrompts() error {
	return c.loadPromptsFromFiles()
}

// loadPromptFromFile loads a prompt from a file with proper error handling and logging
func (c *Config) loadPromptFromFile(filePath, promptType string) (string, error) {
	// Resolve relative paths
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path for %s prompt file '%s': %w", promptType, filePath, err)
	}

	// Check if file exists
	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		return "", fmt.Errorf("%s prompt file not found: %s", promptType, absPath)
	}

	// Read file content
	content, err := os.ReadFile(absPath)
	if err != nil {
		return "", fmt.Errorf("failed to read %s prompt file '%s': %w", promptType, absPath, err)
	}

	// Validate content is not empty
	trimmedContent := strings.TrimSpace(string(content))
	if trimmedContent == "" {
		return "", fmt.Errorf("%s prompt file '%s' is empty", promptType, absPath)
	}

	log.Printf("[CONFIG] Successfully loaded %s prompt from file: %s (%d characters)",
		promptType, absPath, len(trimmedContent))

	return trimmedContent, nil
}

// validatePromptFiles validates that prompt files exist and are readable before loading
func (c *Config) validatePromptFiles() error {
	var validationErrors []string

	validateFile := func(filePath, promptType string) {
		if filePath == "" {
			return // No file specified, skip validation
		}

		absPath, err := filepath.Abs(filePath)
		if err != nil {
			validationErrors = append(validationErrors, fmt.Sprintf("invalid path for %s prompt: %s", promptType, filePath))
			return
		}

		if _, err := os.Stat(absPath); os.IsNotExist(err) {
			validationErrors = append(validationErrors, fmt.Sprintf("%s prompt file not found: %s", promptType, absPath))
		}
	}

	validateFile(c.AI.CustomPrompts.SystemFile, "system")
	validateFile(c.AI.CustomPrompts.UserFile, "user")

	if len(validationErrors) > 0 {
		return fmt.Errorf("prompt file validation failed:\n%s", strings.Join(validationErrors, "\n"))
	}

	return nil
}

// logPromptLoadingSummary logs a summary of loaded prompts
func (c *Config) logPromptLoadingSummary(prompts LoadedPrompts) {
	count := 0
	if prompts.System != "" {
		log.Println("[CONFIG] Custom system prompt: loaded from config/file")
		count++
	}
	if prompts.User != "" {
		log.Println("[CONFIG] Custom user prompt template: loaded from config/file")
		count++
	}
	if count == 0 {
		log.Println("[CONFIG] No custom prompts loaded - using built-in defaults")
	}
}
