package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadPromptsFromFiles(t *testing.T) {
	// Create temporary directory for test files
	tempDir := t.TempDir()

	// Create test prompt files
	systemPromptContent := "Test system prompt for assessment"
	userPromptContent := "Test user prompt template: {{.Posting.Title}}"

	systemPromptFile := filepath.Join(tempDir, "system.md")
	userPromptFile := filepath.Join(tempDir, "user.md")

	if err := os.WriteFile(systemPromptFile, []byte(systemPromptContent), 0600); err != nil {
		t.Fatalf("Failed to create test system prompt file: %v", err)
	}

	if err := os.WriteFile(userPromptFile, []byte(userPromptContent), 0600); err != nil {
		t.Fatalf("Failed to create test user prompt file: %v", err)
	}

	config := &Config{
		AI: AIConfig{
			CustomPrompts: PromptConfig{
				SystemFile: systemPromptFile,
				UserFile:   userPromptFile,
			},
		},
	}

	// Test file loading
	if err := config.loadPromptsFromFiles(); err != nil {
		t.Fatalf("Failed to load prompts from files: %v", err)
	}

	// Verify content was loaded into the shared prompt store
	loaded := GetLoadedPrompts()

	if loaded.System != systemPromptContent {
		t.Errorf("Expected loaded system prompt content '%s', got '%s'",
			systemPromptContent, loaded.System)
	}

	if loaded.User != userPromptContent {
		t.Errorf("Expected loaded user prompt content '%s', got '%s'",
			userPromptContent, loaded.User)
	}

	// Verify file paths are preserved
	if config.AI.CustomPrompts.SystemFile != systemPromptFile {
		t.Error("Expected system prompt file path to be preserved")
	}

	if config.AI.CustomPrompts.UserFile != userPromptFile {
		t.Error("Expected user prompt file path to be preserved")
	}
}

func TestLoadPromptsInlineFallback(t *testing.T) {
	config := &Config{
		AI: AIConfig{
			CustomPrompts: PromptConfig{
				System: "inline system prompt",
			},
		},
	}

	if err := config.loadPromptsFromFiles(); err != nil {
		t.Fatalf("Failed to load prompts: %v", err)
	}

	loaded := GetLoadedPrompts()
	if loaded.System != "inline system prompt" {
		t.Errorf("Expected inline system prompt, got '%s'", loaded.System)
	}
	if loaded.User != "" {
		t.Errorf("Expected empty user prompt, got '%s'", loaded.User)
	}
}

func TestValidatePromptFiles(t *testing.T) {
	// Create temporary directory for test files
	tempDir := t.TempDir()

	// Create a valid test file
	validFile := filepath.Join(tempDir, "valid.md")
	if err := os.WriteFile(validFile, []byte("Valid content"), 0600); err != nil {
		t.Fatalf("Failed to create valid test file: %v", err)
	}

	// Test with valid file
	config := &Config{
		AI: AIConfig{
			CustomPrompts: PromptConfig{
				SystemFile: validFile,
			},
		},
	}

	if err := config.validatePromptFiles(); err != nil {
		t.Errorf("Expected validation to pass for valid file, got error: %v", err)
	}

	// Test with non-existent file
	config.AI.CustomPrompts.SystemFile = filepath.Join(tempDir, "nonexistent.md")

	if err := config.validatePromptFiles(); err == nil {
		t.Error("Expected validation to fail for non-existent file")
	}
}

func TestLoadPromptFromFile(t *testing.T) {
	// Create temporary directory for test files
	tempDir := t.TempDir()

	// Test with valid file
	content := "Test prompt content"
	testFile := filepath.Join(tempDir, "test.md")
	if err := os.WriteFile(testFile, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	config := &Config{}
	loadedContent, err := config.loadPromptFromFile(testFile, "system")
	if err != nil {
		t.Fatalf("Failed to load prompt from file: %v", err)
	}

	if loadedContent != content {
		t.Errorf("Expected content '%s', got '%s'", content, loadedContent)
	}

	// Test with empty file
	emptyFile := filepath.Join(tempDir, "empty.md")
	if err := os.WriteFile(emptyFile, []byte(""), 0600); err != nil {
		t.Fatalf("Failed to create empty test file: %v", err)
	}

	if _, err = config.loadPromptFromFile(emptyFile, "system"); err == nil {
		t.Error("Expected error for empty file")
	}

	// Test with non-existent file
	if _, err = config.loadPromptFromFile(filepath.Join(tempDir, "nonexistent.md"), "system"); err == nil {
		t.Error("Expected error for non-existent file")
	}
}

func TestNewPromptWatcherNoFiles(t *testing.T) {
	config := &Config{}
	if watcher := NewPromptWatcher(config, nil); watcher != nil {
		t.Error("Expected nil watcher when no prompt files are configured")
	}
}

func TestPromptWatcherStartStop(t *testing.T) {
	tempDir := t.TempDir()
	promptFile := filepath.Join(tempDir, "system.md")
	if err := os.WriteFile(promptFile, []byte("watch me"), 0600); err != nil {
		t.Fatalf("Failed to create prompt file: %v", err)
	}

	config := &Config{
		AI: AIConfig{
			CustomPrompts: PromptConfig{SystemFile: promptFile},
		},
	}

	watcher := NewPromptWatcher(config, nil)
	if watcher == nil {
		t.Fatal("Expected watcher for configured prompt file")
	}

	if err := watcher.Start(); err != nil {
		t.Fatalf("Failed to start watcher: %v", err)
	}
	if !watcher.IsRunning() {
		t.Error("Expected watcher to report running after Start")
	}

	if err := watcher.Stop(); err != nil {
		t.Fatalf("Failed to stop watcher: %v", err)
	}
	if watcher.IsRunning() {
		t.Error("Expected watcher to report stopped after Stop")
	}
}
