// Package integration installs the tablero MCP server entry into AI
// assistant settings files. Settings are read leniently (comments and
// trailing commas are accepted) and written back as plain JSON.
package integration

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
)

// ServerName is the key of the tablero entry in every settings file
const ServerName = "tablero"

// Target is an assistant whose settings we know how to edit
type Target string

const (
	TargetClaude   Target = "claude"
	TargetOpencode Target = "opencode"
)

// Targets lists every supported target
var Targets = []Target{TargetClaude, TargetOpencode}

// Scope selects the user-wide or the per-project settings file
type Scope string

const (
	ScopeUser    Scope = "user"
	ScopeProject Scope = "project"
)

// ParseTarget validates a target name
func ParseTarget(s string) (Target, error) {
	t := Target(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Targets {
		if t == known {
			return t, nil
		}
	}
	return "", ErrUnknownTarget
}

// ParseScope validates a scope name; empty means user
func ParseScope(s string) (Scope, error) {
	switch Scope(strings.ToLower(strings.TrimSpace(s))) {
	case "", ScopeUser:
		return ScopeUser, nil
	case ScopeProject:
		return ScopeProject, nil
	}
	return "", ErrUnknownScope
}

// Status is what Check found
type Status struct {
	Target    Target `json:"target"`
	Scope     Scope  `json:"scope"`
	Path      string `json:"path"`
	Exists    bool   `json:"exists"`
	Installed bool   `json:"installed"`
	URL       string `json:"url,omitempty"`
	// Current is false when the entry points at another backend
	Current bool `json:"current"`
}

// Installer edits assistant settings for one backend URL
type Installer struct {
	serverURL  string
	home       string
	configHome string
	workDir    string
}

// Option configures an Installer
type Option func(*Installer)

// WithDirs overrides the home, XDG config and working directories
func WithDirs(home, configHome, workDir string) Option {
	return func(i *Installer) {
		i.home = home
		i.configHome = configHome
		i.workDir = workDir
	}
}

// NewInstaller creates an installer for the backend at apiURL. The MCP
// endpoint is served under /mcp.
func NewInstaller(apiURL string, opts ...Option) (*Installer, error) {
	i := &Installer{serverURL: strings.TrimRight(apiURL, "/") + "/mcp"}
	for _, opt := range opts {
		opt(i)
	}

	if i.home == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		i.home = home
	}
	if i.configHome == "" {
		i.configHome = os.Getenv("XDG_CONFIG_HOME")
		if i.configHome == "" {
			i.configHome = filepath.Join(i.home, ".config")
		}
	}
	if i.workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		i.workDir = wd
	}
	return i, nil
}

// ServerURL is the MCP endpoint written into settings
func (i *Installer) ServerURL() string {
	return i.serverURL
}

// Path returns the settings file for target and scope
func (i *Installer) Path(target Target, scope Scope) (string, error) {
	if scope != ScopeUser && scope != ScopeProject {
		return "", ErrUnknownScope
	}
	switch target {
	case TargetClaude:
		if scope == ScopeProject {
			return filepath.Join(i.workDir, ".mcp.json"), nil
		}
		return filepath.Join(i.home, ".claude.json"), nil
	case TargetOpencode:
		if scope == ScopeProject {
			return filepath.Join(i.workDir, "opencode.json"), nil
		}
		return filepath.Join(i.configHome, "opencode", "opencode.json"), nil
	}
	return "", ErrUnknownTarget
}

// Install writes (or overwrites) the tablero entry authenticated with key
// and returns the settings path
func (i *Installer) Install(target Target, scope Scope, key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", ErrEmptyKey
	}
	path, err := i.Path(target, scope)
	if err != nil {
		return "", err
	}

	settings, _, err := readSettings(path)
	if err != nil {
		return "", err
	}

	section := sectionKey(target)
	servers, _ := settings[section].(map[string]any)
	if servers == nil {
		servers = map[string]any{}
	}
	servers[ServerName] = i.entry(target, key)
	settings[section] = servers

	if err := writeSettings(path, settings); err != nil {
		return "", err
	}
	slog.Info("installed mcp server", "target", target, "scope", scope, "path", path)
	return path, nil
}

// Check reports whether the tablero entry is present and points at this
// installer's backend
func (i *Installer) Check(target Target, scope Scope) (*Status, error) {
	path, err := i.Path(target, scope)
	if err != nil {
		return nil, err
	}
	status := &Status{Target: target, Scope: scope, Path: path}

	settings, exists, err := readSettings(path)
	if err != nil {
		return nil, err
	}
	status.Exists = exists

	servers, _ := settings[sectionKey(target)].(map[string]any)
	entry, ok := servers[ServerName].(map[string]any)
	if !ok {
		return status, nil
	}
	status.Installed = true
	status.URL, _ = entry["url"].(string)
	status.Current = status.URL == i.serverURL
	return status, nil
}

// Remove deletes the tablero entry. It reports whether there was one.
func (i *Installer) Remove(target Target, scope Scope) (bool, error) {
	path, err := i.Path(target, scope)
	if err != nil {
		return false, err
	}
	settings, exists, err := readSettings(path)
	if err != nil || !exists {
		return false, err
	}

	section := sectionKey(target)
	servers, _ := settings[section].(map[string]any)
	if _, ok := servers[ServerName]; !ok {
		return false, nil
	}
	delete(servers, ServerName)
	if len(servers) == 0 {
		delete(settings, section)
	}

	if err := writeSettings(path, settings); err != nil {
		return false, err
	}
	slog.Info("removed mcp server", "target", target, "scope", scope, "path", path)
	return true, nil
}

func sectionKey(target Target) string {
	if target == TargetOpencode {
		return "mcp"
	}
	return "mcpServers"
}

func (i *Installer) entry(target Target, key string) map[string]any {
	headers := map[string]any{"Authorization": "Bearer " + key}
	if target == TargetOpencode {
		return map[string]any{
			"type":    "remote",
			"url":     i.serverURL,
			"enabled": true,
			"headers": headers,
		}
	}
	return map[string]any{
		"type":    "http",
		"url":     i.serverURL,
		"headers": headers,
	}
}

// readSettings parses path as JSON with comments. A missing or empty file
// yields an empty object.
func readSettings(path string) (map[string]any, bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]any{}, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s: %w", path, err)
	}

	stripped := jsonc.ToJSON(data)
	if strings.TrimSpace(string(stripped)) == "" {
		return map[string]any{}, true, nil
	}

	var settings map[string]any
	if err := json.Unmarshal(stripped, &settings); err != nil {
		return nil, true, fmt.Errorf("%w: %s: %v", ErrMalformed, path, err)
	}
	if settings == nil {
		settings = map[string]any{}
	}
	return settings, true, nil
}

// writeSettings replaces path atomically. The file holds a credential, so
// it is readable by the owner only.
func writeSettings(path string, settings map[string]any) error {
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write settings: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
