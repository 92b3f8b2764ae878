package detector

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"tech-debt-manager/src/config"
	"tech-debt-manager/src/util"
)

const (
	sourcePlaceholder  = "{source}"
	defaultToolTimeout = 5 * time.Minute

	// toolWaitDelay bounds how long output pipes may stay open after the analyzer is killed
	toolWaitDelay = 2 * time.Second
)

var (
	// ErrToolFailed indicates the analyzer could not run or exited non-zero
	ErrToolFailed = errors.New("analyzer failed")

	// ErrToolTimeout indicates the analyzer exceeded its timeout
	ErrToolTimeout = errors.New("analyzer timed out")

	// ErrToolOutput indicates the analyzer produced output that is not the expected JSON
	ErrToolOutput = errors.New("analyzer output is malformed")
)

// ToolError describes a failed analyzer invocation
type ToolError struct {
	Tool     string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ToolError) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Tool, e.Err)
	if e.ExitCode > 0 {
		msg += fmt.Sprintf(" (exit code %d)", e.ExitCode)
	}
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += ": " + truncate(stderr, 200)
	}
	return msg
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

// toolRunner executes an external analyzer inside the project root
type toolRunner struct {
	cfg       config.ToolConfig
	root      string
	sourceDir string
}

func newToolRunner(base BaseDetector, cfg config.ToolConfig) toolRunner {
	return toolRunner{
		cfg:       cfg,
		root:      base.Root,
		sourceDir: base.Cfg.Project.SourceDir,
	}
}

func (t toolRunner) command() string {
	cmd := t.cfg.Command
	if strings.ContainsRune(cmd, filepath.Separator) && !filepath.IsAbs(cmd) {
		return filepath.Join(t.root, cmd)
	}
	return cmd
}

func (t toolRunner) args() []string {
	args := make([]string, len(t.cfg.Args))
	for i, arg := range t.cfg.Args {
		args[i] = strings.ReplaceAll(arg, sourcePlaceholder, t.sourceDir)
	}
	return args
}

// run executes the analyzer and returns its stdout. Any non-zero exit is a failure.
func (t toolRunner) run(ctx context.Context) ([]byte, error) {
	timeout := t.cfg.Timeout
	if timeout <= 0 {
		timeout = defaultToolTimeout
	}

	cmdCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(cmdCtx, t.command(), t.args()...)
	cmd.Dir = t.root
	cmd.WaitDelay = toolWaitDelay
	killProcessGroup(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	util.Debug("Executing %s %s (timeout: %v)", t.cfg.Command, strings.Join(t.args(), " "), timeout)
	err := cmd.Run()

	if errors.Is(cmdCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		return nil, &ToolError{Tool: t.cfg.Command, Stderr: stderr.String(), Err: ErrToolTimeout}
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	if err != nil {
		toolErr := &ToolError{Tool: t.cfg.Command, Stderr: stderr.String(), Err: fmt.Errorf("%w: %w", ErrToolFailed, err)}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			toolErr.ExitCode = exitErr.ExitCode()
		}
		return nil, toolErr
	}

	return stdout.Bytes(), nil
}

// fileEntry is one key of an analyzer's top-level "files" object
type fileEntry struct {
	Path    string
	Payload json.RawMessage
}

// parseFileEntries extracts the "files" object of analyzer output, keeping document
// order. A repeated key keeps its first position and its last payload.
func parseFileEntries(data []byte) ([]fileEntry, error) {
	var envelope struct {
		Files json.RawMessage `json:"files"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrToolOutput, err)
	}

	files := bytes.TrimSpace(envelope.Files)
	if len(files) == 0 || files[0] != '{' {
		// absent, null, or an empty list from encoders that cannot tell [] from {}
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(files))
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrToolOutput, err)
	}

	var entries []fileEntry
	index := make(map[string]int)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrToolOutput, err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: unexpected token %v", ErrToolOutput, tok)
		}

		var payload json.RawMessage
		if err := dec.Decode(&payload); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrToolOutput, err)
		}

		if i, seen := index[key]; seen {
			entries[i].Payload = payload
			continue
		}
		index[key] = len(entries)
		entries = append(entries, fileEntry{Path: key, Payload: payload})
	}

	return entries, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
