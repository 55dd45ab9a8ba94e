package internal

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"sync"
)

// AgentEvent is one parsed NDJSON line from the assistant process. The
// process is a black box; only the envelope fields needed for routing are
// decoded, and Raw preserves the full line for relay to clients.
type AgentEvent struct {
	Type      string          `json:"type"`
	Subtype   string          `json:"subtype,omitempty"`
	SessionID string          `json:"session_id,omitempty"`
	Message   json.RawMessage `json:"message,omitempty"`
	Result    string          `json:"result,omitempty"`
	IsError   bool            `json:"is_error,omitempty"`

	Raw json.RawMessage `json:"-"`
}

// TurnRequest describes one logical turn to run against the assistant.
type TurnRequest struct {
	Prompt    string
	SessionID string // resume an existing assistant session when non-empty
	WorkDir   string // project directory the assistant operates in
}

// ToolResult answers a tool invocation the assistant paused on, correlated
// by the tool-invocation id. A user-cancelled question carries IsError plus
// a human-readable message instead of being silently dropped.
type ToolResult struct {
	ToolUseID string `json:"tool_use_id"`
	Content   string `json:"content"`
	IsError   bool   `json:"is_error,omitempty"`
}

// AgentTurn is a live assistant turn: a stream of events plus a way to feed
// follow-up input into the paused turn.
type AgentTurn interface {
	// Events yields process output until the turn ends; closed on process exit.
	Events() <-chan AgentEvent
	// SendToolResults writes tool results into the turn, resuming it.
	SendToolResults(results []ToolResult) error
	// Stop releases the turn's resources once no more input will be sent.
	Stop()
}

// AgentRunner starts assistant turns. The production implementation spawns
// the assistant CLI; tests substitute scripted fakes.
type AgentRunner interface {
	Start(ctx context.Context, req TurnRequest) (AgentTurn, error)
}

// ProcessRunner runs the assistant CLI as a subprocess speaking NDJSON on
// both stdin and stdout.
type ProcessRunner struct {
	Command string   // binary name, default "claude"
	Args    []string // extra args appended after the protocol flags
}

// Start spawns the assistant process for one turn and writes the opening
// user message to its stdin. Cancelling ctx kills the process.
func (r *ProcessRunner) Start(ctx context.Context, req TurnRequest) (AgentTurn, error) {
	command := r.Command
	if command == "" {
		command = "claude"
	}

	args := []string{
		"--output-format", "stream-json",
		"--input-format", "stream-json",
		"--verbose",
	}
	if req.SessionID != "" {
		args = append(args, "--resume", req.SessionID)
	}
	args = append(args, r.Args...)

	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Dir = req.WorkDir

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", command, err)
	}

	turn := &processTurn{
		cmd:    cmd,
		stdin:  stdin,
		events: make(chan AgentEvent, 64),
		ctx:    ctx,
	}
	go turn.readLoop(stdout)

	if req.Prompt != "" {
		if err := turn.sendUserMessage(req.SessionID, []messageBlock{{Type: "text", Text: req.Prompt}}); err != nil {
			turn.Stop()
			return nil, err
		}
	}
	return turn, nil
}

// processTurn wraps one running assistant process.
type processTurn struct {
	cmd    *exec.Cmd
	events chan AgentEvent
	ctx    context.Context // owning context; cancellation kills the process

	stdinMu sync.Mutex
	stdin   io.WriteCloser

	mu        sync.Mutex
	sessionID string // captured from process output for stdin correlation
	stopped   bool
}

// messageBlock is one content block of a stdin user message.
type messageBlock struct {
	Type      string `json:"type"`
	Text      string `json:"text,omitempty"`
	ToolUseID string `json:"tool_use_id,omitempty"`
	Content   string `json:"content,omitempty"`
	IsError   bool   `json:"is_error,omitempty"`
}

// stdinMessage is the NDJSON frame the assistant accepts on stdin.
type stdinMessage struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id,omitempty"`
	Message   struct {
		Role    string         `json:"role"`
		Content []messageBlock `json:"content"`
	} `json:"message"`
}

func (t *processTurn) Events() <-chan AgentEvent {
	return t.events
}

// readLoop scans process stdout line by line into the events channel. The
// channel closes once the process exits, which is how consumers observe
// termination without a result event. Sends race against the owning context
// so an abandoned consumer cannot strand this goroutine on a full channel.
func (t *processTurn) readLoop(stdout io.Reader) {
	defer close(t.events)
	defer t.cmd.Wait()

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var ev AgentEvent
		if err := json.Unmarshal(line, &ev); err != nil {
			LogWarn("Dropping unparseable agent output line: %v", err)
			continue
		}
		ev.Raw = append(json.RawMessage(nil), line...)

		if ev.SessionID != "" {
			t.mu.Lock()
			t.sessionID = ev.SessionID
			t.mu.Unlock()
		}

		select {
		case t.events <- ev:
		case <-t.ctx.Done():
			return
		}
	}
	if err := scanner.Err(); err != nil {
		LogWarn("Agent stdout read failed: %v", err)
	}
}

// SendToolResults writes tool results to the paused turn's stdin as one user
// message, resuming generation.
func (t *processTurn) SendToolResults(results []ToolResult) error {
	blocks := make([]messageBlock, 0, len(results))
	for _, res := range results {
		blocks = append(blocks, messageBlock{
			Type:      "tool_result",
			ToolUseID: res.ToolUseID,
			Content:   res.Content,
			IsError:   res.IsError,
		})
	}

	t.mu.Lock()
	sid := t.sessionID
	t.mu.Unlock()
	return t.sendUserMessage(sid, blocks)
}

func (t *processTurn) sendUserMessage(sessionID string, blocks []messageBlock) error {
	msg := stdinMessage{Type: "user", SessionID: sessionID}
	msg.Message.Role = "user"
	msg.Message.Content = blocks

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal agent input: %w", err)
	}

	t.stdinMu.Lock()
	defer t.stdinMu.Unlock()
	if t.stdin == nil {
		return fmt.Errorf("agent process not running")
	}
	if _, err := t.stdin.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write agent input: %w", err)
	}
	return nil
}

// Stop closes stdin so the process drains and exits. Safe to call more than
// once; killing on cancellation is the owning context's job.
func (t *processTurn) Stop() {
	t.stdinMu.Lock()
	defer t.stdinMu.Unlock()
	t.mu.Lock()
	stopped := t.stopped
	t.stopped = true
	t.mu.Unlock()
	if stopped {
		return
	}
	if t.stdin != nil {
		t.stdin.Close()
		t.stdin = nil
	}
}
