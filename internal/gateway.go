package internal

import (
	"context"
	"encoding/json"
	"sync"
)

// ChatRequest is the body of one streaming chat request. Message opens a new
// turn (or a new turn on a resumed session); ToolResults answers a question
// a previous request paused on, including the cancellation case where the
// result carries IsError and a readable message.
type ChatRequest struct {
	Message     string       `json:"message,omitempty"`
	RequestID   string       `json:"requestId"`
	SessionID   string       `json:"sessionId,omitempty"`
	ProjectPath string       `json:"projectPath,omitempty"`
	ToolResults []ToolResult `json:"toolResults,omitempty"`
}

// Gateway frames assistant turns as NDJSON event streams, folds the
// question/answer handshake into them, and ties every stream's lifecycle to
// the request registry: registered at start, completed exactly once on any
// terminal state.
type Gateway struct {
	runner   AgentRunner
	registry *RequestRegistry
	audit    *AuditLog // optional
	interact map[string]bool

	mu     sync.Mutex
	paused map[string]*pausedTurn // session id -> turn waiting on a tool result
}

// pausedTurn is a live turn waiting for the client to answer a question. It
// keeps the original process context so an abort of the resuming request
// still kills the right process.
type pausedTurn struct {
	turn    AgentTurn
	turnCtx context.Context
	cancel  context.CancelFunc
}

// NewGateway creates a gateway. audit may be nil; interactiveTools names the
// assistant tools whose invocation pauses a turn for user input.
func NewGateway(runner AgentRunner, registry *RequestRegistry, audit *AuditLog, interactiveTools []string) *Gateway {
	interact := make(map[string]bool, len(interactiveTools))
	for _, name := range interactiveTools {
		interact[name] = true
	}
	return &Gateway{
		runner:   runner,
		registry: registry,
		audit:    audit,
		interact: interact,
		paused:   make(map[string]*pausedTurn),
	}
}

// Registry exposes the registry for abort handlers.
func (g *Gateway) Registry() *RequestRegistry {
	return g.registry
}

// PendingQuestions returns the session ids currently paused on a question.
func (g *Gateway) PendingQuestions() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.paused)
}

// Stream runs one chat request to a terminal state, writing framed events to
// ew. ctx is the client connection's context; a paused question survives it,
// everything else dies with it. The returned error covers only faults before
// streaming starts; mid-stream faults are reported on the stream itself.
func (g *Gateway) Stream(ctx context.Context, req ChatRequest, ew *EventWriter) error {
	var (
		turn    AgentTurn
		turnCtx context.Context
		cancel  context.CancelFunc
	)

	if len(req.ToolResults) > 0 {
		g.mu.Lock()
		pt, ok := g.paused[req.SessionID]
		if ok {
			delete(g.paused, req.SessionID)
		}
		g.mu.Unlock()
		if !ok {
			return &NotFoundError{Resource: "pending question", Key: req.SessionID}
		}
		turn, turnCtx, cancel = pt.turn, pt.turnCtx, pt.cancel
		if err := turn.SendToolResults(req.ToolResults); err != nil {
			cancel()
			return err
		}
	} else {
		turnCtx, cancel = context.WithCancel(context.Background())
		var err error
		turn, err = g.runner.Start(turnCtx, TurnRequest{
			Prompt:    req.Message,
			SessionID: req.SessionID,
			WorkDir:   req.ProjectPath,
		})
		if err != nil {
			cancel()
			return err
		}
	}

	g.registry.Register(req.RequestID, CancelHandle(cancel))
	defer g.registry.Complete(req.RequestID)
	g.auditStart(req)

	outcome := g.forward(ctx, turnCtx, req, turn, cancel, ew)
	g.auditFinish(req.RequestID, outcome)
	return nil
}

// forward relays agent events to the client until the turn reaches a
// terminal state, returning the audit outcome. Exactly one terminal frame
// (done, error, aborted) or a pause ends the loop.
func (g *Gateway) forward(ctx, turnCtx context.Context, req ChatRequest, turn AgentTurn, cancel context.CancelFunc, ew *EventWriter) string {
	sessionID := req.SessionID

	for {
		select {
		case ev, ok := <-turn.Events():
			if !ok {
				// Process exited without a result event. After an abort that
				// is the expected shape; otherwise the assistant died on us.
				if turnCtx.Err() != nil {
					ew.WriteAborted()
					return OutcomeAborted
				}
				ew.WriteError("agent process exited unexpectedly")
				cancel()
				return OutcomeError
			}

			if ev.SessionID != "" {
				sessionID = ev.SessionID
			}

			if err := ew.WriteData(ev.Raw); err != nil {
				LogDebug("Client write failed for request %s: %v", req.RequestID, err)
				cancel()
				return OutcomeError
			}

			if ev.Type == "assistant" && g.hasInteractiveToolUse(ev.Message) {
				// The question event has been delivered; leave the turn alive
				// so a follow-up request can answer it. No terminal frame.
				g.mu.Lock()
				g.paused[sessionID] = &pausedTurn{turn: turn, turnCtx: turnCtx, cancel: cancel}
				g.mu.Unlock()
				return OutcomePaused
			}

			if ev.Type == "result" {
				turn.Stop()
				cancel()
				if ev.IsError {
					ew.WriteError(ev.Result)
					return OutcomeError
				}
				ew.WriteDone()
				return OutcomeDone
			}

		case <-turnCtx.Done():
			// Abort via the registry. Best-effort: events already relayed
			// stay relayed, but the stream closes without done.
			ew.WriteAborted()
			return OutcomeAborted

		case <-ctx.Done():
			// Client hung up mid-turn; nothing left to stream to.
			cancel()
			return OutcomeAborted
		}
	}
}

// hasInteractiveToolUse reports whether an assistant message invokes a tool
// that needs user input before the turn can continue.
func (g *Gateway) hasInteractiveToolUse(message json.RawMessage) bool {
	if len(g.interact) == 0 || len(message) == 0 {
		return false
	}
	var env messageEnvelope
	if err := json.Unmarshal(message, &env); err != nil {
		return false
	}
	var blocks []contentBlock
	if err := json.Unmarshal(env.Content, &blocks); err != nil {
		return false
	}
	for _, b := range blocks {
		if b.Type == "tool_use" && g.interact[b.Name] {
			return true
		}
	}
	return false
}

func (g *Gateway) auditStart(req ChatRequest) {
	if g.audit == nil {
		return
	}
	project := ""
	if req.ProjectPath != "" {
		project = EncodeProjectPath(req.ProjectPath)
	}
	if err := g.audit.RecordStart(req.RequestID, project, req.SessionID); err != nil {
		LogWarn("Audit start failed: %v", err)
	}
}

func (g *Gateway) auditFinish(requestID, outcome string) {
	if g.audit == nil {
		return
	}
	if err := g.audit.RecordFinish(requestID, outcome); err != nil {
		LogWarn("Audit finish failed: %v", err)
	}
}
