package opencode

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// MessageEvent is delivered once per chat message update. The renamer only
// acts on assistant messages whose completed timestamp is set.
type MessageEvent struct {
	SessionID string  `json:"sessionID"`
	Message   Message `json:"message"`
	Parts     []Part  `json:"parts"`
}

// Completed reports whether the message has finished streaming.
func (e *MessageEvent) Completed() bool {
	return e.Message.Time.Completed > 0
}

const eventMessageUpdated = "message.updated"

type eventEnvelope struct {
	Type       string          `json:"type"`
	Properties json.RawMessage `json:"properties"`
}

// Events subscribes to the server's SSE event stream and emits message
// events until ctx is done or the stream breaks. Both channels close when
// the subscription ends; at most one error is sent.
func (c *Client) Events(ctx context.Context) (<-chan MessageEvent, <-chan error) {
	events := make(chan MessageEvent, 16)
	errs := make(chan error, 1)

	go func() {
		defer close(events)
		defer close(errs)

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/event", nil)
		if err != nil {
			errs <- err
			return
		}
		req.Header.Set("Accept", "text/event-stream")

		// The stream lives for the whole subscription; the request
		// context controls its lifetime, not the client timeout.
		httpc := &http.Client{Transport: c.HTTP.Transport}

		resp, err := httpc.Do(req)
		if err != nil {
			errs <- err
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4*1024))
			msg := strings.TrimSpace(string(raw))
			if msg == "" {
				msg = fmt.Sprintf("status %d", resp.StatusCode)
			}
			errs <- fmt.Errorf("opencode: event stream: %s", msg)
			return
		}

		sc := bufio.NewScanner(resp.Body)
		buf := make([]byte, 0, 64*1024)
		sc.Buffer(buf, 2*1024*1024)

		for sc.Scan() {
			line := strings.TrimSpace(sc.Text())
			if line == "" || !strings.HasPrefix(line, "data:") {
				continue
			}
			data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			if data == "" {
				continue
			}

			var env eventEnvelope
			if err := json.Unmarshal([]byte(data), &env); err != nil {
				errs <- err
				return
			}
			if env.Type != eventMessageUpdated {
				continue
			}

			var ev MessageEvent
			if err := json.Unmarshal(env.Properties, &ev); err != nil {
				errs <- err
				return
			}
			if ev.SessionID == "" {
				ev.SessionID = ev.Message.SessionID
			}

			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}

		if err := sc.Err(); err != nil && ctx.Err() == nil {
			errs <- err
		}
	}()

	return events, errs
}

// EventRetryDelay is how long consumers wait before resubscribing after the
// stream drops.
const EventRetryDelay = 1 * time.Second
