package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/relvacode/iso8601"
)

var ErrNoSession = errors.New("no session data available")

type Client struct {
	BaseURL string
	HTTP    *http.Client
	Dialer  *websocket.Dialer
}

func New(baseURL string) *Client {
	return &Client{BaseURL: strings.TrimRight(baseURL, "/"), HTTP: http.DefaultClient, Dialer: websocket.DefaultDialer}
}

type Quantity struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit,omitempty"`
}

type Observation struct {
	ResourceType      string   `json:"resourceType"`
	Status            string   `json:"status"`
	ValueQuantity     Quantity `json:"valueQuantity"`
	EffectiveDateTime string   `json:"effectiveDateTime,omitempty"`
}

type Aggregates struct {
	Min   int     `json:"min"`
	Max   int     `json:"max"`
	Avg   float64 `json:"avg"`
	Trend int     `json:"trend"`
}

type Tick struct {
	Time        int         `json:"time"`
	Observation Observation `json:"observation"`
	Aggregates  Aggregates  `json:"aggregates"`
}

// Session is the decoded summary of the last completed stream.
type Session struct {
	SessionID string
	Last      float64
	Min       float64
	Max       float64
	Avg       float64
	Start     time.Time
	End       time.Time
	Duration  time.Duration
	// Raw session dump as sent by the server
	Data string
}

type summaryDoc struct {
	ValueQuantity Quantity `json:"valueQuantity"`
	Component     []struct {
		Code struct {
			Text string `json:"text"`
		} `json:"code"`
		ValueQuantity Quantity `json:"valueQuantity"`
	} `json:"component"`
	EffectivePeriod struct {
		Start           string `json:"start"`
		End             string `json:"end"`
		DurationSeconds int    `json:"duration_seconds"`
	} `json:"effectivePeriod"`
	Extension []struct {
		URL         string `json:"url"`
		ValueString string `json:"valueString"`
	} `json:"extension"`
}

// LastSession fetches GET /api/session. It returns ErrNoSession when no
// session has completed yet.
func (c *Client) LastSession(ctx context.Context) (Session, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/api/session", nil)
	if err != nil {
		return Session{}, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return Session{}, err
	}
	defer resp.Body.Close()
	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return Session{}, ErrNoSession
	default:
		return Session{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	var doc summaryDoc
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return Session{}, fmt.Errorf("decode summary: %w", err)
	}
	out := Session{
		SessionID: resp.Header.Get("X-Session-Id"),
		Last:      doc.ValueQuantity.Value,
		Duration:  time.Duration(doc.EffectivePeriod.DurationSeconds) * time.Second,
	}
	for _, comp := range doc.Component {
		switch comp.Code.Text {
		case "min":
			out.Min = comp.ValueQuantity.Value
		case "max":
			out.Max = comp.ValueQuantity.Value
		case "avg":
			out.Avg = comp.ValueQuantity.Value
		}
	}
	if out.Start, err = iso8601.Parse([]byte(doc.EffectivePeriod.Start)); err != nil {
		return Session{}, fmt.Errorf("parse period start: %w", err)
	}
	if out.End, err = iso8601.Parse([]byte(doc.EffectivePeriod.End)); err != nil {
		return Session{}, fmt.Errorf("parse period end: %w", err)
	}
	if len(doc.Extension) > 0 {
		out.Data = doc.Extension[0].ValueString
	}
	return out, nil
}

// Stream dials /ws and calls fn for every tick until ctx is done or fn
// returns an error. The socket is closed with a normal close frame; a
// context cancellation is not reported as an error.
func (c *Client) Stream(ctx context.Context, fn func(Tick) error) error {
	u := c.BaseURL + "/ws"
	switch {
	case strings.HasPrefix(u, "https://"):
		u = "wss://" + strings.TrimPrefix(u, "https://")
	case strings.HasPrefix(u, "http://"):
		u = "ws://" + strings.TrimPrefix(u, "http://")
	}
	conn, resp, err := c.Dialer.DialContext(ctx, u, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", u, err)
	}
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
		_ = conn.SetReadDeadline(time.Now())
	})
	defer stop()

	for {
		var tick Tick
		if err := conn.ReadJSON(&tick); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		if err := fn(tick); err != nil {
			_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
			return err
		}
	}
}
