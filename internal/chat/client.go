// Package chat sends chat-completion requests to the local model server.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"sllm/internal/config"
	"sllm/internal/metrics"
	"sllm/pkg/types"
)

const (
	canaryPrompt = "You are a health check. Reply with the single word pong and nothing else."
	canaryQuery  = "ping"
	canaryReply  = "pong"

	infoTimeout = 2 * time.Second
)

// Options configures a Client. Zero durations fall back to config defaults.
type Options struct {
	BaseURL        string
	ChatPath       string
	Model          string
	ConnectTimeout time.Duration
	RequestTimeout time.Duration
	CanaryTimeout  time.Duration
	Canary         bool // run the canary check before every Send
	Log            zerolog.Logger
}

// Client talks to one model server. It never retries.
type Client struct {
	opts       Options
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

// New constructs a Client. The connect timeout is enforced by the dialer;
// read deadlines are carried by per-request contexts.
func New(opts Options) *Client {
	if opts.ChatPath == "" {
		opts.ChatPath = config.DefaultChatPath
	}
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = config.DefaultConnectTimeout
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = config.DefaultRequestTimeout
	}
	if opts.CanaryTimeout <= 0 {
		opts.CanaryTimeout = config.DefaultCanaryTimeout
	}
	tr := &http.Transport{
		// the server is always local; skip any configured proxy
		Proxy: nil,
		DialContext: (&net.Dialer{
			Timeout:   opts.ConnectTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          4,
		IdleConnTimeout:       90 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	// Timeout=0: every request carries its own context deadline.
	cli := &http.Client{Transport: tr, Timeout: 0}
	return &Client{
		opts:       opts,
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		httpClient: cli,
		log:        opts.Log,
	}
}

// NewFromRuntime builds a Client for the server described by rt.
func NewFromRuntime(rt config.Runtime, log zerolog.Logger) *Client {
	return New(Options{
		BaseURL:        rt.BaseURL(),
		ChatPath:       rt.ChatPath,
		Model:          rt.Model,
		ConnectTimeout: rt.ConnectTimeout,
		RequestTimeout: rt.RequestTimeout,
		CanaryTimeout:  rt.CanaryTimeout,
		Canary:         rt.Canary,
		Log:            log,
	})
}

// Send runs the canary check (when enabled) and then req. A failed canary
// returns before the real request is issued.
func (c *Client) Send(ctx context.Context, req Request) (Response, error) {
	if c.opts.Canary {
		if err := c.Ping(ctx); err != nil {
			return Response{}, err
		}
	}
	c.log.Debug().Msg("Sending API request.")
	resp, err := c.complete(ctx, "completion", req)
	if err != nil {
		return Response{}, err
	}
	s := resp.Stats
	metrics.AddTokens(s.PromptTokens, s.CompletionTokens)
	if s.PromptTime > 0 {
		c.log.Debug().Msgf("Spent %.2f seconds on prompt (%d tokens).", s.PromptTime.Seconds(), s.PromptTokens)
	}
	if s.GenerationTime > 0 {
		c.log.Debug().Msgf("Spent %.2f seconds on inference (%.2f tokens/second).", s.GenerationTime.Seconds(), s.TokensPerSecond)
	}
	return resp, nil
}

// Ping asks the model to answer "pong". Any other reply, or no reply within
// the canary timeout, is a *ModelMalfunctionError. Transport failures are
// returned unchanged.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.complete(ctx, "canary", Request{
		Prompt:  canaryPrompt,
		Query:   canaryQuery,
		Timeout: c.opts.CanaryTimeout,
	})
	if err != nil {
		if IsRequestTimeout(err) {
			return &ModelMalfunctionError{Err: err}
		}
		return err
	}
	if !strings.EqualFold(resp.Content, canaryReply) {
		c.log.Debug().Str("reply", resp.Content).Msg("event=canary_failed")
		return &ModelMalfunctionError{Reply: resp.Content}
	}
	c.log.Debug().Dur("took", resp.Duration).Msg("event=canary_ok")
	return nil
}

func (c *Client) complete(ctx context.Context, kind string, req Request) (Response, error) {
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = c.opts.RequestTimeout
	}
	rctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.post(ctx, rctx, kind, timeout, req)
	resp.Duration = time.Since(start)
	metrics.ObserveChat(kind, outcomeOf(err), resp.Duration)
	return resp, err
}

func (c *Client) post(ctx, rctx context.Context, kind string, timeout time.Duration, req Request) (Response, error) {
	body, err := json.Marshal(req.Payload(c.opts.Model))
	if err != nil {
		return Response{}, fmt.Errorf("encode chat request: %w", err)
	}
	url := c.baseURL + c.opts.ChatPath
	httpReq, err := http.NewRequestWithContext(rctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return Response{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Response{}, c.classify(ctx, rctx, kind, timeout, url, err)
	}
	defer httpResp.Body.Close()
	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(httpResp.Body, 4096))
		return Response{}, &HTTPStatusError{Status: httpResp.Status, Code: httpResp.StatusCode, Body: errorMessage(b)}
	}
	var cr types.ChatResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&cr); err != nil {
		if rctx.Err() != nil {
			return Response{}, c.classify(ctx, rctx, kind, timeout, url, err)
		}
		return Response{}, fmt.Errorf("decode chat response: %w", err)
	}
	content, ok := cr.Content()
	if !ok {
		return Response{}, errors.New("chat response has no message content")
	}
	return Response{Content: strings.TrimSpace(content), Model: cr.Model, Stats: statsOf(cr)}, nil
}

// classify maps a failed exchange onto the package's error types. A canceled
// parent context (user interrupt) is returned as is.
func (c *Client) classify(ctx, rctx context.Context, kind string, timeout time.Duration, url string, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if errors.Is(rctx.Err(), context.DeadlineExceeded) {
		return &RequestTimeoutError{Kind: kind, Timeout: timeout}
	}
	return &TransportError{URL: url, Err: err}
}

// errorMessage extracts error.message from an OpenAI error envelope, falling
// back to the raw body.
func errorMessage(b []byte) string {
	var er types.ErrorResponse
	if err := json.Unmarshal(b, &er); err == nil && er.Error.Message != "" {
		return er.Error.Message
	}
	return string(b)
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case IsRequestTimeout(err):
		return "timeout"
	case IsTransport(err):
		return "transport"
	case IsHTTPStatus(err):
		return "http_error"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "error"
	}
}
