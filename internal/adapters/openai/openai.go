// Package openai is a thin client for an OpenAI-compatible API: speech to
// text (audio.transcriptions), chat completions, and embeddings. Failures are
// classified into transient vs permanent upstream errors so callers can
// decide whether to retry
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"voxanote/internal/platform/config"
	perr "voxanote/internal/platform/errors"
)

const provider = "openai"

// Config holds connection settings and per-capability model names
type Config struct {
	BaseURL         string
	APIKey          string
	TranscribeModel string
	ChatModel       string
	EmbedModel      string
	Timeout         time.Duration
}

// FromConf reads OPENAI_* settings with the original service defaults
func FromConf(cfg config.Conf) Config {
	c := cfg.Prefix("OPENAI_")
	return Config{
		BaseURL:         c.MayString("BASE_URL", "https://api.openai.com/v1"),
		APIKey:          c.MustString("API_KEY"),
		TranscribeModel: c.MayString("TRANSCRIBE_MODEL", "whisper-1"),
		ChatModel:       c.MayString("CHAT_MODEL", "gpt-4o-mini"),
		EmbedModel:      c.MayString("EMBED_MODEL", "text-embedding-3-small"),
		Timeout:         c.MayDuration("TIMEOUT", 120*time.Second),
	}
}

// Client talks to one OpenAI-compatible endpoint
type Client struct {
	cfg Config
	hc  *http.Client
}

// New builds a Client. A nil http.Client gets a default with cfg.Timeout
func New(cfg Config, hc *http.Client) *Client {
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 120 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	return &Client{cfg: cfg, hc: hc}
}

// Segment is a timed span of transcribed speech
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Transcription is the verbose transcription result
type Transcription struct {
	Text     string    `json:"text"`
	Duration float64   `json:"duration"`
	Segments []Segment `json:"segments"`
}

// Transcribe sends audio bytes to audio/transcriptions with
// response_format=verbose_json and returns the text plus timed segments
func (c *Client) Transcribe(ctx context.Context, filename string, audio []byte) (Transcription, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	if err := mw.WriteField("model", c.cfg.TranscribeModel); err != nil {
		return Transcription{}, perr.Wrap(err, perr.ErrorCodeUnknown, "build multipart")
	}
	if err := mw.WriteField("response_format", "verbose_json"); err != nil {
		return Transcription{}, perr.Wrap(err, perr.ErrorCodeUnknown, "build multipart")
	}
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return Transcription{}, perr.Wrap(err, perr.ErrorCodeUnknown, "build multipart")
	}
	if _, err := fw.Write(audio); err != nil {
		return Transcription{}, perr.Wrap(err, perr.ErrorCodeUnknown, "build multipart")
	}
	if err := mw.Close(); err != nil {
		return Transcription{}, perr.Wrap(err, perr.ErrorCodeUnknown, "build multipart")
	}

	var out Transcription
	if err := c.do(ctx, "/audio/transcriptions", mw.FormDataContentType(), &body, &out); err != nil {
		return Transcription{}, err
	}
	return out, nil
}

type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embedResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

// EmbedBatch embeds each input string and returns vectors in input order
func (c *Client) EmbedBatch(ctx context.Context, inputs []string) ([][]float32, error) {
	if len(inputs) == 0 {
		return nil, nil
	}
	payload, err := json.Marshal(embedRequest{Model: c.cfg.EmbedModel, Input: inputs})
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeJSON, "encode embed request")
	}

	var out embedResponse
	if err := c.do(ctx, "/embeddings", "application/json", bytes.NewReader(payload), &out); err != nil {
		return nil, err
	}
	if len(out.Data) != len(inputs) {
		return nil, perr.Upstreamf("%s returned %d embeddings for %d inputs", provider, len(out.Data), len(inputs))
	}
	vecs := make([][]float32, len(inputs))
	for _, d := range out.Data {
		if d.Index < 0 || d.Index >= len(vecs) {
			return nil, perr.Upstreamf("%s embedding index %d out of range", provider, d.Index)
		}
		vecs[d.Index] = d.Embedding
	}
	return vecs, nil
}

// Message is a chat turn sent to the completion endpoint
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string      `json:"model"`
	Messages       []Message   `json:"messages"`
	ResponseFormat *chatFormat `json:"response_format,omitempty"`
}

type chatFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete runs a chat completion and returns the first choice's content.
// jsonMode constrains the model to emit a single JSON object
func (c *Client) Complete(ctx context.Context, messages []Message, jsonMode bool) (string, error) {
	req := chatRequest{Model: c.cfg.ChatModel, Messages: messages}
	if jsonMode {
		req.ResponseFormat = &chatFormat{Type: "json_object"}
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeJSON, "encode chat request")
	}

	var out chatResponse
	if err := c.do(ctx, "/chat/completions", "application/json", bytes.NewReader(payload), &out); err != nil {
		return "", err
	}
	if len(out.Choices) == 0 {
		return "", perr.Upstreamf("%s returned no choices", provider)
	}
	return out.Choices[0].Message.Content, nil
}

func (c *Client) do(ctx context.Context, path, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, body)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnknown, "build request")
	}
	req.Header.Set("Content-Type", contentType)
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return perr.FromTransport(provider, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return perr.FromUpstreamStatus(provider, resp.StatusCode, string(b))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUpstream, "%s: decode response", provider)
	}
	return nil
}
