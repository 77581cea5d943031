package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/recordstack/chronology/internal/common"
	"github.com/recordstack/chronology/internal/llm"
)

// ExtractEvents implements llm.EventExtractor using text-only chat/completions
// with a JSON-Schema constrained response. Responses that arrive but fail
// validation (even after the lenient pass) come back wrapped in
// llm.ErrMalformedOutput so callers can degrade to zero events per page.
func (c *Client) ExtractEvents(ctx context.Context, req llm.ExtractRequest) (llm.PageEvents, []byte, error) {
	rid := common.RequestIDFromContext(ctx)
	if rid == "" {
		rid = uuid.New().String()
	}
	start := time.Now()

	c.logger.Info("llm.extract.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"temp", c.cfg.Temperature,
		"page", req.PageNumber,
		"text_len", len(req.PageText),
		"candidate_dates", len(req.CandidateDates),
	)

	schema := llm.BuildEventsJSONSchema()
	body := map[string]any{
		"model":           c.cfg.Model,
		"temperature":     c.cfg.Temperature,
		"response_format": map[string]any{"type": "json_object"},
		"messages": []map[string]any{
			{"role": "system", "content": llm.BuildSystemPrompt()},
			{"role": "user", "content": llm.BuildUserPrompt(req) + "\n\nReturn ONLY JSON that matches the provided schema."},
			{"role": "system", "content": "JSON Schema:\n" + mustJSON(schema)},
		},
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	headers := map[string]string{"Authorization": "Bearer " + c.cfg.APIKey}
	raw, _, httpErr := llm.SendJSON(ctx, c.http, endpoint, body, headers, c.logger)
	if httpErr != nil {
		c.logger.Error("llm.extract.http_error",
			"req_id", rid, "error", httpErr,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.PageEvents{}, nil, httpErr
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		c.logger.Error("llm.extract.decode_error",
			"req_id", rid, "error", err, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.PageEvents{}, raw, fmt.Errorf("decode openai response: %w", llm.ErrMalformedOutput)
	}
	if len(cc.Choices) == 0 {
		c.logger.Error("llm.extract.no_choices",
			"req_id", rid, "raw", string(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.PageEvents{}, raw, fmt.Errorf("no choices in openai response: %w", llm.ErrMalformedOutput)
	}
	content := []byte(strings.TrimSpace(cc.Choices[0].Message.Content))

	// Validate strictly first.
	if err := llm.ValidateEvents(content); err != nil {
		if !c.cfg.LenientOptional {
			c.logger.Error("llm.extract.schema_validation_failed",
				"req_id", rid, "error", err, "content", string(content),
				"elapsed_ms", time.Since(start).Milliseconds(),
			)
			return llm.PageEvents{}, content, fmt.Errorf("schema validation failed: %w", llm.ErrMalformedOutput)
		}
		// Lenient pass: drop/normalize offending events and re-validate.
		cleaned, droppedKeys, sErr := llm.SanitizeEvents(content)
		if sErr != nil {
			c.logger.Error("llm.extract.sanitize_failed",
				"req_id", rid, "error", sErr,
				"elapsed_ms", time.Since(start).Milliseconds(),
			)
			return llm.PageEvents{}, content, fmt.Errorf("sanitize failed: %w", llm.ErrMalformedOutput)
		}
		if vErr := llm.ValidateEvents(cleaned); vErr != nil {
			c.logger.Error("llm.extract.schema_validation_failed",
				"req_id", rid, "error", vErr, "content", string(content),
				"elapsed_ms", time.Since(start).Milliseconds(),
			)
			return llm.PageEvents{}, content, fmt.Errorf("schema validation failed: %w", llm.ErrMalformedOutput)
		}
		c.logger.Warn("llm.extract.lenient_sanitize_applied",
			"req_id", rid, "dropped", droppedKeys,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		content = cleaned
	}

	var out llm.PageEvents
	if err := json.Unmarshal(content, &out); err != nil {
		c.logger.Error("llm.extract.unmarshal_failed",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.PageEvents{}, content, fmt.Errorf("unmarshal events: %w", llm.ErrMalformedOutput)
	}

	c.logger.Info("llm.extract.ok",
		"req_id", rid,
		"page", req.PageNumber,
		"events", len(out.Events),
		"document_type", out.DocumentType,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, content, nil
}

func mustJSON(v any) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}
