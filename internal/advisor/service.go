package advisor

import (
	"context"
	"fmt"
	"strings"

	"github.com/realfunhq/copilot/internal/jamai"
)

// Service turns an operator request into a parsed recommendation.
type Service interface {
	// Process validates req, runs the Action Table, and parses the
	// returned columns. When the service answers without intent or
	// summary, the partially parsed Response is returned together with
	// an *IncompleteError so callers can show what arrived.
	Process(ctx context.Context, req Request) (*Response, error)
}

type service struct {
	client  jamai.Client
	tableID string
}

// NewService creates a Service that runs the given Action Table.
func NewService(client jamai.Client, tableID string) Service {
	return &service{client: client, tableID: tableID}
}

func (s *service) Process(ctx context.Context, req Request) (*Response, error) {
	req = trimRequest(req)
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	res, err := s.client.AddRow(ctx, jamai.AddRowRequest{
		TableID: s.tableID,
		Data: map[string]string{
			"raw_request":   req.RawRequest,
			"student_name":  req.StudentName,
			"student_level": req.StudentLevel,
			"current_mode":  req.CurrentMode,
			"current_slot":  req.CurrentSlot,
			"notes":         req.Notes,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("running action table: %w", err)
	}

	resp, parseErr := parseColumns(res.Columns)
	if resp != nil {
		resp.LatencyMs = res.LatencyMs
	}
	return resp, parseErr
}

func trimRequest(req Request) Request {
	req.StudentName = strings.TrimSpace(req.StudentName)
	req.StudentLevel = strings.TrimSpace(req.StudentLevel)
	req.CurrentMode = strings.TrimSpace(req.CurrentMode)
	req.CurrentSlot = strings.TrimSpace(req.CurrentSlot)
	req.RawRequest = strings.TrimSpace(req.RawRequest)
	req.Notes = strings.TrimSpace(req.Notes)
	return req
}

func validateRequest(req Request) error {
	if req.StudentName == "" {
		return &ValidationError{Field: "student_name", Message: "student name is required"}
	}
	if req.StudentLevel == "" {
		return &ValidationError{Field: "student_level", Message: "student level is required"}
	}
	if req.RawRequest == "" {
		return &ValidationError{Field: "raw_request", Message: "parent request cannot be empty"}
	}
	return nil
}

// parseColumns maps the output columns onto a Response.
func parseColumns(columns map[string]string) (*Response, error) {
	resp := &Response{
		Intent:  normalizeText(columns["intent"]),
		Summary: normalizeText(columns["summary"]),
	}

	resp.RecommendedSlots = ParseRecommendedSlots(normalizeText(columns["slot_options"]))
	resp.ChosenSlot = ParseChosenSlot(columns["chosen_slot"], resp.RecommendedSlots)
	resp.Warnings = ParseWarnings(columns["warnings"])

	resp.WhatsAppMessage = normalizeText(columns["whatsapp_message"])
	if resp.WhatsAppMessage == "" || looksLikeCompletionBlob(resp.WhatsAppMessage) {
		resp.WhatsAppMessage = BuildFallbackMessage(resp.Summary, resp.RecommendedSlots, resp.ChosenSlot)
	}

	var missing []string
	if resp.Intent == "" {
		missing = append(missing, "intent")
	}
	if resp.Summary == "" {
		missing = append(missing, "summary")
	}
	if len(missing) > 0 {
		return resp, &IncompleteError{Missing: missing}
	}
	return resp, nil
}
