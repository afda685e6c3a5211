package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/irdeck/internal/code"
	"github.com/hpungsan/irdeck/internal/errors"
	"github.com/hpungsan/irdeck/internal/ops"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	env *ops.Env
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(env *ops.Env) *Handlers {
	return &Handlers{env: env}
}

// Request types for each tool

// LearnRequest represents the arguments for ir_learn.
type LearnRequest struct {
	TimeoutSec int    `json:"timeout_sec,omitempty"`
	Name       string `json:"name,omitempty"`
	Save       bool   `json:"save,omitempty"`
}

// SaveRequest represents the arguments for ir_save.
type SaveRequest struct {
	Name     string   `json:"name,omitempty"`
	Protocol string   `json:"protocol"`
	Value    uint64   `json:"value,omitempty"`
	Bits     uint16   `json:"bits,omitempty"`
	Pulses   []uint32 `json:"pulses,omitempty"`
}

// DeleteRequest represents the arguments for ir_delete.
type DeleteRequest struct {
	Name string `json:"name"`
}

// SendRequest represents the arguments for ir_send.
type SendRequest struct {
	Name string `json:"name"`
}

// ExportRequest represents the arguments for ir_export.
type ExportRequest struct {
	Path   string `json:"path,omitempty"`
	Format string `json:"format,omitempty"`
}

// Handler implementations

// HandleLearn handles the ir_learn tool call.
func (h *Handlers) HandleLearn(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[LearnRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	output, opErr := h.env.Learn(ctx, ops.LearnInput{
		TimeoutSec: input.TimeoutSec,
		Name:       input.Name,
		Save:       input.Save,
	})
	if opErr != nil {
		return errorResult(opErr), nil
	}
	return successResult(output)
}

// HandleLearnStart handles the ir_learn_start tool call.
func (h *Handlers) HandleLearnStart(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	output, err := h.env.LearnStart(ctx)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(output)
}

// HandleLearnStop handles the ir_learn_stop tool call.
func (h *Handlers) HandleLearnStop(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	output, err := h.env.LearnStop(ctx)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(output)
}

// HandleSave handles the ir_save tool call.
func (h *Handlers) HandleSave(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SaveRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	output, opErr := h.env.Save(ctx, ops.SaveInput{
		Name:     input.Name,
		Protocol: input.Protocol,
		Value:    input.Value,
		Bits:     input.Bits,
		Pulses:   code.PulseSequence(input.Pulses),
	})
	if opErr != nil {
		return errorResult(opErr), nil
	}
	return successResult(output)
}

// HandleList handles the ir_list tool call.
func (h *Handlers) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	output, err := h.env.List(ctx)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(output)
}

// HandleDelete handles the ir_delete tool call.
func (h *Handlers) HandleDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[DeleteRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	output, opErr := h.env.Delete(ctx, ops.DeleteInput{Name: input.Name})
	if opErr != nil {
		return errorResult(opErr), nil
	}
	return successResult(output)
}

// HandleDeleteAll handles the ir_delete_all tool call.
func (h *Handlers) HandleDeleteAll(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	output, err := h.env.Purge(ctx)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(output)
}

// HandleSend handles the ir_send tool call.
func (h *Handlers) HandleSend(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SendRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	output, opErr := h.env.Send(ctx, ops.SendInput{Name: input.Name})
	if opErr != nil {
		return errorResult(opErr), nil
	}
	return successResult(output)
}

// HandleExport handles the ir_export tool call.
func (h *Handlers) HandleExport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ExportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	output, opErr := h.env.Export(ctx, ops.ExportInput{Path: input.Path, Format: input.Format})
	if opErr != nil {
		return errorResult(opErr), nil
	}
	return successResult(output)
}

// HandleStatus handles the ir_status tool call.
func (h *Handlers) HandleStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	output, err := h.env.Status(ctx)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(output)
}

// errorResult converts an error to an MCP error result.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if irErr, ok := err.(*errors.IRError); ok {
		errorObj := map[string]any{
			"code":    irErr.Code,
			"message": irErr.Message,
			"status":  irErr.Status,
		}
		// Only include details for non-internal errors to avoid leaking
		// sensitive info like file paths or SQL errors
		if irErr.Code != errors.ErrInternal && irErr.Details != nil {
			errorObj["details"] = irErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult converts data to an MCP success result.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
