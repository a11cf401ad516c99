package llm

import (
	"context"
	"errors"

	"tnc-backend/internal/shared/telemetry"
)

// Client abstracts the model runtime used for terms analysis.
type Client interface {
	// ListModels returns the identifiers of the models the runtime serves.
	ListModels(ctx context.Context) ([]string, error)
	// Generate runs a single non-streaming completion and returns the raw
	// response text.
	Generate(ctx context.Context, model, prompt, system string) (string, error)
}

// Capability describes the model runtime as observed at process start. It is
// built once by Probe and treated as read-only afterwards; a runtime that was
// down at startup stays unavailable until restart.
type Capability struct {
	Available bool
	Model     string
}

// Probe contacts the runtime's model-listing operation and selects a model.
// The preferred model is kept when the runtime serves it; otherwise the first
// available model is selected. Any probe failure yields an unavailable
// capability.
func Probe(ctx context.Context, client Client, preferred string) Capability {
	models, err := client.ListModels(ctx)
	if err != nil {
		telemetry.Warn("llm.unavailable", map[string]any{"error": err.Error()})
		return Capability{}
	}

	capability := Capability{Available: true, Model: preferred}
	found := false
	for _, name := range models {
		if name == preferred {
			found = true
			break
		}
	}
	if !found && len(models) > 0 {
		capability.Model = models[0]
		telemetry.Warn("llm.model_substituted", map[string]any{
			"preferred": preferred,
			"selected":  capability.Model,
		})
	}

	telemetry.Info("llm.available", map[string]any{"model": capability.Model})
	return capability
}

// ErrNotImplemented is returned by the placeholder client.
var ErrNotImplemented = errors.New("LLM not implemented")

// PlaceholderClient is a stub implementation for wiring without a runtime.
type PlaceholderClient struct{}

// ListModels returns ErrNotImplemented.
func (PlaceholderClient) ListModels(ctx context.Context) ([]string, error) {
	_ = ctx
	return nil, ErrNotImplemented
}

// Generate returns ErrNotImplemented.
func (PlaceholderClient) Generate(ctx context.Context, model, prompt, system string) (string, error) {
	_ = ctx
	_ = model
	_ = prompt
	_ = system
	return "", ErrNotImplemented
}
