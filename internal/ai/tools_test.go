package ai

import (
	"context"
	"testing"
)

func TestRegistryDispatch(t *testing.T) {
	r := NewToolRegistry()
	r.Register(ToolDefinition{
		Name:        "echo_location",
		Description: "echoes the location parameter",
		InputSchema: schemaFor(locationParams{}),
		Handler: func(ctx context.Context, params map[string]any) (string, error) {
			return stringParam(params, "location"), nil
		},
	})

	got, err := r.Dispatch(context.Background(), "echo_location", `{"location":"Mumbai"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Mumbai" {
		t.Errorf("dispatch result = %q, want Mumbai", got)
	}
}

func TestRegistryDispatchUnknownTool(t *testing.T) {
	r := NewToolRegistry()
	if _, err := r.Dispatch(context.Background(), "missing", "{}"); err == nil {
		t.Fatal("expected error for unknown tool")
	}
}

func TestRegistryDispatchInvalidArguments(t *testing.T) {
	r := NewToolRegistry()
	r.Register(ToolDefinition{
		Name:        "noop",
		InputSchema: schemaFor(emptyParams{}),
		Handler: func(ctx context.Context, params map[string]any) (string, error) {
			return "ok", nil
		},
	})
	if _, err := r.Dispatch(context.Background(), "noop", `{broken`); err == nil {
		t.Fatal("expected error for malformed arguments")
	}
}

func TestRegistryDispatchEmptyArguments(t *testing.T) {
	r := NewToolRegistry()
	r.Register(ToolDefinition{
		Name:        "noop",
		InputSchema: schemaFor(emptyParams{}),
		Handler: func(ctx context.Context, params map[string]any) (string, error) {
			return "ok", nil
		},
	})
	got, err := r.Dispatch(context.Background(), "noop", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ok" {
		t.Errorf("dispatch result = %q, want ok", got)
	}
}

func TestSchemaForReflectsObjectSchema(t *testing.T) {
	schema := schemaFor(trendParams{})
	if schema["type"] != "object" {
		t.Errorf("schema type = %v, want object", schema["type"])
	}
	props, ok := schema["properties"].(map[string]any)
	if !ok {
		t.Fatalf("schema has no properties map: %v", schema)
	}
	for _, field := range []string{"item", "location", "days"} {
		if _, ok := props[field]; !ok {
			t.Errorf("schema missing property %q", field)
		}
	}
}

func TestToOpenAIToolsCarriesDefinitions(t *testing.T) {
	r := NewToolRegistry()
	r.Register(ToolDefinition{
		Name:        "get_overview",
		Description: "ledger coverage",
		InputSchema: schemaFor(emptyParams{}),
		Handler: func(ctx context.Context, params map[string]any) (string, error) {
			return "{}", nil
		},
	})

	tools := r.ToOpenAITools()
	if len(tools) != 1 {
		t.Fatalf("expected 1 tool, got %d", len(tools))
	}
	if tools[0].OfFunction == nil || tools[0].OfFunction.Name != "get_overview" {
		t.Errorf("unexpected tool param: %+v", tools[0])
	}
}

func TestParamHelpers(t *testing.T) {
	params := map[string]any{"location": "Delhi", "days": float64(30)}
	if got := stringParam(params, "location"); got != "Delhi" {
		t.Errorf("stringParam = %q", got)
	}
	if got := stringParam(params, "missing"); got != "" {
		t.Errorf("stringParam for missing key = %q, want empty", got)
	}
	if got := intParam(params, "days"); got != 30 {
		t.Errorf("intParam = %d, want 30", got)
	}
	if got := intParam(params, "missing"); got != 0 {
		t.Errorf("intParam for missing key = %d, want 0", got)
	}
}
