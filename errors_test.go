package baes_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	baes "github.com/gesad-lab/baes-demo-sub001"
)

func TestMissingResourceError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := baes.NewMissingResourceError("template", "storage_layer")
		assert.Equal(t, `baes: template resource "storage_layer" not found`, err.Error())
		assert.Equal(t, "template", err.Kind())
		assert.Equal(t, "storage_layer", err.Name())
	})

	t.Run("Is", func(t *testing.T) {
		err := baes.NewMissingResourceError("rule", "api-status")
		assert.True(t, errors.Is(err, baes.ErrMissingResource))
	})

	t.Run("IsMissingResource", func(t *testing.T) {
		err := baes.NewMissingResourceError("template", "ui_layer")
		assert.True(t, baes.IsMissingResource(err))

		// Wrapped error
		wrapped := fmt.Errorf("wrapper: %w", err)
		assert.True(t, baes.IsMissingResource(wrapped))

		// Sentinel error
		assert.True(t, baes.IsMissingResource(baes.ErrMissingResource))

		// Non-matching error
		assert.False(t, baes.IsMissingResource(errors.New("other error")))
		assert.False(t, baes.IsMissingResource(nil))
	})
}

func TestCatalogError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := baes.NewCatalogError("rules", "api-router", "bad pattern", errors.New("missing closing )"))
		assert.Equal(t, `baes: rules catalog error on entry "api-router": bad pattern: missing closing )`, err.Error())
	})

	t.Run("Unwrap", func(t *testing.T) {
		cause := errors.New("boom")
		err := baes.NewCatalogError("templates", "", "", cause)
		assert.Equal(t, cause, errors.Unwrap(err))
	})

	t.Run("Is", func(t *testing.T) {
		err := baes.NewCatalogError("rules", "r1", "dup", nil)
		assert.True(t, errors.Is(err, baes.ErrInvalidCatalog))
		assert.True(t, baes.IsCatalogError(err))
		assert.False(t, baes.IsCatalogError(nil))
	})
}

func TestParseTarget(t *testing.T) {
	tests := []struct {
		input   string
		want    baes.Target
		wantErr bool
	}{
		{"storage_layer", baes.TargetStorage, false},
		{"api_layer", baes.TargetAPI, false},
		{"ui_layer", baes.TargetUI, false},
		{"test_layer", baes.TargetTest, false},
		{"graphql_layer", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := baes.ParseTarget(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.Valid())
		})
	}
}

func TestTargets(t *testing.T) {
	all := baes.Targets()
	require.Len(t, all, 4)
	for _, target := range all {
		assert.True(t, target.Valid())
	}
}

func TestMockGenerativeService(t *testing.T) {
	t.Run("DefaultResponse", func(t *testing.T) {
		mock := &baes.MockGenerativeService{Response: "generated code"}
		out, err := mock.Generate(context.Background(), "prompt")
		require.NoError(t, err)
		assert.Equal(t, "generated code", out)
		assert.Equal(t, 1, mock.GenerateCalls)
	})

	t.Run("GenerateFunc", func(t *testing.T) {
		mock := &baes.MockGenerativeService{
			GenerateFunc: func(_ context.Context, prompt string) (string, error) {
				return "echo: " + prompt, nil
			},
		}
		out, err := mock.Generate(context.Background(), "build Course")
		require.NoError(t, err)
		assert.Equal(t, "echo: build Course", out)
	})
}
