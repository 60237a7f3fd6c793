package lifecycle

import (
	"context"
	"errors"
	"testing"

	"bennypowers.dev/cssvls/internal/indexer"
	"bennypowers.dev/cssvls/lsp/testutil"
	"bennypowers.dev/cssvls/lsp/types"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func TestInitialized(t *testing.T) {
	t.Run("loads config, indexes the workspace and registers watchers", func(t *testing.T) {
		ctx := testutil.NewMockServerContext()
		ctx.SetRootPath("/ws")
		require.NoError(t, afero.WriteFile(ctx.Fs(), "/ws/theme.css", []byte(":root { --brand: #ff0000; }"), 0o644))

		glspCtx := &glsp.Context{}
		req := types.NewRequestContext(ctx, glspCtx)

		require.NoError(t, Initialized(req, &protocol.InitializedParams{}))

		assert.True(t, ctx.LoadConfigCalled)
		assert.True(t, ctx.SyncCalled)
		assert.True(t, ctx.RegisterWatchersCalled)
		assert.Same(t, glspCtx, ctx.GLSPContext())
		assert.False(t, req.HasWarnings())

		v, ok := ctx.Engine().GetVariable("--brand")
		require.True(t, ok)
		assert.True(t, v.IsColor())
	})

	t.Run("failures become warnings", func(t *testing.T) {
		ctx := testutil.NewMockServerContext()
		configErr := errors.New("bad yaml")
		syncErr := errors.New("walk failed")
		ctx.LoadConfigFunc = func() error { return configErr }
		ctx.SyncFunc = func(context.Context) (indexer.SyncReport, error) {
			return indexer.SyncReport{}, syncErr
		}

		req := types.NewRequestContext(ctx, &glsp.Context{})
		require.NoError(t, Initialized(req, &protocol.InitializedParams{}))

		assert.Equal(t, []error{configErr, syncErr}, req.Warnings())
		assert.True(t, ctx.RegisterWatchersCalled, "watchers are registered even when indexing fails")
	})

	t.Run("per-file errors become a warning", func(t *testing.T) {
		ctx := testutil.NewMockServerContext()
		fileErr := errors.New("unreadable")
		ctx.SyncFunc = func(context.Context) (indexer.SyncReport, error) {
			return indexer.SyncReport{Errors: fileErr}, nil
		}

		req := types.NewRequestContext(ctx, &glsp.Context{})
		require.NoError(t, Initialized(req, &protocol.InitializedParams{}))

		assert.Equal(t, []error{fileErr}, req.Warnings())
	})
}
