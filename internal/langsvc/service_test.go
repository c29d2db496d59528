package langsvc

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"qls/internal/diag"
	"qls/internal/source"
	"qls/internal/target"
)

func TestServiceSwapsSnapshots(t *testing.T) {
	svc := NewService(exe(target.AdaptiveRI))
	doc := svc.UpdateDocument("file:///main.qs", one("main.qs", dynamicDouble))
	nb := svc.UpdateNotebook("file:///nb.ipynb", []source.Entry{{Name: "c1", Contents: "1 + 1"}})
	require.Equal(t, []diag.Code{diag.CapFloatingPointComputation}, codes(doc.Errors))
	require.Empty(t, nb.Errors)
	require.Equal(t, []string{"file:///main.qs", "file:///nb.ipynb"}, svc.URIs())

	require.NoError(t, svc.SetConfig(context.Background(), exe(target.AdaptiveRIF)))

	next, ok := svc.Snapshot("file:///main.qs")
	require.True(t, ok)
	require.NotSame(t, doc, next)
	require.Empty(t, next.Errors)
	// the old snapshot is untouched
	require.Equal(t, []diag.Code{diag.CapFloatingPointComputation}, codes(doc.Errors))

	nbNext, ok := svc.Snapshot("file:///nb.ipynb")
	require.True(t, ok)
	require.Equal(t, Notebook, nbNext.Kind)

	svc.Close("file:///main.qs")
	_, ok = svc.Snapshot("file:///main.qs")
	require.False(t, ok)
}

func TestServiceConcurrentReaders(t *testing.T) {
	svc := NewService(exe(target.AdaptiveRI))
	svc.UpdateDocument("doc", one("main.qs", clean))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				c, ok := svc.Snapshot("doc")
				if !ok {
					continue
				}
				span := c.PackageSpanOfSource("main.qs")
				off := c.SourcePositionToPackageOffset("main.qs", source.Position{Line: 3}, source.EncodingUTF16)
				if !span.Contains(off) {
					t.Errorf("offset %d outside %s", off, span)
				}
			}
		}()
	}
	for _, p := range []target.Profile{target.AdaptiveRIF, target.Base, target.Unrestricted} {
		require.NoError(t, svc.SetConfig(context.Background(), exe(p)))
	}
	wg.Wait()
}

func TestServiceSetConfigCancelled(t *testing.T) {
	svc := NewService(exe(target.AdaptiveRI))
	svc.UpdateDocument("doc", one("main.qs", clean))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, svc.SetConfig(ctx, exe(target.AdaptiveRIF)), context.Canceled)
}

func TestServiceRebuildsSnapshotFromOlderConfig(t *testing.T) {
	svc := NewService(exe(target.AdaptiveRI))

	// built under the old config, published only after SetConfig returned
	cfg, gen := svc.config()
	stale := New(one("main.qs", dynamicDouble), cfg)
	stale.gen = gen
	require.NoError(t, svc.SetConfig(context.Background(), exe(target.AdaptiveRIF)))

	got := svc.store(svc.slot("doc"), stale)
	require.Empty(t, got.Errors)
	snap, ok := svc.Snapshot("doc")
	require.True(t, ok)
	require.Same(t, got, snap)
	require.Equal(t, []diag.Code{diag.CapFloatingPointComputation}, codes(stale.Errors))

	// a snapshot built under the current config is published as is
	cur := svc.UpdateDocument("doc", one("main.qs", clean))
	snap, _ = svc.Snapshot("doc")
	require.Same(t, cur, snap)
}
