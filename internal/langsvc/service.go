package langsvc

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"qls/internal/source"
	"qls/internal/trace"
)

// Service keeps one session per open document or notebook. Readers take a
// Snapshot and query it without locks; updates publish a new snapshot.
type Service struct {
	mu       sync.Mutex // guards cfg, gen and the sessions map, not the snapshots
	cfg      Config
	gen      uint64 // bumped by every SetConfig
	sessions map[string]*atomic.Pointer[Compilation]
}

func NewService(cfg Config) *Service {
	return &Service{cfg: cfg, sessions: make(map[string]*atomic.Pointer[Compilation])}
}

func (s *Service) slot(uri string) *atomic.Pointer[Compilation] {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.sessions[uri]
	if !ok {
		p = new(atomic.Pointer[Compilation])
		s.sessions[uri] = p
	}
	return p
}

func (s *Service) config() (Config, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg, s.gen
}

// UpdateDocument compiles the sources of the project owning uri and
// publishes the result.
func (s *Service) UpdateDocument(uri string, sources []source.Entry) *Compilation {
	cfg, gen := s.config()
	c := New(sources, cfg)
	c.gen = gen
	return s.store(s.slot(uri), c)
}

// UpdateNotebook compiles cells and publishes the result under uri.
func (s *Service) UpdateNotebook(uri string, cells []source.Entry) *Compilation {
	cfg, gen := s.config()
	c := NewNotebook(cells, cfg)
	c.gen = gen
	return s.store(s.slot(uri), c)
}

// store publishes c. A SetConfig may have finished while c was being built
// and missed it, so c is rebuilt until its config generation is current.
func (s *Service) store(p *atomic.Pointer[Compilation], c *Compilation) *Compilation {
	p.Store(c)
	for {
		cfg, gen := s.config()
		if c.gen >= gen {
			return c
		}
		next := *c
		next.Recompile(cfg)
		next.gen = gen
		if !p.CompareAndSwap(c, &next) {
			// a newer update owns the slot and runs this check itself
			if cur := p.Load(); cur != nil {
				return cur
			}
			return &next
		}
		c = &next
	}
}

// Snapshot returns the current session for uri.
func (s *Service) Snapshot(uri string) (*Compilation, bool) {
	s.mu.Lock()
	p, ok := s.sessions[uri]
	s.mu.Unlock()
	if !ok {
		return nil, false
	}
	c := p.Load()
	return c, c != nil
}

// Close forgets the session for uri.
func (s *Service) Close(uri string) {
	s.mu.Lock()
	delete(s.sessions, uri)
	s.mu.Unlock()
}

// URIs lists the open sessions in sorted order.
func (s *Service) URIs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Sorted(maps.Keys(s.sessions))
}

// SetConfig recompiles every open session under cfg. Each session is
// copied and the copy recompiled, so readers of the old snapshot are never
// disturbed; sessions are rebuilt in parallel.
func (s *Service) SetConfig(ctx context.Context, cfg Config) error {
	if cfg.Tracer == nil {
		cfg.Tracer = trace.FromContext(ctx)
	}
	s.mu.Lock()
	s.cfg = cfg
	s.gen++
	gen := s.gen
	slots := maps.Clone(s.sessions)
	s.mu.Unlock()

	span := trace.Begin(cfg.tracer(), trace.ScopeSession, "set-config", 0)
	defer span.WithExtra("sessions", fmt.Sprint(len(slots))).End("")

	g, ctx := errgroup.WithContext(ctx)
	for uri, p := range slots {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for {
				old := p.Load()
				if old == nil || old.gen >= gen {
					return nil
				}
				next := *old
				next.Recompile(cfg)
				next.gen = gen
				if p.CompareAndSwap(old, &next) {
					return nil
				}
				trace.Pointf(cfg.tracer(), trace.ScopeSession, "set-config", span.ID(),
					"%s changed during recompile, retrying", uri)
				if err := ctx.Err(); err != nil {
					return err
				}
			}
		})
	}
	return g.Wait()
}
