// Package server serves rendered component previews over HTTP and pushes
// live-reload events to connected browsers over websockets.
package server

import (
	"context"
	"fmt"
	"html"
	"net"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/lumen-ui/lumen/internal/config"
	"github.com/lumen-ui/lumen/internal/dom"
	"github.com/lumen-ui/lumen/internal/lifecycle"
	"github.com/lumen-ui/lumen/internal/logging"
	"github.com/lumen-ui/lumen/internal/registry"
	"github.com/lumen-ui/lumen/internal/runtime"
	"github.com/lumen-ui/lumen/internal/types"
)

// PreviewServer renders registered elements on demand and notifies clients
// when the registry changes.
type PreviewServer struct {
	cfg      *config.Config
	engine   *runtime.RenderingEngine
	registry *registry.ResourceRegistry
	logger   logging.Logger
	hub      *hub

	httpServer *http.Server

	// previewDefs caches the synthesized per-element preview definitions so
	// repeat requests reuse the engine's memoized factories. Registry
	// changes invalidate the cache.
	previewMutex sync.Mutex
	previewDefs  map[string]*types.TemplateDefinition
}

// New builds a preview server over the given engine and registry.
func New(cfg *config.Config, engine *runtime.RenderingEngine, reg *registry.ResourceRegistry, logger logging.Logger) *PreviewServer {
	if logger == nil {
		logger = logging.Discard()
	}
	logger = logger.WithComponent("server")

	s := &PreviewServer{
		cfg:         cfg,
		engine:      engine,
		registry:    reg,
		logger:      logger,
		hub:         newHub(logger),
		previewDefs: make(map[string]*types.TemplateDefinition),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/preview/", s.handlePreview)
	mux.HandleFunc("/ws", s.hub.handleWS)
	mux.HandleFunc("/health", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, fmt.Sprintf("%d", cfg.Server.Port)),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler exposes the route table for tests.
func (s *PreviewServer) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start serves until the context is canceled, then shuts down gracefully.
// When hot reload is enabled, registry changes are forwarded to clients.
func (s *PreviewServer) Start(ctx context.Context) error {
	if s.cfg.Development.HotReload {
		events := s.registry.Watch()
		go s.forwardRegistryEvents(ctx, events)
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "preview server listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}

// Broadcast pushes a reload event to connected clients.
func (s *PreviewServer) Broadcast(ctx context.Context, event ReloadEvent) {
	s.hub.Broadcast(ctx, event)
}

func (s *PreviewServer) forwardRegistryEvents(ctx context.Context, events <-chan types.ResourceEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			s.invalidatePreviews()
			name := ""
			if event.Resource != nil {
				name = event.Resource.Name
			}
			s.hub.Broadcast(ctx, NewReloadEvent(string(event.Type), name))
		}
	}
}

func (s *PreviewServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"status":"ok","clients":%d}`, s.hub.ClientCount())
}

// handleIndex lists every registered element with a preview link.
func (s *PreviewServer) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	names := make([]string, 0)
	for _, ct := range s.registry.GetAll() {
		if ct.Kind == types.ResourceElement {
			names = append(names, ct.Name)
		}
	}
	sort.Strings(names)

	var sb strings.Builder
	sb.WriteString("<ul>")
	for _, name := range names {
		fmt.Fprintf(&sb, `<li><a href="/preview/%s">%s</a></li>`, html.EscapeString(name), html.EscapeString(name))
	}
	sb.WriteString("</ul>")

	s.writePage(w, "Lumen components", sb.String())
}

// handlePreview renders one element's definition and serves it as a page.
func (s *PreviewServer) handlePreview(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/preview/")
	ct, ok := s.registry.Get(types.ResourceElement, name)
	if !ok {
		http.NotFound(w, r)
		return
	}

	markup, err := s.renderElement(ct)
	if err != nil {
		s.logger.Error(r.Context(), err, "rendering preview", "element", name)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.writePage(w, name, markup)
}

// renderElement stamps the element standalone: its definition is rendered
// with all registered types in scope and an empty binding context.
func (s *PreviewServer) renderElement(ct *types.ComponentType) (string, error) {
	factory, err := s.engine.GetViewFactory(s.previewDefinition(ct), nil)
	if err != nil {
		return "", err
	}

	view, err := factory.Create(nil, nil)
	if err != nil {
		return "", err
	}
	defer view.Release()

	if err := view.Bind(lifecycle.NewScope(map[string]any{})); err != nil {
		return "", err
	}
	if err := view.Attach(); err != nil {
		return "", err
	}
	defer func() {
		_ = view.Detach()
		_ = view.Unbind()
	}()

	return dom.SerializeString(view.Nodes().Nodes())
}

func (s *PreviewServer) previewDefinition(ct *types.ComponentType) *types.TemplateDefinition {
	s.previewMutex.Lock()
	defer s.previewMutex.Unlock()

	if def, ok := s.previewDefs[ct.Name]; ok {
		return def
	}

	deps := make([]any, 0)
	for _, other := range s.registry.GetAll() {
		deps = append(deps, other)
	}
	def := &types.TemplateDefinition{
		Name:         "preview:" + ct.Name,
		Template:     fmt.Sprintf("<%s></%s>", ct.Name, ct.Name),
		Dependencies: deps,
	}
	s.previewDefs[ct.Name] = def
	return def
}

func (s *PreviewServer) invalidatePreviews() {
	s.previewMutex.Lock()
	defer s.previewMutex.Unlock()
	s.previewDefs = make(map[string]*types.TemplateDefinition)
}

const reloadScript = `<script>
(function () {
  var ws = new WebSocket("ws://" + location.host + "/ws");
  ws.onmessage = function () { location.reload(); };
})();
</script>`

func (s *PreviewServer) writePage(w http.ResponseWriter, title, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, `<!DOCTYPE html>
<html>
<head><title>%s</title></head>
<body>
%s
%s
</body>
</html>`, html.EscapeString(title), body, s.reloadSnippet())
}

func (s *PreviewServer) reloadSnippet() string {
	if s.cfg.Development.HotReload {
		return reloadScript
	}
	return ""
}
