package app

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/palettesample/internal/colour"
	imgutil "github.com/jmylchreest/palettesample/internal/image"
	"github.com/jmylchreest/palettesample/internal/sample"
)

var testViewport = sample.Dimensions{Width: 100, Height: 100}

// stubLoader returns a solid image per source and can hold a source kind
// until its gate is closed.
type stubLoader struct {
	mu    sync.Mutex
	gates map[imgutil.SourceKind]chan struct{}
	err   error
	calls []imgutil.Source
}

func (l *stubLoader) Load(ctx context.Context, src imgutil.Source, viewport sample.Dimensions) (*imgutil.Loaded, error) {
	l.mu.Lock()
	l.calls = append(l.calls, src)
	gate := l.gates[src.Kind]
	err := l.err
	l.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	fill := color.RGBA{R: 30, G: 90, B: 230, A: 255}
	if src.IsDefault() {
		fill = color.RGBA{R: 110, G: 120, B: 140, A: 255}
	}
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			img.Set(x, y, fill)
		}
	}
	return &imgutil.Loaded{Source: src, Bounds: sample.Dimensions{Width: 10, Height: 10}, Viewport: viewport, Factor: 1, Image: img}, nil
}

func newTestGenerator(t *testing.T) *colour.Generator {
	t.Helper()
	gen, err := colour.NewGenerator(colour.DefaultGeneratorConfig(), nil)
	if err != nil {
		t.Fatalf("NewGenerator() error = %v", err)
	}
	return gen
}

func writeTestPNG(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: 128, B: uint8(y), A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test PNG: %v", err)
	}
	path := filepath.Join(t.TempDir(), "pick.png")
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		t.Fatalf("failed to write test PNG: %v", err)
	}
	return path
}

func TestControllerLoadDefault(t *testing.T) {
	c := NewController(imgutil.NewLoader(nil), newTestGenerator(t), sample.Dimensions{Width: 1080, Height: 1920}, nil)

	if c.Snapshot().Ready() {
		t.Fatal("state should not be ready before loading")
	}

	c.LoadDefault(context.Background())
	c.Wait()

	s := c.Snapshot()
	if !s.Ready() {
		t.Fatalf("state should be ready after default load, err = %v", s.Err)
	}
	if !s.Source.IsDefault() {
		t.Errorf("Source = %v, want default", s.Source)
	}
	if s.Loaded.RawFactor != 0 || s.Loaded.Factor != 1 {
		t.Errorf("factors = (%d, %d), want (0, 1)", s.Loaded.RawFactor, s.Loaded.Factor)
	}
	if s.Generation != 1 {
		t.Errorf("Generation = %d, want 1", s.Generation)
	}
	if s.Palette.Dominant() == nil {
		t.Error("default image palette should have a dominant swatch")
	}
}

func TestControllerHandlePickEmpty(t *testing.T) {
	var logs bytes.Buffer
	logger := hclog.New(&hclog.LoggerOptions{Name: "test", Level: hclog.Debug, Output: &logs})
	loader := &stubLoader{}
	c := NewController(loader, newTestGenerator(t), testViewport, logger)

	for _, path := range []string{"", "   ", "\n"} {
		if err := c.HandlePick(context.Background(), path); err != nil {
			t.Errorf("HandlePick(%q) error = %v", path, err)
		}
	}

	if got := c.Snapshot().Generation; got != 0 {
		t.Errorf("Generation = %d, want 0 after empty picks", got)
	}
	if len(loader.calls) != 0 {
		t.Errorf("loader called %d times, want 0", len(loader.calls))
	}
	if n := strings.Count(logs.String(), "No media selected"); n != 3 {
		t.Errorf("logged \"No media selected\" %d times, want 3:\n%s", n, logs.String())
	}
	if !strings.Contains(logs.String(), "test.picker") {
		t.Errorf("expected picker logger name in output:\n%s", logs.String())
	}
}

func TestControllerHandlePickFile(t *testing.T) {
	path := writeTestPNG(t, 400, 300)
	c := NewController(imgutil.NewLoader(nil), newTestGenerator(t), sample.Dimensions{Width: 108, Height: 192}, nil)

	var seen []State
	c.Subscribe(func(s State) { seen = append(seen, s) })

	if err := c.HandlePick(context.Background(), path); err != nil {
		t.Fatalf("HandlePick() error = %v", err)
	}

	s := c.Snapshot()
	if !s.Ready() {
		t.Fatal("state should be ready after pick")
	}
	if s.Source.Kind != imgutil.SourceFile || s.Source.Location != path {
		t.Errorf("Source = %+v, want file %s", s.Source, path)
	}
	if s.Loaded.Factor != 3 {
		t.Errorf("Factor = %d, want 3", s.Loaded.Factor)
	}
	if len(seen) != 1 || seen[0].Generation != 1 {
		t.Errorf("subscriber saw %d states, want 1 with generation 1", len(seen))
	}
}

func TestControllerFailureKeepsState(t *testing.T) {
	loader := &stubLoader{}
	c := NewController(loader, newTestGenerator(t), testViewport, nil)

	c.LoadDefault(context.Background())
	c.Wait()
	good := c.Snapshot()
	if !good.Ready() {
		t.Fatal("default load should succeed")
	}

	picked := writeTestPNG(t, 8, 8)
	loader.err = errors.New("boom")
	err := c.HandlePick(context.Background(), picked)
	if err == nil {
		t.Fatal("HandlePick() should fail")
	}

	s := c.Snapshot()
	if s.Err == nil || !strings.Contains(s.Err.Error(), "boom") {
		t.Errorf("Err = %v, want recorded failure", s.Err)
	}
	if s.Loaded != good.Loaded || s.Palette != good.Palette || s.Source != good.Source {
		t.Error("failed pick should not replace the displayed image")
	}
	if s.Generation != good.Generation+1 {
		t.Errorf("Generation = %d, want %d", s.Generation, good.Generation+1)
	}

	loader.err = nil
	if err := c.HandlePick(context.Background(), picked); err != nil {
		t.Fatalf("HandlePick() error = %v", err)
	}
	if s := c.Snapshot(); s.Err != nil {
		t.Errorf("Err = %v, want cleared after successful load", s.Err)
	}
}

func TestControllerHandlePickUnresolved(t *testing.T) {
	loader := &stubLoader{}
	c := NewController(loader, newTestGenerator(t), testViewport, nil)

	missing := filepath.Join(t.TempDir(), "missing.png")
	if err := c.HandlePick(context.Background(), missing); err == nil {
		t.Fatal("HandlePick() should fail for a missing path")
	}
	if len(loader.calls) != 0 {
		t.Errorf("loader called %d times, want 0", len(loader.calls))
	}
	s := c.Snapshot()
	if s.Err == nil || s.Ready() {
		t.Errorf("state = %+v, want only Err set", s)
	}
}

func TestControllerMostRecentCompletionWins(t *testing.T) {
	gate := make(chan struct{})
	loader := &stubLoader{gates: map[imgutil.SourceKind]chan struct{}{imgutil.SourceDefault: gate}}
	c := NewController(loader, newTestGenerator(t), testViewport, nil)

	c.LoadDefault(context.Background())

	if err := c.HandlePick(context.Background(), writeTestPNG(t, 8, 8)); err != nil {
		t.Fatalf("HandlePick() error = %v", err)
	}
	if got := c.Snapshot().Source; got.Kind != imgutil.SourceFile {
		t.Fatalf("Source = %v, want the picked file", got)
	}

	close(gate)
	c.Wait()

	s := c.Snapshot()
	if !s.Source.IsDefault() {
		t.Errorf("Source = %v, want default since it completed last", s.Source)
	}
	if s.Generation != 2 {
		t.Errorf("Generation = %d, want 2", s.Generation)
	}
}

func TestControllerHandlePickCancelled(t *testing.T) {
	gate := make(chan struct{})
	defer close(gate)
	loader := &stubLoader{gates: map[imgutil.SourceKind]chan struct{}{imgutil.SourceURL: gate}}
	c := NewController(loader, newTestGenerator(t), testViewport, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.HandlePick(ctx, "https://example.com/image.png")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("HandlePick() error = %v, want context.Canceled", err)
	}
	if c.Snapshot().Ready() {
		t.Error("cancelled pick should not produce a ready state")
	}
}

func TestControllerDeliversInGenerationOrder(t *testing.T) {
	c := NewController(&stubLoader{}, newTestGenerator(t), testViewport, nil)

	entered := make(chan struct{})
	release := make(chan struct{})
	var (
		mu        sync.Mutex
		delivered []uint64
		last      State
	)
	c.Subscribe(func(s State) {
		if s.Generation == 1 {
			close(entered)
			<-release
		}
		mu.Lock()
		delivered = append(delivered, s.Generation)
		last = s
		mu.Unlock()
	})

	c.LoadDefault(context.Background())
	select {
	case <-entered:
	case <-time.After(5 * time.Second):
		t.Fatal("default load was never delivered")
	}

	path := writeTestPNG(t, 8, 8)
	picked := make(chan error, 1)
	go func() {
		picked <- c.HandlePick(context.Background(), path)
	}()

	deadline := time.Now().Add(5 * time.Second)
	for c.Snapshot().Generation != 2 {
		if time.Now().After(deadline) {
			t.Fatal("pick was never published")
		}
		time.Sleep(time.Millisecond)
	}

	close(release)
	if err := <-picked; err != nil {
		t.Fatalf("HandlePick() error = %v", err)
	}
	c.Wait()

	final := c.Snapshot()
	mu.Lock()
	defer mu.Unlock()
	if len(delivered) != 2 || delivered[0] != 1 || delivered[1] != 2 {
		t.Fatalf("delivery order = %v, want [1 2]", delivered)
	}
	if last.Generation != final.Generation || last.Source != final.Source {
		t.Errorf("last delivered generation %d (%v), state is %d (%v)",
			last.Generation, last.Source, final.Generation, final.Source)
	}
}

func TestControllerDropsStaleDelivery(t *testing.T) {
	c := NewController(&stubLoader{}, newTestGenerator(t), testViewport, nil)

	var delivered []uint64
	c.Subscribe(func(s State) { delivered = append(delivered, s.Generation) })

	c.publish(func(s *State) {})
	c.publish(func(s *State) {})
	// A snapshot taken before the last delivery must not be shown.
	c.mu.Lock()
	c.state.Generation = 0
	c.mu.Unlock()
	c.publish(func(s *State) {})

	if len(delivered) != 2 || delivered[1] != 2 {
		t.Errorf("delivered = %v, want [1 2]", delivered)
	}
}
