package app

import (
	"context"
	"fmt"
	"image"
	"strings"
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/palettesample/internal/colour"
	imgutil "github.com/jmylchreest/palettesample/internal/image"
	"github.com/jmylchreest/palettesample/internal/sample"
)

// ImageLoader decodes a source for a viewport.
type ImageLoader interface {
	Load(ctx context.Context, src imgutil.Source, viewport sample.Dimensions) (*imgutil.Loaded, error)
}

// PaletteGenerator extracts a palette from a decoded image.
type PaletteGenerator interface {
	Generate(img image.Image) (*colour.Palette, error)
}

// Controller owns the State and publishes every pipeline result to it.
// Results are published in completion order, so the last load to finish is
// the one shown.
type Controller struct {
	loader    ImageLoader
	generator PaletteGenerator
	viewport  sample.Dimensions

	logger hclog.Logger
	picker hclog.Logger

	mu          sync.RWMutex
	state       State
	subscribers []func(State)

	// deliverMu serialises subscriber calls. delivered is the last
	// generation handed to subscribers.
	deliverMu sync.Mutex
	delivered uint64

	wg sync.WaitGroup
}

// NewController creates a Controller. A nil logger discards output.
func NewController(loader ImageLoader, generator PaletteGenerator, viewport sample.Dimensions, logger hclog.Logger) *Controller {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Controller{
		loader:    loader,
		generator: generator,
		viewport:  viewport,
		logger:    logger,
		picker:    logger.Named("picker"),
	}
}

// Subscribe registers fn to be called with a copy of the state after every
// publish. fn runs on the publishing goroutine. Calls never overlap and
// generations only increase: a snapshot older than one already delivered is
// dropped.
func (c *Controller) Subscribe(fn func(State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subscribers = append(c.subscribers, fn)
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// LoadDefault starts loading the bundled default image in the background.
// Use Wait to block until it finishes.
func (c *Controller) LoadDefault(ctx context.Context) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		_ = c.run(ctx, imgutil.DefaultSource())
	}()
}

// Wait blocks until the background load started by LoadDefault finishes.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// HandlePick handles the result of a pick. An empty path means nothing was
// selected and leaves the state untouched. Otherwise the source is loaded
// synchronously and the result published.
func (c *Controller) HandlePick(ctx context.Context, path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		c.picker.Debug("No media selected")
		return nil
	}

	src, err := imgutil.ResolveSource(path)
	if err != nil {
		err = fmt.Errorf("failed to resolve source: %w", err)
		c.fail(imgutil.Source{Kind: imgutil.SourceFile, Location: path}, err)
		return err
	}

	c.picker.Info("Selected source", "source", src.String(), "kind", src.Kind.String())
	return c.run(ctx, src)
}

func (c *Controller) run(ctx context.Context, src imgutil.Source) error {
	loaded, err := c.loader.Load(ctx, src, c.viewport)
	if err != nil {
		err = fmt.Errorf("failed to load image: %w", err)
		c.fail(src, err)
		return err
	}

	palette, err := c.generator.Generate(loaded.Image)
	if err != nil {
		err = fmt.Errorf("failed to generate palette: %w", err)
		c.fail(src, err)
		return err
	}

	c.publish(func(s *State) {
		s.Source = src
		s.Loaded = loaded
		s.Palette = palette
		s.Err = nil
	})
	c.logger.Debug("published state",
		"source", src.String(),
		"factor", loaded.Factor,
		"size", loaded.Size().String(),
		"swatches", palette.Len())
	return nil
}

// fail records err without discarding the image and palette already shown.
func (c *Controller) fail(src imgutil.Source, err error) {
	c.logger.Error("failed to load source", "source", src.String(), "error", err)
	c.publish(func(s *State) {
		s.Err = err
	})
}

func (c *Controller) publish(update func(*State)) {
	c.mu.Lock()
	update(&c.state)
	c.state.Generation++
	snapshot := c.state
	subscribers := make([]func(State), len(c.subscribers))
	copy(subscribers, c.subscribers)
	c.mu.Unlock()

	c.deliverMu.Lock()
	defer c.deliverMu.Unlock()
	if snapshot.Generation <= c.delivered {
		return
	}
	c.delivered = snapshot.Generation
	for _, fn := range subscribers {
		fn(snapshot)
	}
}
