package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"pung-bot/backend/internal/constants"
	apperrors "pung-bot/backend/pkg/errors"
	"pung-bot/backend/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const saveTimeout = 30 * time.Second

// Database owns the three persisted documents. Every operation is atomic under
// mu; mutations schedule an asynchronous wholesale save of their document.
type Database struct {
	store  DocumentStore
	logger *zap.Logger
	now    func() time.Time

	mu        sync.RWMutex
	memories  Memories
	analytics Analytics
	community Community

	// writeMu serializes writes per document
	writeMu map[string]*sync.Mutex
	pending sync.WaitGroup
}

// NewDatabase loads every document from store. Absent documents start from
// their default shape and are written back; unreadable ones start from the
// default shape and the failure is logged.
func NewDatabase(ctx context.Context, store DocumentStore) *Database {
	d := &Database{
		store:     store,
		logger:    logger.Named("store"),
		now:       time.Now,
		memories:  defaultMemories(),
		analytics: defaultAnalytics(),
		community: defaultCommunity(),
		writeMu:   make(map[string]*sync.Mutex, len(constants.Documents)),
	}
	for _, name := range constants.Documents {
		d.writeMu[name] = &sync.Mutex{}
	}

	for _, name := range constants.Documents {
		d.load(ctx, name)
	}
	d.logger.Info("Database loaded", zap.Int("documents", len(constants.Documents)))
	return d
}

func (d *Database) load(ctx context.Context, name string) {
	data, err := d.store.Load(ctx, name)
	if errors.Is(err, ErrNotFound) {
		if err := d.write(ctx, name); err != nil {
			d.logger.Error("Failed to write default document", zap.Error(err))
		}
		return
	}
	if err != nil {
		d.logger.Error("Failed to load document, using defaults",
			zap.Error(apperrors.NewPersistenceError(name, "load", err)))
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	switch name {
	case constants.DocumentMemories:
		var m Memories
		if err := json.Unmarshal(data, &m); err != nil {
			d.logDecodeError(name, err)
			return
		}
		m.normalize()
		d.memories = m
	case constants.DocumentAnalytics:
		var a Analytics
		if err := json.Unmarshal(data, &a); err != nil {
			d.logDecodeError(name, err)
			return
		}
		a.normalize()
		d.analytics = a
	case constants.DocumentCommunity:
		var c Community
		if err := json.Unmarshal(data, &c); err != nil {
			d.logDecodeError(name, err)
			return
		}
		c.normalize()
		d.community = c
	}
}

func (d *Database) logDecodeError(name string, err error) {
	d.logger.Error("Failed to decode document, using defaults",
		zap.Error(apperrors.NewPersistenceError(name, "decode", err)))
}

// snapshot encodes the current state of a document
func (d *Database) snapshot(name string) ([]byte, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	switch name {
	case constants.DocumentMemories:
		return json.MarshalIndent(d.memories, "", "  ")
	case constants.DocumentAnalytics:
		return json.MarshalIndent(d.analytics, "", "  ")
	case constants.DocumentCommunity:
		return json.MarshalIndent(d.community, "", "  ")
	}
	return nil, fmt.Errorf("unknown document %q", name)
}

// write saves one document synchronously. The snapshot is taken after the
// per-document lock is held, so the last write always carries the newest state.
func (d *Database) write(ctx context.Context, name string) error {
	mu := d.writeMu[name]
	mu.Lock()
	defer mu.Unlock()

	data, err := d.snapshot(name)
	if err != nil {
		return apperrors.NewPersistenceError(name, "encode", err)
	}
	if err := d.store.Save(ctx, name, data); err != nil {
		return apperrors.NewPersistenceError(name, "save", err)
	}
	return nil
}

// scheduleSave writes a document in the background
func (d *Database) scheduleSave(name string) {
	d.pending.Add(1)
	go func() {
		defer d.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		if err := d.write(ctx, name); err != nil {
			d.logger.Error("Background save failed", zap.String("document", name), zap.Error(err))
		}
	}()
}

// Wait blocks until every scheduled background save has finished
func (d *Database) Wait() {
	d.pending.Wait()
}

// Flush writes all documents synchronously
func (d *Database) Flush(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, name := range constants.Documents {
		name := name
		g.Go(func() error {
			return d.write(gctx, name)
		})
	}
	if err := g.Wait(); err != nil {
		d.logger.Error("Flush failed", zap.Error(err))
		return err
	}
	d.logger.Debug("All documents saved")
	return nil
}

// Close waits for background saves, flushes, and closes the store
func (d *Database) Close(ctx context.Context) error {
	d.Wait()
	flushErr := d.Flush(ctx)
	if err := d.store.Close(); err != nil {
		return err
	}
	return flushErr
}

// Export returns the encoded current state of a document
func (d *Database) Export(name string) ([]byte, error) {
	return d.snapshot(name)
}
