// Package menu hands the wizard its option source and keeps it fresh.
// The kiosk reads the menu from cupcake.yaml; a FileProvider watches the
// file and swaps in the new menu atomically, so running orders keep the menu
// they started with while new orders see the edit.
package menu

import (
	"log"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	cupcake "github.com/ranjanproject/composenavigation"
	"github.com/ranjanproject/composenavigation/internal/config"
)

// Provider hands out the current menu. Returned menus are treated as
// immutable: providers swap whole menus and never mutate one in place.
type Provider interface {
	Menu() *cupcake.Menu
}

// StaticProvider serves one fixed menu. Tests and embedded kiosks use it.
type StaticProvider struct {
	menu *cupcake.Menu
}

// NewStatic returns a provider that always serves m.
func NewStatic(m *cupcake.Menu) *StaticProvider {
	return &StaticProvider{menu: m}
}

// Menu returns the fixed menu.
func (p *StaticProvider) Menu() *cupcake.Menu {
	return p.menu
}

// FileProvider serves the menu section of a config file and reloads it when
// the file changes on disk. A reload that fails to parse or validate keeps
// the previous menu, so a half-saved edit never takes the kiosk down. Only
// the menu section is hot; server settings need a restart.
type FileProvider struct {
	path  string
	debug bool

	mu        sync.RWMutex
	menu      *cupcake.Menu
	listeners []func(*cupcake.Menu)

	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewFile creates a provider for the config file at path and performs the
// initial load. A missing file serves the default menu; a file that exists
// but does not parse is an error, since starting with a menu the operator
// did not write would be worse than not starting.
func NewFile(path string, debug bool) (*FileProvider, error) {
	p := &FileProvider{
		path:  path,
		debug: debug,
		done:  make(chan struct{}),
	}
	if err := p.Reload(); err != nil {
		return nil, err
	}
	return p, nil
}

// Menu returns the most recently loaded menu.
func (p *FileProvider) Menu() *cupcake.Menu {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.menu
}

// Subscribe registers fn to run after every successful reload with the new
// menu. Register before Start; notification order follows registration.
func (p *FileProvider) Subscribe(fn func(*cupcake.Menu)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listeners = append(p.listeners, fn)
}

// Reload reads the config file and swaps in its menu. On failure the
// current menu stays in place and no subscribers run.
func (p *FileProvider) Reload() error {
	cfg, err := config.Load(p.path)
	if err != nil {
		return err
	}
	menu, err := cfg.Menu.Build()
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.menu = menu
	listeners := append(([]func(*cupcake.Menu))(nil), p.listeners...)
	p.mu.Unlock()

	for _, fn := range listeners {
		fn(menu)
	}
	return nil
}

// Start begins watching the config file for changes. The watch is on the
// parent directory because editors that save via rename-and-replace drop a
// watch held on the file itself.
func (p *FileProvider) Start() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(p.path)); err != nil {
		watcher.Close()
		return err
	}
	p.watcher = watcher

	go p.watch()

	if p.debug {
		log.Printf("[Watch] Watching %s", p.path)
	}
	return nil
}

func (p *FileProvider) watch() {
	for {
		select {
		case event, ok := <-p.watcher.Events:
			if !ok {
				return
			}

			if event.Op&fsnotify.Write != fsnotify.Write && event.Op&fsnotify.Create != fsnotify.Create {
				continue
			}
			if filepath.Base(event.Name) != filepath.Base(p.path) {
				continue
			}

			if p.debug {
				log.Printf("[Watch] Config changed: %s", event.Name)
			}
			if err := p.Reload(); err != nil {
				log.Printf("[Watch] Reload failed, keeping the previous menu: %v", err)
			}

		case err, ok := <-p.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("[Watch] Error: %v", err)

		case <-p.done:
			return
		}
	}
}

// Stop stops watching. The current menu stays available.
func (p *FileProvider) Stop() error {
	close(p.done)
	if p.watcher != nil {
		return p.watcher.Close()
	}
	return nil
}
