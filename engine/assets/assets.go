package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spaghettifunk/texloader/engine/assets/loaders"
	"github.com/spaghettifunk/texloader/engine/core"
	"github.com/spaghettifunk/texloader/engine/renderer/metadata"
	"golang.org/x/exp/slices"
)

var (
	ErrAssetNotFound  = errors.New("asset not found")
	ErrNoAssetSource  = errors.New("no asset source set")
	ErrNoLoader       = errors.New("no loader registered for resource type")
	ErrWatcherClosed  = errors.New("asset watcher already closed")
	ErrNotOSDirectory = errors.New("asset watching needs an OS directory")
)

type AssetInfo struct {
	Name     string
	Type     metadata.ResourceType
	Modified time.Time
}

var _ ByteSource = (*AssetManager)(nil)

type AssetManager struct {
	source  fs.FS
	root    string
	assets  map[string]AssetInfo
	loaders map[metadata.ResourceType]Loader

	mutex sync.RWMutex

	done     chan struct{}
	stopped  chan struct{}
	fsnotify *fsnotify.Watcher
}

func NewAssetManager() *AssetManager {
	am := &AssetManager{
		assets:  make(map[string]AssetInfo),
		loaders: make(map[metadata.ResourceType]Loader),
	}

	// Register loaders
	am.RegisterLoader(metadata.ResourceTypeImage, &loaders.ImageLoader{})
	am.RegisterLoader(metadata.ResourceTypeKTX, &loaders.KTXLoader{})
	am.RegisterLoader(metadata.ResourceTypePVR, &loaders.PVRLoader{})
	am.RegisterLoader(metadata.ResourceTypeDDS, &loaders.DDSLoader{})

	return am
}

// SetSource replaces the backing file system and rebuilds the asset index.
func (am *AssetManager) SetSource(fsys fs.FS) error {
	index := make(map[string]AssetInfo)
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if info, ok := assetInfo(p, d); ok {
			index[p] = info
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to index assets: %w", err)
	}

	am.mutex.Lock()
	am.source = fsys
	am.assets = index
	am.mutex.Unlock()

	core.LogDebug("indexed %d assets", len(index))
	return nil
}

// SetSourceDir backs the manager with an OS directory.
func (am *AssetManager) SetSourceDir(dir string) error {
	if err := am.SetSource(os.DirFS(dir)); err != nil {
		return err
	}
	am.root = dir
	return nil
}

// Register loaders for each asset type
func (am *AssetManager) RegisterLoader(assetType metadata.ResourceType, loader Loader) {
	am.loaders[assetType] = loader
}

// ReadAsset returns a fresh copy of the named asset's bytes.
func (am *AssetManager) ReadAsset(name string) ([]byte, error) {
	am.mutex.RLock()
	source := am.source
	am.mutex.RUnlock()
	if source == nil {
		return nil, ErrNoAssetSource
	}

	data, err := fs.ReadFile(source, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrAssetNotFound, name)
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrAssetNotFound, name, err)
	}
	return data, nil
}

// LoadAsset reads the named asset and decodes it with the loader registered
// for resourceType.
func (am *AssetManager) LoadAsset(name string, resourceType metadata.ResourceType) (*metadata.Resource, error) {
	loader, exists := am.loaders[resourceType]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrNoLoader, resourceType)
	}

	data, err := am.ReadAsset(name)
	if err != nil {
		return nil, err
	}

	res, err := loader.Load(name, data)
	if err != nil {
		return nil, err
	}
	res.Type = resourceType
	return res, nil
}

func (am *AssetManager) UnloadAsset(res *metadata.Resource) error {
	loader, exists := am.loaders[res.Type]
	if !exists {
		return fmt.Errorf("%w: %s", ErrNoLoader, res.Type)
	}
	return loader.Unload(res)
}

// Assets lists the indexed asset names in lexical order.
func (am *AssetManager) Assets() []string {
	am.mutex.RLock()
	names := make([]string, 0, len(am.assets))
	for name := range am.assets {
		names = append(names, name)
	}
	am.mutex.RUnlock()
	slices.Sort(names)
	return names
}

func (am *AssetManager) Lookup(name string) (AssetInfo, bool) {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	info, ok := am.assets[name]
	return info, ok
}

// Watch keeps the index in sync with the directory given to SetSourceDir.
// It only tracks which assets exist; textures are never reloaded.
func (am *AssetManager) Watch() error {
	if am.root == "" {
		return ErrNotOSDirectory
	}
	if am.fsnotify != nil {
		return nil
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	am.fsnotify = w
	am.done = make(chan struct{})
	am.stopped = make(chan struct{})

	if err := am.watchRecursive(am.root); err != nil {
		am.Shutdown()
		return err
	}
	go am.start()
	return nil
}

func (am *AssetManager) Shutdown() error {
	if am.fsnotify == nil {
		return nil
	}
	select {
	case <-am.done:
		return ErrWatcherClosed
	default:
	}
	close(am.done)
	if am.stopped != nil {
		select {
		case <-am.stopped:
		case <-time.After(time.Second):
		}
	}
	return am.fsnotify.Close()
}

func (am *AssetManager) start() {
	defer close(am.stopped)
	for {
		select {
		case e, ok := <-am.fsnotify.Events:
			if !ok {
				return
			}
			am.handleEvent(e)

		case err, ok := <-am.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError(err.Error())

		case <-am.done:
			return
		}
	}
}

func (am *AssetManager) handleEvent(e fsnotify.Event) {
	name, ok := am.relative(e.Name)
	if !ok {
		return
	}
	switch {
	case e.Op&(fsnotify.Create|fsnotify.Write) != 0:
		s, err := os.Stat(e.Name)
		if err != nil {
			return
		}
		if s.IsDir() {
			if e.Op&fsnotify.Create != 0 {
				am.watchRecursive(e.Name)
			}
			return
		}
		am.handleFileEvent(name, s.ModTime())
	case e.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		// Can't stat a deleted path, so drop it from both the index and
		// the watch list and let fsnotify ignore unknown names.
		am.removeAsset(name)
		am.fsnotify.Remove(e.Name)
	}
}

// watchRecursive adds all directories under the given one to the watch list.
func (am *AssetManager) watchRecursive(dir string) error {
	return filepath.WalkDir(dir, func(walkPath string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return am.fsnotify.Add(walkPath)
		}
		if name, ok := am.relative(walkPath); ok {
			if info, err := d.Info(); err == nil {
				am.handleFileEvent(name, info.ModTime())
			}
		}
		return nil
	})
}

func (am *AssetManager) relative(osPath string) (string, bool) {
	rel, err := filepath.Rel(am.root, osPath)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// Handle the creation or modification of a file
func (am *AssetManager) handleFileEvent(name string, modified time.Time) {
	assetType := DetermineAssetType(name)
	if assetType == metadata.ResourceTypeNone {
		return
	}
	am.mutex.Lock()
	defer am.mutex.Unlock()
	am.assets[name] = AssetInfo{
		Name:     name,
		Type:     assetType,
		Modified: modified,
	}
}

// Remove the asset from the index if it was deleted
func (am *AssetManager) removeAsset(name string) {
	am.mutex.Lock()
	defer am.mutex.Unlock()
	delete(am.assets, name)
}

func assetInfo(p string, d fs.DirEntry) (AssetInfo, bool) {
	assetType := DetermineAssetType(p)
	if assetType == metadata.ResourceTypeNone {
		return AssetInfo{}, false
	}
	info := AssetInfo{Name: p, Type: assetType}
	if fi, err := d.Info(); err == nil {
		info.Modified = fi.ModTime()
	}
	return info, true
}

// DetermineAssetType picks the decoder for a file name by its extension.
func DetermineAssetType(name string) metadata.ResourceType {
	switch strings.ToLower(path.Ext(name)) {
	case ".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp":
		return metadata.ResourceTypeImage
	case ".ktx":
		return metadata.ResourceTypeKTX
	case ".pvr":
		return metadata.ResourceTypePVR
	case ".dds":
		return metadata.ResourceTypeDDS
	default:
		return metadata.ResourceTypeNone
	}
}
