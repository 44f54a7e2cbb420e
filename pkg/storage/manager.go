package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/shashiranjanraj/catalog/config"
)

var (
	managerMu   sync.RWMutex
	disks       = map[string]Disk{}
	defaultDisk = "local"
)

// Connect boots the configured disks. The local disk is always available;
// the s3 disk is added only when S3_BUCKET is set. An s3 failure is
// returned but leaves the local disk usable.
func Connect(ctx context.Context) error {
	managerMu.Lock()
	defaultDisk = config.StorageDefault()
	disks["local"] = NewLocalDisk(config.StorageLocalRoot(), config.StorageURL())
	managerMu.Unlock()

	if config.StorageS3Bucket() == "" {
		return nil
	}

	d, err := NewS3Disk(ctx, S3Options{
		Bucket:   config.StorageS3Bucket(),
		Region:   config.StorageS3Region(),
		Key:      config.StorageS3Key(),
		Secret:   config.StorageS3Secret(),
		Endpoint: config.StorageS3Endpoint(),
		URL:      config.StorageS3URL(),
	})
	if err != nil {
		return err
	}
	RegisterDisk("s3", d)
	return nil
}

// Use returns the named disk. An empty name selects STORAGE_DISK.
func Use(name string) (Disk, error) {
	managerMu.RLock()
	defer managerMu.RUnlock()

	if name == "" {
		name = defaultDisk
	}
	d, ok := disks[name]
	if !ok {
		return nil, fmt.Errorf("storage: disk %q is not configured", name)
	}
	return d, nil
}

// RegisterDisk plugs in a Disk under name, replacing any previous one.
func RegisterDisk(name string, d Disk) {
	managerMu.Lock()
	disks[name] = d
	managerMu.Unlock()
}

// Names lists the configured disks.
func Names() []string {
	managerMu.RLock()
	defer managerMu.RUnlock()

	out := make([]string, 0, len(disks))
	for name := range disks {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
