package storage

import (
	"errors"
	"fmt"
	"path"
	"time"
)

// ErrNotFound is returned by every key value backend for a missing key.
var ErrNotFound = errors.New("key not found")

// DiskStorage reads and writes one account's files below RootFolder.
type DiskStorage struct {
	Account    string
	RootFolder string
}

func NewDiskStorage(account, rootFolder string) *DiskStorage {
	return &DiskStorage{
		Account:    account,
		RootFolder: rootFolder,
	}
}

func (ds *DiskStorage) GetFileName(name string) (string, string) {
	fileName := path.Join(ds.RootFolder, ds.Account, name)
	tmpFileName := fileName + ".tmp-" + fmt.Sprintf("%d", time.Now().UnixMilli())
	return fileName, tmpFileName
}
