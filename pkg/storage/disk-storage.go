package storage

import (
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/matst80/moment-finder/pkg/common/jsoncompat"
	"github.com/matst80/moment-finder/pkg/types"
)

const momentsFile = "moments.json"
const gzippedMomentsFile = "moments.json.gz"

// LoadMoments reads the account snapshot, preferring the gzipped file when
// both exist.
func (d *DiskStorage) LoadMoments() ([]types.Moment, error) {
	moments := make([]types.Moment, 0)
	gzName, _ := d.GetFileName(gzippedMomentsFile)
	if _, err := os.Stat(gzName); err == nil {
		err = d.LoadGzippedJson(&moments, gzippedMomentsFile)
		return moments, err
	}
	err := d.LoadJson(&moments, momentsFile)
	if errors.Is(err, fs.ErrNotExist) {
		return moments, fmt.Errorf("snapshot for %s: %w", d.Account, ErrNotFound)
	}
	if err == nil {
		log.Printf("Loaded %s moments for %s", humanize.Comma(int64(len(moments))), d.Account)
	}
	return moments, err
}

func (d *DiskStorage) SaveMoments(moments []types.Moment) error {
	return d.SaveJson(moments, momentsFile)
}

// Accounts lists the account folders below root that hold a snapshot.
func Accounts(rootFolder string) ([]string, error) {
	entries, err := os.ReadDir(rootFolder)
	if err != nil {
		return nil, err
	}
	ret := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		for _, name := range []string{momentsFile, gzippedMomentsFile} {
			if _, err := os.Stat(filepath.Join(rootFolder, e.Name(), name)); err == nil {
				ret = append(ret, e.Name())
				break
			}
		}
	}
	return ret, nil
}

func (p *DiskStorage) ensureFolder() error {
	return os.MkdirAll(filepath.Join(p.RootFolder, p.Account), 0755)
}

func (p *DiskStorage) writeAtomic(name string, write func(w io.Writer) error) error {
	if err := p.ensureFolder(); err != nil {
		return err
	}
	fileName, tmpFileName := p.GetFileName(name)

	file, err := os.Create(tmpFileName)
	if err != nil {
		return err
	}
	if err = write(file); err != nil {
		_ = file.Close()
		_ = os.Remove(tmpFileName)
		return err
	}
	if err = file.Close(); err != nil {
		_ = os.Remove(tmpFileName)
		return err
	}
	if err = os.Rename(tmpFileName, fileName); err != nil {
		_ = os.Remove(tmpFileName)
		return err
	}
	return nil
}

func (p *DiskStorage) SaveGzippedJson(data any, filename string) error {
	return p.writeAtomic(filename, func(w io.Writer) error {
		b, err := jsoncompat.Marshal(data)
		if err != nil {
			return err
		}
		zipWriter := gzip.NewWriter(w)
		if _, err = zipWriter.Write(b); err != nil {
			_ = zipWriter.Close()
			return err
		}
		return zipWriter.Close()
	})
}

func (p *DiskStorage) LoadGzippedJson(data any, filename string) error {
	name, _ := p.GetFileName(filename)
	file, err := os.Open(name)
	if err != nil {
		return err
	}
	defer file.Close()
	defer runtime.GC()

	zipReader, err := gzip.NewReader(file)
	if err != nil {
		return err
	}
	defer zipReader.Close()

	b, err := io.ReadAll(zipReader)
	if err != nil {
		return err
	}
	if len(b) == 0 {
		return nil
	}
	return jsoncompat.Unmarshal(b, data)
}

func (p *DiskStorage) SaveJson(data any, name string) error {
	return p.writeAtomic(name, func(w io.Writer) error {
		b, err := jsoncompat.Marshal(data)
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	})
}

func (p *DiskStorage) LoadJson(data any, filename string) error {
	name, _ := p.GetFileName(filename)
	b, err := os.ReadFile(name)
	if err != nil {
		return err
	}
	if len(b) == 0 {
		return nil
	}
	return jsoncompat.Unmarshal(b, data)
}
