package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/meshur/storefront-backend/internal/app/model"
)

const (
	ProductsFile   = "products.json"
	CategoriesFile = "categories.json"
	BrandsFile     = "brands.json"
)

// Source loads a complete catalog snapshot.
type Source interface {
	Load(ctx context.Context) (*Snapshot, error)
	Name() string
}

// FileSource reads the three fixture files from a local directory.
type FileSource struct {
	Dir string
}

func NewFileSource(dir string) *FileSource {
	return &FileSource{Dir: dir}
}

func (s *FileSource) Name() string { return "file:" + s.Dir }

func (s *FileSource) Load(ctx context.Context) (*Snapshot, error) {
	return decodeSnapshot(ctx, func(_ context.Context, name string) ([]byte, error) {
		return os.ReadFile(filepath.Join(s.Dir, name))
	})
}

// ObjectReader is satisfied by storage.S3Storage.
type ObjectReader interface {
	GetObject(ctx context.Context, name string) ([]byte, error)
}

// S3Source reads the fixture files from an object store.
type S3Source struct {
	objects ObjectReader
	label   string
}

func NewS3Source(objects ObjectReader, label string) *S3Source {
	return &S3Source{objects: objects, label: label}
}

func (s *S3Source) Name() string { return "s3:" + s.label }

func (s *S3Source) Load(ctx context.Context) (*Snapshot, error) {
	return decodeSnapshot(ctx, s.objects.GetObject)
}

func decodeSnapshot(ctx context.Context, read func(ctx context.Context, name string) ([]byte, error)) (*Snapshot, error) {
	snap := &Snapshot{}
	targets := []struct {
		name string
		into interface{}
	}{
		{ProductsFile, &snap.Products},
		{CategoriesFile, &snap.Categories},
		{BrandsFile, &snap.Brands},
	}

	for _, target := range targets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := read(ctx, target.name)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", target.name, err)
		}
		if err := json.Unmarshal(data, target.into); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", target.name, err)
		}
	}

	if snap.Products == nil {
		snap.Products = []model.Product{}
	}
	if snap.Categories == nil {
		snap.Categories = []model.Category{}
	}
	if snap.Brands == nil {
		snap.Brands = []model.Brand{}
	}
	return snap, nil
}
