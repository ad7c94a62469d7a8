package scheduler

import (
	"context"
	"time"
)

// Flusher is implemented by service.SessionRegistry.
type Flusher interface {
	Flush(ctx context.Context) (saved int, err error)
}

// Reloader is implemented by catalog.Catalog.
type Reloader interface {
	Reload(ctx context.Context) error
}

func FlushJob(spec string, registry Flusher) Job {
	return Job{
		Name:    "state-flush",
		Spec:    spec,
		Timeout: 30 * time.Second,
		Run: func(ctx context.Context) error {
			_, err := registry.Flush(ctx)
			return err
		},
	}
}

func CatalogReloadJob(spec string, catalog Reloader) Job {
	return Job{
		Name:    "catalog-reload",
		Spec:    spec,
		Timeout: time.Minute,
		Run:     catalog.Reload,
	}
}

// PurgeJob runs purge, which deletes persisted state past its retention.
func PurgeJob(spec string, purge func() (int64, error)) Job {
	return Job{
		Name: "state-purge",
		Spec: spec,
		Run: func(context.Context) error {
			_, err := purge()
			return err
		},
	}
}
