package catalog

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/LeonardoBeccarini/drip_planner/internal/model/entities"
)

// Source is anything able to produce a fresh catalog snapshot.
type Source interface {
	Fetch(ctx context.Context) ([]entities.PipeSpec, []entities.FittingSpec, error)
}

// Refresh pulls from src once and swaps the content of c. An empty pipe
// list leaves c untouched; a snapshot with an unusable row is rejected
// whole and c keeps its previous content.
func Refresh(ctx context.Context, c *Catalog, src Source) error {
	pipes, fittings, err := src.Fetch(ctx)
	if err != nil {
		return err
	}
	if len(pipes) == 0 {
		return nil
	}
	if err := (File{Pipes: pipes}).Validate(); err != nil {
		return fmt.Errorf("refresh rejected: %w", err)
	}
	c.Replace(pipes, fittings)
	return nil
}

// Keep refreshes c from src every interval until ctx is done. Failures keep
// the previous snapshot.
func Keep(ctx context.Context, c *Catalog, src Source, every time.Duration) {
	if every <= 0 {
		return
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := Refresh(ctx, c, src); err != nil {
				log.Printf("catalog: refresh failed, keeping %d pipes: %v", c.Len(), err)
				continue
			}
			log.Printf("catalog: refreshed, %d pipes", c.Len())
		}
	}
}
