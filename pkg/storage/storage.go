// Package storage persists scene documents.
//
// Two backends implement [Store]:
//   - [FileStore]: one JSON file per scene, for the CLI and single-node
//     servers
//   - [MongoStore]: a MongoDB collection, for servers sharing scenes
//
// Both validate scenes on write and report a missing scene with
// errors.ErrCodeSceneNotFound, so callers can treat them interchangeably:
//
//	store, err := storage.NewFileStore("")
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	s, err := store.Get(ctx, "checkout")
//	if errors.IsNotFound(err) {
//	    s = scene.New("checkout")
//	}
package storage

import (
	"context"
	"sort"
	"time"

	"github.com/matzehuels/smartstep/pkg/scene"
)

// Store is a scene document store.
type Store interface {
	// Get loads a scene by id.
	Get(ctx context.Context, id string) (*scene.Scene, error)

	// Put creates or replaces a scene.
	Put(ctx context.Context, s *scene.Scene) error

	// Delete removes a scene. Deleting a missing scene is not an error.
	Delete(ctx context.Context, id string) error

	// List returns a summary of every stored scene ordered by id.
	List(ctx context.Context) ([]Info, error)

	// Close releases backend resources.
	Close() error
}

// Info summarises a stored scene.
type Info struct {
	ID         string    `json:"id" bson:"_id"`
	Name       string    `json:"name,omitempty" bson:"name"`
	Shapes     int       `json:"shapes" bson:"shapes"`
	Connectors int       `json:"connectors" bson:"connectors"`
	UpdatedAt  time.Time `json:"updated_at" bson:"updated_at"`
}

func infoOf(s *scene.Scene, at time.Time) Info {
	return Info{
		ID:         s.ID,
		Name:       s.Name,
		Shapes:     len(s.Shapes),
		Connectors: len(s.Connectors),
		UpdatedAt:  at.UTC(),
	}
}

func sortInfos(infos []Info) {
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
}
