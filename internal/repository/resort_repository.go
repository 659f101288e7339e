package repository

import "context"

type ResortRepository interface {
	// RegionDirectory returns the resort id -> region name mapping used by
	// the location sub-scorer. Snapshotted once per search run.
	RegionDirectory(ctx context.Context) (map[string]string, error)
}
