// Package storage provides the optional report archive on object storage.
//
// It wraps the MinIO Go client behind a small Client interface (mockable,
// see core/storage/mocks) and exposes an Archive that uploads each run's
// CSV artifacts under runs/<runID>/. The archive works against both AWS S3
// and self-hosted MinIO instances.
//
// Archiving is opt-in: when storage is not configured, runs only return
// their artifacts to the caller.
package storage
