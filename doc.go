// Package vaultarray implements the array metadata subsystem of a
// multi-dimensional array storage engine: a persistent, versioned
// key/value side-channel attached to each array, backed by an
// append-only log of write-session fragments with merge-on-read
// reconstruction, time-travel reads, on-demand consolidation, and
// optional whole-file AES-256-GCM encryption at rest.
//
// # Quick Start
//
//	ctx := context.Background()
//	arr := vaultarray.Alloc("./data/my-array")
//
//	w, _ := arr.Open(ctx, vaultarray.ModeWrite)
//	w.PutMetadata(ctx, "aaa", vaultarray.Int32, 1, []byte{5, 0, 0, 0})
//	w.Close(ctx)
//
//	r, _ := arr.Open(ctx, vaultarray.ModeRead)
//	val, ok, _ := r.GetMetadata(ctx, "aaa")
//	r.Close(ctx)
//
// # Time Travel
//
//	r, _ := arr.OpenAt(ctx, someTimestampMillis)
//
// # Encryption at Rest
//
//	w, _ := arr.OpenWithKey(ctx, vaultarray.ModeWrite, key)
//	// ... writes are sealed under AES-256-GCM before they touch the VFS
//
// # Consolidation
//
//	vaultarray.ConsolidateMetadata(ctx, arr)
//	vaultarray.ConsolidateMetadataWithKey(ctx, arr, key)
//
// # Storage Backends
//
// Arrays live on any vfs.Backend: the local filesystem (default),
// an in-memory backend for tests, or an S3-compatible object store
// via internal/vfs/s3 or internal/vfs/minio, selected with
// vaultarray.WithVFS.
package vaultarray
