package kvstore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const sessionsCollection = "sessions"

// Firestore keeps one document per namespace (sessions/<ns>) with one string
// field per key.
type Firestore struct {
	client *firestore.Client
}

// NewFirestore opens a client for projectID. credFile may be empty to use
// application default credentials or the emulator.
func NewFirestore(ctx context.Context, projectID, credFile string) (*Firestore, error) {
	var opts []option.ClientOption
	if credFile != "" {
		opts = append(opts, option.WithCredentialsFile(credFile))
	}
	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("kvstore: firestore.NewClient (project=%s): %w", projectID, err)
	}
	return &Firestore{client: client}, nil
}

func (f *Firestore) doc(ns string) *firestore.DocumentRef {
	return f.client.Collection(sessionsCollection).Doc(ns)
}

func (f *Firestore) Get(ctx context.Context, ns, key string) ([]byte, bool, error) {
	snap, err := f.doc(ns).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	v, ok := snap.Data()[key]
	if !ok {
		return nil, false, nil
	}
	switch s := v.(type) {
	case string:
		return []byte(s), true, nil
	case []byte:
		return s, true, nil
	}
	return nil, false, fmt.Errorf("kvstore: firestore field %s/%s has type %T", ns, key, v)
}

func (f *Firestore) Set(ctx context.Context, ns, key string, value []byte) error {
	_, err := f.doc(ns).Set(ctx, map[string]any{
		key:         string(value),
		"updatedAt": firestore.ServerTimestamp,
	}, firestore.MergeAll)
	return err
}

func (f *Firestore) Delete(ctx context.Context, ns, key string) error {
	_, err := f.doc(ns).Update(ctx, []firestore.Update{
		{FieldPath: firestore.FieldPath{key}, Value: firestore.Delete},
	})
	if status.Code(err) == codes.NotFound {
		return nil
	}
	return err
}

func (f *Firestore) Close() error { return f.client.Close() }
