package batch

import (
	"context"
	"encoding/json"
	"fmt"

	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"
)

// WriteResults opens outputRoot as a gocloud.dev/blob bucket and writes
// one newline-delimited-JSON-free file per ecosystem/name pair, the same
// OpenBucket/NewWriter/Write/Close sequence cron/data's WriteToBlobStore
// uses, swapped from a single GCS results.json to one object per
// package so a partial batch run leaves earlier results intact.
func WriteResults(ctx context.Context, outputRoot string, outcomes []Outcome) error {
	bucket, err := blob.OpenBucket(ctx, outputRoot)
	if err != nil {
		return fmt.Errorf("batch: opening output bucket: %w", err)
	}
	defer bucket.Close()

	for _, o := range outcomes {
		if o.Err != nil {
			continue
		}
		if err := writeOne(ctx, bucket, o.Item, o.Result); err != nil {
			return err
		}
	}
	return nil
}

func writeOne(ctx context.Context, bucket *blob.Bucket, item Item, result Result) error {
	key := resultKey(item)

	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("batch: marshaling result for %s/%s: %w", item.Ecosystem, item.Name, err)
	}

	w, err := bucket.NewWriter(ctx, key, nil)
	if err != nil {
		return fmt.Errorf("batch: opening writer for %s: %w", key, err)
	}
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("batch: writing %s: %w", key, err)
	}
	return w.Close()
}

func resultKey(item Item) string {
	return fmt.Sprintf("%s/%s.json", item.Ecosystem, item.Name)
}
