// Package redis connects textfix to Redis, where apply runs keep their
// resume checkpoints.
//
// Connect parses REDIS_URL and pings the server with exponential backoff.
// CheckpointStore implements reconcile.Checkpointer on a single hash:
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	cps, err := redis.NewCheckpointStore(client, cfg.CheckpointNamespace, cfg.CheckpointTTL)
//	rec, err := reconcile.New(registry, reconcile.WithCheckpointer(cps))
//
// The reconciler saves the last visited id of a target after every page of
// an apply run and clears it when the target completes.
package redis
