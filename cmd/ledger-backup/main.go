package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mmdatafocus/shop_ledger/config"
	"github.com/mmdatafocus/shop_ledger/storage"
	"github.com/mmdatafocus/shop_ledger/utils"
	"github.com/mmdatafocus/shop_ledger/workflow"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "Read the documents and print sizes without uploading")
	schedule := flag.String("schedule", "", "Cron expression (e.g. \"@daily\"); keep running and back up on that schedule")
	flag.Parse()

	ctx := context.Background()
	store, err := storage.Open(ctx, config.StoreKind())
	if err != nil {
		fmt.Fprintf(os.Stderr, "open store: %v\n", err)
		os.Exit(1)
	}
	now := time.Now()

	if *dryRun {
		snap, err := workflow.TakeSnapshot(ctx, store, now)
		if err != nil {
			fmt.Fprintf(os.Stderr, "snapshot: %v\n", err)
			os.Exit(1)
		}
		for key, raw := range snap.Documents {
			fmt.Printf("%s bytes=%d\n", key, len(raw))
		}
		fmt.Printf("would write %s\n", workflow.SnapshotName(now))
		return
	}

	w, err := utils.NewGCSWriter(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "gcs: %v\n", err)
		os.Exit(1)
	}
	defer w.Close()

	if *schedule != "" {
		runScheduled(ctx, *schedule, store, w)
		return
	}

	name, err := workflow.BackupSnapshot(ctx, store, w, now)
	if err != nil {
		fmt.Fprintf(os.Stderr, "backup failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("wrote %s\n", name)
}

func runScheduled(ctx context.Context, schedule string, store storage.KeyValueStore, w workflow.ObjectWriter) {
	c, err := workflow.ScheduleBackups(ctx, schedule, store, w, config.GetLogger())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	c.Start()
	fmt.Printf("backups scheduled: %s\n", schedule)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	<-c.Stop().Done()
}
