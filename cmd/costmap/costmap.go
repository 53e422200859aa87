package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/banshee-data/costmap/internal/config"
	"github.com/banshee-data/costmap/internal/costmap"
	"github.com/banshee-data/costmap/internal/storage/sqlite"
	"github.com/banshee-data/costmap/internal/version"
)

const usage = `usage: costmap <command> [flags]

commands:
  snapshot   build a grid from a config file and persist it
  list       list stored snapshots
  show       restore a snapshot and print its geometry and layer coverage
  delete     remove a snapshot
  version    print build information`

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(args []string, out io.Writer) error {
	if len(args) == 0 {
		return errors.New(usage)
	}
	switch args[0] {
	case "snapshot":
		return runSnapshot(args[1:], out)
	case "list":
		return runList(args[1:], out)
	case "show":
		return runShow(args[1:], out)
	case "delete":
		return runDelete(args[1:], out)
	case "version":
		fmt.Fprintf(out, "costmap %s\n", version.String())
		return nil
	default:
		return fmt.Errorf("unknown command %q\n%s", args[0], usage)
	}
}

// loadConfig returns the defaults when path is empty.
func loadConfig(path string) (*config.CostmapConfig, error) {
	if path == "" {
		return config.EmptyCostmapConfig(), nil
	}
	return config.LoadCostmapConfig(path)
}

func openStore(dbPath, configPath string) (*sqlite.SnapshotStore, error) {
	if dbPath == "" {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return nil, err
		}
		dbPath = cfg.GetSnapshotDBPath()
	}
	return sqlite.Open(dbPath)
}

func runSnapshot(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("snapshot", flag.ContinueOnError)
	configPath := fs.String("config", "", "Path to a costmap config file (.json, .yaml)")
	dbPath := fs.String("db", "", "Snapshot database (default from config)")
	reason := fs.String("reason", "", "Snapshot reason (default from config)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	g, err := costmap.GridConfigFromTuning(cfg).Build()
	if err != nil {
		return err
	}
	g.SetTimestampNanos(time.Now().UnixNano())

	if *dbPath == "" {
		*dbPath = cfg.GetSnapshotDBPath()
	}
	if *reason == "" {
		*reason = cfg.GetSnapshotReason()
	}
	store, err := sqlite.Open(*dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	id, err := g.Persist(store, *reason)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, id)
	return nil
}

func runList(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	configPath := fs.String("config", "", "Path to a costmap config file (.json, .yaml)")
	dbPath := fs.String("db", "", "Snapshot database (default from config)")
	frame := fs.String("frame", "", "Only list snapshots for this frame")
	limit := fs.Int("limit", 20, "Maximum snapshots to list (0 for all)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := openStore(*dbPath, *configPath)
	if err != nil {
		return err
	}
	defer store.Close()

	snaps, err := store.ListSnapshots(*frame, *limit)
	if err != nil {
		return err
	}
	for _, s := range snaps {
		fmt.Fprintf(out, "%s\t%s\t%s\t%dx%d@%.3f\t%s\n",
			s.SnapshotID, s.FrameID,
			time.Unix(0, s.TakenUnixNanos).UTC().Format(time.RFC3339),
			s.SizeX, s.SizeY, s.Resolution, s.SnapshotReason)
	}
	return nil
}

func runShow(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	configPath := fs.String("config", "", "Path to a costmap config file (.json, .yaml)")
	dbPath := fs.String("db", "", "Snapshot database (default from config)")
	id := fs.String("id", "", "Snapshot id (default: latest for -frame)")
	frame := fs.String("frame", "map", "Frame used when -id is not given")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := openStore(*dbPath, *configPath)
	if err != nil {
		return err
	}
	defer store.Close()

	var snap *costmap.Snapshot
	if *id != "" {
		snap, err = store.GetSnapshot(*id)
	} else {
		snap, err = store.LatestSnapshot(*frame)
	}
	if err != nil {
		return err
	}
	g, err := costmap.FromSnapshot(snap)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "id:         %s\n", snap.SnapshotID)
	fmt.Fprintf(out, "frame:      %s\n", g.FrameID())
	fmt.Fprintf(out, "size:       %s\n", g.Size())
	fmt.Fprintf(out, "resolution: %.4f\n", g.Resolution())
	fmt.Fprintf(out, "position:   (%.3f, %.3f)\n", g.Position().X, g.Position().Y)
	fmt.Fprintf(out, "basic:      %s\n", strings.Join(g.BasicLayers(), ","))
	for _, name := range g.Layers() {
		valid := 0
		for it := costmap.NewIterator(g); it.Next(); {
			if g.IsValidLayer(it.Index(), name) {
				valid++
			}
		}
		fmt.Fprintf(out, "layer %-12s %d/%d cells\n", name, valid, g.Size().Cells())
	}
	return nil
}

func runDelete(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	configPath := fs.String("config", "", "Path to a costmap config file (.json, .yaml)")
	dbPath := fs.String("db", "", "Snapshot database (default from config)")
	id := fs.String("id", "", "Snapshot id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return errors.New("delete: -id is required")
	}

	store, err := openStore(*dbPath, *configPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.DeleteSnapshot(*id); err != nil {
		return err
	}
	fmt.Fprintf(out, "deleted %s\n", *id)
	return nil
}
