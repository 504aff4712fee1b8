// Command depot is the admin surface of the tree-structured metadata store:
// list, create, delete and reorder folder/file records against either the
// local JSON snapshot file or the Postgres key/value backend, selected by
// configuration.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"depot/internal/config"
	"depot/internal/models"
	"depot/internal/repository"
	"depot/internal/store"

	"github.com/joho/godotenv"
)

const usage = `usage: depot <command> [flags]

commands:
  ls       [-parent id]                      list folders under a parent (root if omitted)
  files    -folder id                        list files in a folder
  tree                                       print the nested hierarchy
  mkdir    -name s [-parent id]              create a folder
  rm       -id s                             delete a folder subtree
  add      -name s -folder id -location s [-remark s]
                                             record an uploaded file
  rm-file  -id s                             delete a file record
  reorder  -kind folder|file -items id=order[,id=order...]
                                             reassign sibling positions
  reset    [-force]                          replace the snapshot with an empty one
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	logLevel := slog.LevelInfo
	if cfg.Debug {
		logLevel = slog.LevelDebug
	}

	logOut := os.Stderr
	if cfg.LogDir != "" {
		f, err := config.SetupLogFile(cfg.LogDir, 10)
		if err != nil {
			log.Fatalf("Failed to set up log file: %v", err)
		}
		defer f.Close()
		logOut = f
	}
	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	ts, cleanup, err := buildStore(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to initialize backend: %v", err)
	}
	defer cleanup()

	if err := run(ctx, ts, cfg, os.Args[1], os.Args[2:]); err != nil {
		log.Fatalf("%v", err)
	}
}

// buildStore selects the persistence backend from configuration. The tree
// store itself only ever sees the SnapshotStore interface.
func buildStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*store.TreeStore, func(), error) {
	switch cfg.Backend {
	case config.BackendFile:
		repo := repository.NewFileStore(cfg.DataFile, logger)
		return store.New(repo, logger), func() {}, nil

	case config.BackendPostgres:
		pool, err := repository.CreateConnectionPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		repo := repository.NewPostgresStore(pool, cfg.TablePrefix+"snapshots", cfg.SnapshotKey, logger)
		if err := repo.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return store.New(repo, logger), pool.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown backend %q (want %s or %s)",
			cfg.Backend, config.BackendFile, config.BackendPostgres)
	}
}

func run(ctx context.Context, ts *store.TreeStore, cfg *config.Config, command string, args []string) error {
	switch command {
	case "ls":
		fs := flag.NewFlagSet("ls", flag.ExitOnError)
		parent := fs.String("parent", "", "parent folder id (empty for root)")
		fs.Parse(args)
		folders, err := ts.ListFolders(ctx, optionalID(*parent))
		if err != nil {
			return err
		}
		return printJSON(folders)

	case "files":
		fs := flag.NewFlagSet("files", flag.ExitOnError)
		folder := fs.String("folder", "", "folder id")
		fs.Parse(args)
		files, err := ts.ListFiles(ctx, *folder)
		if err != nil {
			return err
		}
		return printJSON(files)

	case "tree":
		tree, err := ts.Tree(ctx)
		if err != nil {
			return err
		}
		renderTree(os.Stdout, tree)
		return nil

	case "mkdir":
		fs := flag.NewFlagSet("mkdir", flag.ExitOnError)
		name := fs.String("name", "", "folder name")
		parent := fs.String("parent", "", "parent folder id (empty for root)")
		fs.Parse(args)
		folder, err := ts.CreateFolder(ctx, &models.CreateFolderRequest{
			Name:     *name,
			ParentID: optionalID(*parent),
		})
		if err != nil {
			return err
		}
		return printJSON(folder)

	case "rm":
		fs := flag.NewFlagSet("rm", flag.ExitOnError)
		id := fs.String("id", "", "folder id")
		fs.Parse(args)
		if *id == "" {
			return fmt.Errorf("rm: -id is required")
		}
		return ts.DeleteFolder(ctx, *id)

	case "add":
		fs := flag.NewFlagSet("add", flag.ExitOnError)
		name := fs.String("name", "", "file name")
		folder := fs.String("folder", "", "folder id")
		location := fs.String("location", "", "payload location (path or URL)")
		remark := fs.String("remark", "", "optional remark")
		fs.Parse(args)
		file, err := ts.CreateFile(ctx, &models.CreateFileRequest{
			Name:     *name,
			FolderID: *folder,
			Location: *location,
			Remark:   *remark,
		})
		if err != nil {
			return err
		}
		return printJSON(file)

	case "rm-file":
		fs := flag.NewFlagSet("rm-file", flag.ExitOnError)
		id := fs.String("id", "", "file id")
		fs.Parse(args)
		if *id == "" {
			return fmt.Errorf("rm-file: -id is required")
		}
		return ts.DeleteFile(ctx, *id)

	case "reorder":
		fs := flag.NewFlagSet("reorder", flag.ExitOnError)
		kind := fs.String("kind", "folder", "folder or file")
		itemsArg := fs.String("items", "", "comma-separated id=order pairs")
		fs.Parse(args)
		items, err := parseOrderItems(*itemsArg)
		if err != nil {
			return err
		}
		switch *kind {
		case "folder":
			return ts.ReorderFolders(ctx, items)
		case "file":
			return ts.ReorderFiles(ctx, items)
		default:
			return fmt.Errorf("reorder: unknown kind %q", *kind)
		}

	case "reset":
		fs := flag.NewFlagSet("reset", flag.ExitOnError)
		force := fs.Bool("force", false, "allow reset in production")
		fs.Parse(args)
		if cfg.Environment == "prod" && !*force {
			return fmt.Errorf("refusing to reset the production snapshot without -force")
		}
		return ts.Reset(ctx)

	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func optionalID(s string) *string {
	if s == "" || s == "null" {
		return nil
	}
	return &s
}

func parseOrderItems(arg string) ([]models.OrderUpdate, error) {
	if arg == "" {
		return nil, fmt.Errorf("reorder: -items is required")
	}
	var items []models.OrderUpdate
	for _, pair := range strings.Split(arg, ",") {
		id, orderStr, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("reorder: malformed item %q, want id=order", pair)
		}
		order, err := strconv.Atoi(orderStr)
		if err != nil {
			return nil, fmt.Errorf("reorder: bad order in %q: %v", pair, err)
		}
		items = append(items, models.OrderUpdate{ID: id, Order: order})
	}
	return items, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
