package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/nspcc-dev/mpttrie/pkg/core/mpt"
	"github.com/nspcc-dev/mpttrie/pkg/core/storage"
	"github.com/nspcc-dev/mpttrie/pkg/core/storage/dbconfig"
	"github.com/urfave/cli"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var (
	configFlag = cli.StringFlag{
		Name:  "config, c",
		Usage: "path to a YAML NodeStore configuration",
		Value: "mpttrie.yml",
	}
	rootFlag = cli.StringFlag{
		Name:  "root, r",
		Usage: "current root hash, hex-encoded (empty means the empty trie)",
	}
	ignoreMissingFlag = cli.BoolFlag{
		Name:  "ignore-missing",
		Usage: "treat deleting an absent key as a no-op instead of an error",
	}
)

// NewCommands returns the mpttrie CLI's subcommands.
func NewCommands() []cli.Command {
	return []cli.Command{
		{
			Name:      "put",
			Usage:     "insert or replace the value stored at a key",
			UsageText: "mpttrie put [--config path] [--root hash] <key> <value>",
			Flags:     []cli.Flag{configFlag, rootFlag},
			Action:    cmdPut,
		},
		{
			Name:      "get",
			Usage:     "print the value stored at a key",
			UsageText: "mpttrie get [--config path] [--root hash] <key>",
			Flags:     []cli.Flag{configFlag, rootFlag},
			Action:    cmdGet,
		},
		{
			Name:      "delete",
			Usage:     "remove a key from the trie",
			UsageText: "mpttrie delete [--config path] [--root hash] [--ignore-missing] <key>",
			Flags:     []cli.Flag{configFlag, rootFlag, ignoreMissingFlag},
			Action:    cmdDelete,
		},
		{
			Name:      "root",
			Usage:     "print the empty-trie root hash, or normalize the one given",
			UsageText: "mpttrie root [--root hash]",
			Flags:     []cli.Flag{rootFlag},
			Action:    cmdRoot,
		},
	}
}

func openTrie(ctx *cli.Context, log *zap.Logger) (*mpt.Trie, storage.Store, error) {
	cfg, err := loadConfig(ctx.String("config"))
	if err != nil {
		return nil, nil, err
	}
	store, err := storage.NewStore(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("opening store: %w", err)
	}
	root, err := parseRoot(ctx.String("root"))
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	return mpt.New(store, root, mpt.WithLogger(log)), store, nil
}

func loadConfig(path string) (dbconfig.DBConfiguration, error) {
	var cfg dbconfig.DBConfiguration
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return dbconfig.DBConfiguration{Type: "inmemory"}, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

func parseRoot(s string) (mpt.Hash, error) {
	if s == "" {
		return mpt.EmptyTreeHash, nil
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return mpt.Hash{}, fmt.Errorf("invalid root hash %q: %w", s, err)
	}
	if len(b) != len(mpt.Hash{}) {
		return mpt.Hash{}, fmt.Errorf("root hash must be %d bytes, got %d", len(mpt.Hash{}), len(b))
	}
	var h mpt.Hash
	copy(h[:], b)
	return h, nil
}

func runLogger() *zap.Logger {
	log, err := zap.NewProduction()
	if err != nil {
		log = zap.NewNop()
	}
	return log.With(zap.String("run_id", uuid.NewString()))
}

func cmdPut(ctx *cli.Context) error {
	if ctx.NArg() != 2 {
		return cli.NewExitError("put requires exactly a key and a value", 1)
	}
	log := runLogger()
	defer log.Sync() //nolint:errcheck
	trie, store, err := openTrie(ctx, log)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer store.Close()

	if err := trie.Set([]byte(ctx.Args().Get(0)), []byte(ctx.Args().Get(1))); err != nil {
		return cli.NewExitError(fmt.Errorf("put: %w", err), 1)
	}
	if err := trie.Commit(); err != nil {
		return cli.NewExitError(fmt.Errorf("commit: %w", err), 1)
	}
	hash, err := trie.RootHash()
	if err != nil {
		return cli.NewExitError(fmt.Errorf("root hash: %w", err), 1)
	}
	fmt.Println(hex.EncodeToString(hash[:]))
	return nil
}

func cmdGet(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return cli.NewExitError("get requires exactly a key", 1)
	}
	log := runLogger()
	defer log.Sync() //nolint:errcheck
	trie, store, err := openTrie(ctx, log)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer store.Close()

	value, found, err := trie.Get([]byte(ctx.Args().Get(0)))
	if err != nil {
		return cli.NewExitError(fmt.Errorf("get: %w", err), 1)
	}
	if !found {
		return cli.NewExitError("key not found", 1)
	}
	fmt.Println(hex.EncodeToString(value))
	return nil
}

func cmdDelete(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return cli.NewExitError("delete requires exactly a key", 1)
	}
	log := runLogger()
	defer log.Sync() //nolint:errcheck
	trie, store, err := openTrie(ctx, log)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer store.Close()

	if err := trie.Delete([]byte(ctx.Args().Get(0)), ctx.Bool("ignore-missing")); err != nil {
		return cli.NewExitError(fmt.Errorf("delete: %w", err), 1)
	}
	if err := trie.Commit(); err != nil {
		return cli.NewExitError(fmt.Errorf("commit: %w", err), 1)
	}
	hash, err := trie.RootHash()
	if err != nil {
		return cli.NewExitError(fmt.Errorf("root hash: %w", err), 1)
	}
	fmt.Println(hex.EncodeToString(hash[:]))
	return nil
}

func cmdRoot(ctx *cli.Context) error {
	h, err := parseRoot(ctx.String("root"))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	fmt.Println(hex.EncodeToString(h[:]))
	return nil
}
