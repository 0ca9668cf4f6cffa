package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/ZebulonRouseFrantzich/aidlc/internal/cache"
	"github.com/ZebulonRouseFrantzich/aidlc/internal/config"
	"github.com/ZebulonRouseFrantzich/aidlc/internal/log"
)

// project is the resolved target of a command.
type project struct {
	dir      string
	fs       billy.Filesystem
	cfg      *config.Config
	cfgFound bool
	cfgFS    billy.Filesystem
	cfgName  string
}

func openProject(ctx context.Context, ra *RootArgs) (*project, error) {
	dir, err := filepath.Abs(ra.ProjectDir)
	if err != nil {
		return nil, fmt.Errorf("resolve project dir: %w", err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("project dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("project dir %s is not a directory", dir)
	}

	cfgPath := ra.ConfigFile
	if cfgPath == "" {
		cfgPath = config.FileName
	}
	if !filepath.IsAbs(cfgPath) {
		cfgPath = filepath.Join(dir, cfgPath)
	}

	cfgFS := osfs.New(filepath.Dir(cfgPath))
	cfgName := filepath.Base(cfgPath)

	parser := config.NewParser().WithLogger(log.WithContext(ctx))
	cfg, found, err := parser.Load(ctx, cfgFS, cfgName)
	if err != nil {
		return nil, err
	}

	return &project{
		dir:      dir,
		fs:       osfs.New(dir),
		cfg:      cfg,
		cfgFound: found,
		cfgFS:    cfgFS,
		cfgName:  cfgName,
	}, nil
}

func openCache(ctx context.Context, ra *RootArgs) (*cache.Cache, error) {
	root := ra.CacheDir
	if root == "" {
		var err error
		root, err = cache.DefaultRoot()
		if err != nil {
			return nil, err
		}
	}

	c := cache.New(root)
	c.Logger = log.WithContext(ctx)
	return c, nil
}
