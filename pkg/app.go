package pkg

import (
	"os"
	"path/filepath"

	"github.com/urfave/cli"

	"github.com/aquasecurity/rustsec-vex/pkg/advisorydb"
	"github.com/aquasecurity/rustsec-vex/pkg/log"
	"github.com/aquasecurity/rustsec-vex/pkg/registry"
	"github.com/aquasecurity/rustsec-vex/pkg/utils"
)

func NewApp(version string) *cli.App {
	app := cli.NewApp()
	app.Name = "rustsec-vex"
	app.Version = version
	app.Usage = "Convert RustSec advisories into CSAF VEX documents"
	app.ErrWriter = os.Stderr

	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:   "debug, d",
			Usage:  "enable debug logging",
			EnvVar: "RUSTSEC_VEX_DEBUG",
		},
	}
	app.Before = func(c *cli.Context) error {
		log.InitLogger(c.App.ErrWriter, c.GlobalBool("debug"))
		return nil
	}

	cacheDirFlag := cli.StringFlag{
		Name:   "cache-dir",
		Usage:  "cache directory path",
		Value:  utils.CacheDir(),
		EnvVar: "RUSTSEC_VEX_CACHE_DIR",
	}
	registryFlags := []cli.Flag{
		cli.StringFlag{
			Name:   "versions-file",
			Usage:  "YAML file mapping crate names to published versions, used instead of the registry",
			EnvVar: "RUSTSEC_VEX_VERSIONS_FILE",
		},
		cli.StringFlag{
			Name:   "index-url",
			Usage:  "crates.io sparse index URL",
			Value:  registry.DefaultIndexURL,
			EnvVar: "RUSTSEC_VEX_INDEX_URL",
		},
		cacheDirFlag,
		cli.DurationFlag{
			Name:   "cache-ttl",
			Usage:  "how long fetched version lists are reused",
			Value:  registry.DefaultCacheTTL,
			EnvVar: "RUSTSEC_VEX_CACHE_TTL",
		},
		cli.BoolFlag{
			Name:   "no-cache",
			Usage:  "always query the registry",
			EnvVar: "RUSTSEC_VEX_NO_CACHE",
		},
		cli.BoolFlag{
			Name:   "skip-yanked",
			Usage:  "ignore yanked crate versions",
			EnvVar: "RUSTSEC_VEX_SKIP_YANKED",
		},
		cli.BoolFlag{
			Name:  "validate",
			Usage: "report CSAF schema violations as warnings",
		},
	}

	dbFlags := []cli.Flag{
		cli.StringFlag{
			Name:   "db-dir",
			Usage:  "advisory database checkout",
			Value:  filepath.Join(utils.CacheDir(), "advisory-db"),
			EnvVar: "RUSTSEC_VEX_DB_DIR",
		},
		cli.StringFlag{
			Name:   "db-url",
			Usage:  "advisory database git repository",
			Value:  advisorydb.DefaultURL,
			EnvVar: "RUSTSEC_VEX_DB_URL",
		},
		cli.BoolFlag{
			Name:  "update",
			Usage: "clone or pull the advisory database first",
		},
	}

	app.Commands = []cli.Command{
		{
			Name:      "convert",
			Usage:     "convert a single advisory",
			ArgsUsage: "ADVISORY_FILE|ADVISORY_ID",
			Action:    convert,
			Flags: append(append([]cli.Flag{
				cli.StringFlag{
					Name:  "output, o",
					Usage: "output file (default: stdout)",
				},
				cli.StringFlag{
					Name:  "versions",
					Usage: "published versions to classify instead of querying the registry (comma separated)",
				},
			}, registryFlags...), dbFlags...),
		},
		{
			Name:   "convert-db",
			Usage:  "convert every advisory of the advisory database",
			Action: convertDB,
			Flags: append(append([]cli.Flag{
				cli.StringFlag{
					Name:   "output-dir",
					Usage:  "directory the VEX documents are written to",
					Value:  "vex",
					EnvVar: "RUSTSEC_VEX_OUTPUT_DIR",
				},
			}, registryFlags...), dbFlags...),
		},
		{
			Name:  "cache",
			Usage: "manage the registry version cache",
			Subcommands: []cli.Command{
				{
					Name:   "info",
					Usage:  "show the cache location and size",
					Action: cacheInfo,
					Flags:  []cli.Flag{cacheDirFlag},
				},
				{
					Name:   "purge",
					Usage:  "drop every cached version list",
					Action: cachePurge,
					Flags:  []cli.Flag{cacheDirFlag},
				},
			},
		},
		{
			Name:      "inspect",
			Usage:     "summarize a VEX document",
			ArgsUsage: "DOCUMENT",
			Action:    inspect,
		},
	}

	return app
}
