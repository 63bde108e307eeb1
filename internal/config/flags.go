package config

import (
	"flag"
	"math"
	"os"

	"github.com/dmitrijs2005/invoicekeeper/internal/flagx"
)

// ValueFlags lists the flags that consume the following argument. Command
// dispatch uses it to find positionals.
var ValueFlags = []string{"-c", "-config", "-l", "-d", "-t", "-am", "-ai", "-ap", "-u", "-p", "-b", "-g", "-e"}

// parseFlags overlays command-line flags onto config.
//
//	-l string    environment (local, dev, prod)
//	-d string    PostgreSQL DSN
//	-m bool      run migrations before the command
//	-t duration  per-command timeout (e.g. "30s")
//	-am uint     argon2 memory, KiB
//	-ai uint     argon2 iterations
//	-ap uint     argon2 parallelism
//	-u string    S3 root user
//	-p string    S3 root password
//	-b string    S3 bucket; empty disables the proof archive
//	-g string    S3 region
//	-e string    S3 base endpoint
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-l", "-d", "-m", "-t", "-am", "-ai", "-ap", "-u", "-p", "-b", "-g", "-e"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.Env, "l", config.Env, "environment: local, dev or prod")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.BoolVar(&config.MigrateOnStart, "m", config.MigrateOnStart, "run migrations before the command")
	fs.DurationVar(&config.CommandTimeout, "t", config.CommandTimeout, "command timeout")

	memory := fs.Uint("am", uint(config.Argon2Memory), "argon2 memory (KiB)")
	iterations := fs.Uint("ai", uint(config.Argon2Iterations), "argon2 iterations")
	parallelism := fs.Uint("ap", uint(config.Argon2Parallelism), "argon2 parallelism")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	if *memory > math.MaxUint32 || *iterations > math.MaxUint32 || *parallelism > math.MaxUint8 {
		panic("argon2 parameter out of range")
	}

	config.Argon2Memory = uint32(*memory)
	config.Argon2Iterations = uint32(*iterations)
	config.Argon2Parallelism = uint8(*parallelism)
}
