package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/eringen/postadmin"
	"github.com/eringen/postadmin/views"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	cmd := "serve"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "serve":
		if err := serve(); err != nil {
			log.Fatal(err)
		}
	case "version":
		fmt.Printf("postadmin %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func serve() error {
	// A .env is a convenience for local runs; absence is fine.
	_ = godotenv.Load()

	cfg, err := postadmin.LoadConfig()
	if err != nil {
		return err
	}
	app := postadmin.New(*cfg, views.Default())
	defer app.Close()
	return app.Start()
}

func printUsage() {
	fmt.Println(`postadmin - An admin panel for blog posts behind a remote REST API

Usage:
  postadmin <command>

Commands:
  serve         Start the panel server (default)
  version       Print the postadmin version
  help          Show this help message

Configuration is read from the environment (or a .env file):
  POSTADMIN_API_URL           base URL of the blog API (required)
  POSTADMIN_ADMIN_PASSWORD    panel login password (required)
  POSTADMIN_SESSION_SECRET    session secret, 32+ bytes (required)
  POSTADMIN_ADDR              listen address (default :3000)
  POSTADMIN_DB_PATH           credentials db path (default data/postadmin.db)
  POSTADMIN_NAME              panel title
  POSTADMIN_COOKIE_SECURE     set true behind HTTPS`)
}
