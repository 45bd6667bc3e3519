package main

import (
	"flag"
	"log"
	"os"

	"github.com/df07/obscura/pkg/scene"
	"github.com/df07/obscura/web/server"
)

func main() {
	port := flag.Int("port", 8080, "Port to serve on")
	scenesDir := flag.String("scenes", "", "Directory of .scene files (default: ./scenes or ../scenes)")
	flag.Parse()

	dir := *scenesDir
	if dir == "" {
		dir = scene.FindScenesDir()
	}
	if dir == "" {
		log.Printf("No scenes directory found, serving built-in scenes only")
	} else if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		log.Printf("Scenes directory %q is not readable", dir)
		os.Exit(1)
	}

	webServer := server.NewServerWithScenes(*port, dir)

	log.Printf("Obscura web server, scenes from %q", dir)
	log.Printf("Try http://localhost:%d/api/scenes or /api/image?scene=default", *port)

	if err := webServer.Start(); err != nil {
		log.Printf("Error starting server: %v", err)
		os.Exit(1)
	}
}
