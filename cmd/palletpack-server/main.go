// Command palletpack-server bootstraps the HTTP collaborator, wiring
// internal/api's Server onto a configurable address.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/piwi3910/palletpack/internal/api"
)

func main() {
	addrPtr := flag.String("addr", ":8080", "address to listen on")
	flag.Parse()

	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	server := api.NewServer(log)

	httpServer := &http.Server{
		Addr:         *addrPtr,
		Handler:      server.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	log.Info("starting palletpack server", "addr", *addrPtr)
	fmt.Printf("palletpack server listening on %s\n", *addrPtr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}
