// Command plotserver runs the plot-scheduler server: it loads configuration
// and the whitelist, wires the storage collaborators (the codec, redstone
// ticker and backend builder are left unset in server.Deps), and
// runs the coordinator until a shutdown signal or a Shutdown message from a
// connection arrives.
package main

import (
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/voxelplots/server/server"
	"github.com/voxelplots/server/server/storage"
)

func main() {
	var configPath, dataDir string
	flag.StringVar(&configPath, "config", "config.toml", "path to the server config file")
	flag.StringVar(&dataDir, "data-dir", ".", "root directory for world/ and whitelist.json")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	conf, err := server.LoadConfig(configPath)
	if err != nil {
		log.Error("load config", "err", err)
		os.Exit(1)
	}
	conf.Log = log

	plots := storage.NewFilePlotStore(dataDir + "/world")
	players := storage.NewPlayerStore(dataDir + "/world/players")
	ownership, err := storage.OpenOwnershipRegistry(dataDir + "/world/ownership")
	if err != nil {
		log.Error("open ownership registry", "err", err)
		os.Exit(1)
	}
	defer ownership.Close()

	srv, err := server.New(conf, server.Deps{
		Plots:     plots,
		Players:   players,
		Ownership: ownership,
	}, dataDir+"/whitelist.json")
	if err != nil {
		log.Error("create server", "err", err)
		os.Exit(1)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		log.Info("signal received, shutting down")
		srv.Shutdown()
	}()

	log.Info("plotserver starting", "bind_address", conf.BindAddress)
	srv.Run()
	log.Info("shutdown complete")
}
