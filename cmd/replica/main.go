package main

import (
	"flag"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/foomo/loadprobe/example"
)

func main() {
	flagAddr := flag.String("addr", ":5000", "listen address")
	flagPod := flag.String("pod", "", "replica name, defaults to $HOSTNAME")
	flag.Parse()

	pod := *flagPod
	if pod == "" {
		pod = os.Getenv("HOSTNAME")
	}
	if pod == "" {
		pod = "unknown"
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	logger.Info("replica listening", "addr", *flagAddr, "pod", pod)
	srv := &http.Server{
		Addr:              *flagAddr,
		Handler:           example.NewReplica(pod),
		ReadHeaderTimeout: 5 * time.Second,
	}
	if errServe := srv.ListenAndServe(); errServe != nil {
		logger.Error("replica stopped", "error", errServe)
		os.Exit(1)
	}
}
