package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/NordCoder/ProjectEye/internal/apiclient"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := newApp()
	if err := a.run(ctx, newRootCmd(a)); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		if apiclient.IsUnauthorized(err) {
			fmt.Fprintln(os.Stderr, "session is not valid, run `projecteye login`")
			os.Exit(2)
		}
		os.Exit(1)
	}
}
