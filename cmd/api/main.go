package main

import (
	"github.com/ilindan-dev/follower-notifier/internal/app"
	"go.uber.org/fx"
)

// main is the entry point for the webhook server.
func main() {
	fx.New(app.APIModule).Run()
}
