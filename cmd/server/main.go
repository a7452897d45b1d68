package main

import (
	"log"

	"github.com/tasknest/tasknest/app"
)

func main() {
	a, err := app.NewApp().
		WithAutoConfig().
		WithMail().
		Build()
	if err != nil {
		log.Fatalf("Failed to build application: %v", err)
	}

	a.Run()
}
