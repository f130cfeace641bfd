package main

import (
	"github.com/gofiber/fiber/v2/log"
	"github.com/smartmeet/meeting-assistant-api/app"
)

func main() {
	err := app.SetupAndRunServer()
	if err != nil {
		log.Trace(err)
		panic(err)
	}
}
