package main

import "github.com/BMustafa97/serverless-snacks/internal/app"

func main() {
	app.Run()
}
