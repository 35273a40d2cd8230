package main

import (
	"Skipkv/cmd/skipkv/app"
)

func main() {
	app.New("skipkv").Run()
}
